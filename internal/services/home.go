package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"thuchi/internal/core"
	"thuchi/internal/store"
)

// HomeView is everything the landing screen needs in one shot: the profile
// header plus the filtered, newest-first transaction list with totals.
type HomeView struct {
	Profile store.Profile
	List    ListResult
}

// HomeService assembles the landing screen from the two independent reads.
type HomeService struct {
	transactions *TransactionService
	profiles     *ProfileService
}

func NewHomeService(transactions *TransactionService, profiles *ProfileService) *HomeService {
	return &HomeService{transactions: transactions, profiles: profiles}
}

// View fetches profile and transactions concurrently; either failure fails
// the whole view.
func (s *HomeService) View(ctx context.Context, userID, email string, spec core.FilterSpec) (HomeView, error) {
	var view HomeView

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profiles.Get(ctx, userID, email)
		if err != nil {
			return err
		}
		view.Profile = p
		return nil
	})
	g.Go(func() error {
		list, err := s.transactions.List(ctx, userID, spec)
		if err != nil {
			return err
		}
		view.List = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return HomeView{}, err
	}
	return view, nil
}
