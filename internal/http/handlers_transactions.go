package http

import (
	"net/http"
	"time"

	"thuchi/internal/core"
	"thuchi/internal/faults"
	"thuchi/internal/format"
	"thuchi/internal/report"
	"thuchi/internal/services"
)

type transactionRequest struct {
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amountDisplay"`
	Type          string    `json:"type"`
	Date          string    `json:"date"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
}

type summaryResponse struct {
	TotalIncome  int64  `json:"totalIncome"`
	TotalExpense int64  `json:"totalExpense"`
	Net          int64  `json:"net"`
	NetDisplay   string `json:"netDisplay"`
}

type listResponse struct {
	Transactions []transactionResponse `json:"transactions"`
	Summary      summaryResponse       `json:"summary"`
}

func txBody(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Name:          tx.Name,
		Amount:        tx.Amount.Units,
		AmountDisplay: format.Money(tx.Amount),
		Type:          string(tx.Type),
		Date:          tx.Date,
		Category:      tx.CategoryOrDefault(),
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
}

func summaryBody(sum report.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  sum.TotalIncome.Units,
		TotalExpense: sum.TotalExpense.Units,
		Net:          sum.Net.Units,
		NetDisplay:   format.Signed(sum.Net),
	}
}

func listBody(res services.ListResult) listResponse {
	out := listResponse{
		Transactions: make([]transactionResponse, len(res.Records)),
		Summary:      summaryBody(res.Summary),
	}
	for i, tx := range res.Records {
		out.Transactions[i] = txBody(tx)
	}
	return out
}

// parseTransactionInput converts the request body, with the amount given
// the same way it is typed: digits with optional separators.
func parseTransactionInput(req transactionRequest) (services.TransactionInput, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return services.TransactionInput{}, faults.Wrap(faults.KindValidation, "parse amount", err)
	}
	return services.TransactionInput{
		Name:     sanitizeInput(req.Name),
		Amount:   amount,
		Type:     core.TxType(req.Type),
		Date:     req.Date,
		Category: sanitizeInput(req.Category),
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	res, err := s.transactions.List(ctx, ident.UserID, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listBody(res))
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	input, err := parseTransactionInput(req)
	if err != nil {
		writeError(w, err)
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	tx, err := s.transactions.Add(ctx, ident.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, txBody(tx))
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	input, err := parseTransactionInput(req)
	if err != nil {
		writeError(w, err)
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	if err := s.transactions.Edit(ctx, ident.UserID, r.PathValue("id"), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	if err := s.transactions.Remove(ctx, ident.UserID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	spec, err := parseFilterSpec(r)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	view, err := s.home.View(ctx, ident.UserID, ident.Email, spec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Profile profileResponse `json:"profile"`
		List    listResponse    `json:"list"`
	}{
		Profile: profileBody(view.Profile),
		List:    listBody(view.List),
	})
}
