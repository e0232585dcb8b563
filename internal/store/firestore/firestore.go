// Package firestore adapts Cloud Firestore to the store ports. The live
// subscription contract maps directly onto query snapshot listeners: every
// remote change yields a new full snapshot of the matching documents.
package firestore

import (
	"context"
	"fmt"
	"sync"

	cfs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"thuchi/internal/core"
	"thuchi/internal/faults"
	"thuchi/internal/log"
	"thuchi/internal/store"
)

const (
	txCollection   = "transactions"
	userCollection = "users"

	fieldUserID = "userId"
)

type Client struct {
	cli *cfs.Client
	log *log.Logger
}

var (
	_ store.TransactionStore = (*Client)(nil)
	_ store.ProfileStore     = (*Client)(nil)
)

func New(ctx context.Context, projectID string, logger *log.Logger, opts ...option.ClientOption) (*Client, error) {
	cli, err := cfs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Client{cli: cli, log: logger.WithComponent(log.ComponentStore)}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) Create(ctx context.Context, tx core.Transaction) (string, error) {
	fields := map[string]interface{}{
		"name":      tx.Name,
		"amount":    tx.Amount.Units,
		"type":      string(tx.Type),
		"date":      tx.Date,
		fieldUserID: tx.UserID,
		"createdAt": tx.CreatedAt,
		"updatedAt": tx.UpdatedAt,
	}
	if tx.Category != "" {
		fields["category"] = tx.Category
	}
	ref, _, err := c.cli.Collection(txCollection).Add(ctx, fields)
	if err != nil {
		return "", storeErr("create transaction", err)
	}
	c.log.InfoContext(ctx, "Transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldTxID, ref.ID,
		log.FieldUserID, tx.UserID)
	return ref.ID, nil
}

func (c *Client) Update(ctx context.Context, tx core.Transaction) error {
	_, err := c.cli.Collection(txCollection).Doc(tx.ID).Set(ctx, map[string]interface{}{
		"name":      tx.Name,
		"amount":    tx.Amount.Units,
		"type":      string(tx.Type),
		"updatedAt": tx.UpdatedAt,
	}, cfs.MergeAll)
	if err != nil {
		return storeErr("update transaction", err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	// Exists precondition so deleting an unknown id reports an error
	// instead of silently succeeding.
	_, err := c.cli.Collection(txCollection).Doc(id).Delete(ctx, cfs.Exists)
	if err != nil {
		return storeErr("delete transaction", err)
	}
	return nil
}

func (c *Client) ListByUser(ctx context.Context, userID string) ([]core.Transaction, error) {
	return c.list(ctx, c.txQuery(userID))
}

func (c *Client) ListAll(ctx context.Context) ([]core.Transaction, error) {
	return c.list(ctx, c.txQuery(""))
}

func (c *Client) list(ctx context.Context, q cfs.Query) ([]core.Transaction, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	records, dropped := decodeDocs(docs)
	if dropped > 0 {
		c.log.WarnContext(ctx, "Dropped records that failed to decode",
			log.FieldOperation, log.OpList,
			log.FieldDropped, dropped)
	}
	return records, nil
}

func (c *Client) Watch(ctx context.Context, userID string) (<-chan store.Snapshot, func(), error) {
	snapIter := c.txQuery(userID).Snapshots(ctx)
	ch := make(chan store.Snapshot, 1)
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			snapIter.Stop()
		})
	}

	go func() {
		defer close(ch)
		for {
			qs, err := snapIter.Next()
			if err != nil {
				select {
				case <-done:
					return
				default:
				}
				if ctx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				// Surface the error state instead of retrying silently;
				// the stream ends and the consumer decides what happens.
				deliver(ch, done, store.Snapshot{Err: storeErr("subscription", err)})
				return
			}
			docs, err := qs.Documents.GetAll()
			if err != nil {
				deliver(ch, done, store.Snapshot{Err: storeErr("subscription read", err)})
				return
			}
			records, dropped := decodeDocs(docs)
			deliver(ch, done, store.Snapshot{Records: records, Dropped: dropped})
		}
	}()
	return ch, stop, nil
}

func (c *Client) Get(ctx context.Context, userID string) (store.Profile, bool, error) {
	doc, err := c.cli.Collection(userCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return store.Profile{}, false, nil
		}
		return store.Profile{}, false, storeErr("get profile", err)
	}
	return decodeProfile(doc.Data()), true, nil
}

func (c *Client) Put(ctx context.Context, userID string, p store.Profile) error {
	_, err := c.cli.Collection(userCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"fullName":  p.FullName,
		"age":       p.Age,
		"gender":    p.Gender,
		"avatarUrl": p.AvatarURL,
		"email":     p.Email,
		"createdAt": p.CreatedAt,
	})
	if err != nil {
		return storeErr("put profile", err)
	}
	return nil
}

func (c *Client) txQuery(userID string) cfs.Query {
	q := c.cli.Collection(txCollection).Query
	if userID != "" {
		q = q.Where(fieldUserID, "==", userID)
	}
	return q
}

// deliver hands a snapshot to the consumer, replacing an unconsumed older
// one: only the latest state matters.
func deliver(ch chan store.Snapshot, done <-chan struct{}, snap store.Snapshot) {
	select {
	case <-done:
		return
	default:
	}
	select {
	case ch <- snap:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		case <-done:
		}
	}
}

func storeErr(op string, err error) error {
	return faults.Wrap(faults.KindStore, op, err)
}
