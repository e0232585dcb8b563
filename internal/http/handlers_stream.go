package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"thuchi/internal/core"
	"thuchi/internal/log"
	"thuchi/internal/store"
)

type streamEvent struct {
	Transactions []transactionResponse `json:"transactions"`
	Dropped      int                   `json:"dropped,omitempty"`
	Error        string                `json:"error,omitempty"`
}

// handleStreamTransactions pushes live snapshots of the caller's records
// as server-sent events. The stream ends when the client disconnects, the
// session ends or the store reports a terminal error.
func (s *Server) handleStreamTransactions(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorStatus(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The stream outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	sub, err := s.mirror.Subscribe(ctx, ident.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer sub.Cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, open := <-sub.C:
			if !open {
				return
			}
			if err := writeEvent(w, snap); err != nil {
				s.log.DebugContext(ctx, "Stream write failed",
					log.FieldUserID, ident.UserID,
					log.FieldError, err)
				return
			}
			flusher.Flush()
			if snap.Err != nil {
				return
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, snap store.Snapshot) error {
	ev := streamEvent{
		Transactions: make([]transactionResponse, 0, len(snap.Records)),
		Dropped:      snap.Dropped,
	}
	records := make([]core.Transaction, len(snap.Records))
	copy(records, snap.Records)
	core.SortNewestFirst(records)
	for _, tx := range records {
		ev.Transactions = append(ev.Transactions, txBody(tx))
	}
	if snap.Err != nil {
		ev.Error = snap.Err.Error()
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", b)
	return err
}
