package http

import (
	"net/http"
	"strings"

	"thuchi/internal/core"
	"thuchi/internal/format"
	"thuchi/internal/report"
)

type reportResponse struct {
	Granularity string            `json:"granularity"`
	From        string            `json:"from"`
	To          string            `json:"to"`
	Slices      []format.PieSlice `json:"slices"`
	Summary     summaryResponse   `json:"summary"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	g := report.Granularity(strings.TrimSpace(r.URL.Query().Get("granularity")))
	if g == "" {
		g = report.Month
	}
	ref, err := parseRef(r)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	rep, err := s.transactions.Report(ctx, ident.UserID, g, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportResponse{
		Granularity: string(rep.Granularity),
		From:        rep.From.String(),
		To:          rep.To.String(),
		Slices:      format.Pie(rep.Buckets),
		Summary:     summaryBody(rep.Summary),
	})
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	view, err := s.transactions.Calendar(ctx, ident.UserID, year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Marks  map[string]report.DayMark `json:"marks"`
		Totals summaryResponse           `json:"totals"`
	}{
		Marks:  view.Marks,
		Totals: summaryBody(view.Totals),
	})
}

func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.URL.Query().Get("date"))
	day, err := core.ParseDay(v)
	if err != nil {
		writeErrorStatus(w, http.StatusBadRequest, "invalid date")
		return
	}

	ident, _ := s.gate.Current()
	ctx, cancel := s.sessionContext(r)
	defer cancel()

	records, err := s.transactions.Day(ctx, ident.UserID, day)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionResponse, len(records))
	for i, tx := range records {
		out[i] = txBody(tx)
	}
	writeJSON(w, http.StatusOK, struct {
		Date         string                `json:"date"`
		Transactions []transactionResponse `json:"transactions"`
	}{Date: day.String(), Transactions: out})
}
