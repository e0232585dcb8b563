package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"thuchi/internal/core"
)

type requestIDKey struct{}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseFilterSpec reads the view constraints from query parameters:
// type, q, from, to. Bad dates are reported, not silently dropped.
func parseFilterSpec(r *http.Request) (core.FilterSpec, error) {
	q := r.URL.Query()
	spec := core.FilterSpec{
		Type:    core.TypeFilter(strings.TrimSpace(q.Get("type"))),
		Keyword: sanitizeInput(q.Get("q")),
	}
	if spec.Type == "" {
		spec.Type = core.TypeAll
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		day, err := core.ParseDay(v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid from date %q", v)
		}
		spec.Start = day
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		day, err := core.ParseDay(v)
		if err != nil {
			return core.FilterSpec{}, fmt.Errorf("invalid to date %q", v)
		}
		spec.End = day
	}
	return spec, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return year, month
}

// parseRef reads a reference day from the ref query parameter, defaulting
// to today.
func parseRef(r *http.Request) (time.Time, error) {
	v := strings.TrimSpace(r.URL.Query().Get("ref"))
	if v == "" {
		return time.Now(), nil
	}
	day, err := core.ParseDay(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ref date %q", v)
	}
	return day.Time, nil
}
