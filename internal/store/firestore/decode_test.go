package firestore

import (
	"testing"
	"time"

	"thuchi/internal/core"
)

func validDoc() map[string]interface{} {
	return map[string]interface{}{
		"name":   "Monthly salary",
		"amount": int64(50000),
		"type":   "income",
		"date":   "2025-05-10T08:00:00Z",
		"userId": "u1",
	}
}

func TestDecodeRecord(t *testing.T) {
	tx, err := decodeRecord("tx-1", validDoc())
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if tx.ID != "tx-1" || tx.Name != "Monthly salary" {
		t.Errorf("unexpected identity fields: %+v", tx)
	}
	if tx.Amount.Units != 50000 {
		t.Errorf("amount = %d, want 50000", tx.Amount.Units)
	}
	if tx.Type != core.Income {
		t.Errorf("type = %q, want income", tx.Type)
	}
	if tx.CategoryOrDefault() != core.CategoryOther {
		t.Errorf("missing category should default to %q", core.CategoryOther)
	}
}

func TestDecodeRecordFloatAmount(t *testing.T) {
	data := validDoc()
	data["amount"] = float64(32000)
	tx, err := decodeRecord("tx-2", data)
	if err != nil {
		t.Fatalf("decodeRecord: %v", err)
	}
	if tx.Amount.Units != 32000 {
		t.Errorf("amount = %d, want 32000", tx.Amount.Units)
	}
}

func TestDecodeRecordRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing name", func(d map[string]interface{}) { delete(d, "name") }},
		{"missing amount", func(d map[string]interface{}) { delete(d, "amount") }},
		{"amount wrong type", func(d map[string]interface{}) { d["amount"] = "50000" }},
		{"amount zero", func(d map[string]interface{}) { d["amount"] = int64(0) }},
		{"amount negative", func(d map[string]interface{}) { d["amount"] = int64(-5000) }},
		{"missing user", func(d map[string]interface{}) { delete(d, "userId") }},
		{"missing date", func(d map[string]interface{}) { delete(d, "date") }},
		{"unknown type", func(d map[string]interface{}) { d["type"] = "transfer" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := validDoc()
			tc.mutate(data)
			if _, err := decodeRecord("tx", data); err == nil {
				t.Error("expected decode error, got nil")
			}
		})
	}
}

func TestDecodeProfile(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p := decodeProfile(map[string]interface{}{
		"fullName":  "Nguyen Van A",
		"age":       int64(28),
		"gender":    "male",
		"avatarUrl": "avatars/u1.png",
		"email":     "a@example.com",
		"createdAt": created,
	})
	if p.FullName != "Nguyen Van A" || p.Age != 28 || p.Gender != "male" {
		t.Errorf("unexpected profile: %+v", p)
	}
	if !p.CreatedAt.Equal(created) {
		t.Errorf("createdAt = %v, want %v", p.CreatedAt, created)
	}
}
