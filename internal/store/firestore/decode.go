package firestore

import (
	"fmt"
	"math"
	"time"

	cfs "cloud.google.com/go/firestore"

	"thuchi/internal/core"
	"thuchi/internal/store"
)

// decodeDocs converts raw documents into transactions. A document that is
// missing a required field or carries a value of the wrong shape is counted
// and skipped; one bad record never poisons the whole set.
func decodeDocs(docs []*cfs.DocumentSnapshot) ([]core.Transaction, int) {
	records := make([]core.Transaction, 0, len(docs))
	dropped := 0
	for _, doc := range docs {
		tx, err := decodeRecord(doc.Ref.ID, doc.Data())
		if err != nil {
			dropped++
			continue
		}
		records = append(records, tx)
	}
	return records, dropped
}

func decodeRecord(id string, data map[string]interface{}) (core.Transaction, error) {
	name, err := strField(data, "name")
	if err != nil {
		return core.Transaction{}, err
	}
	units, err := intField(data, "amount")
	if err != nil {
		return core.Transaction{}, err
	}
	if units <= 0 {
		return core.Transaction{}, fmt.Errorf("non-positive amount %d", units)
	}
	typ, err := strField(data, "type")
	if err != nil {
		return core.Transaction{}, err
	}
	txType := core.TxType(typ)
	if !txType.Valid() {
		return core.Transaction{}, fmt.Errorf("unknown transaction type %q", typ)
	}
	userID, err := strField(data, fieldUserID)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := strField(data, "date")
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:        id,
		Name:      name,
		Amount:    core.Money{Units: units},
		Type:      txType,
		Date:      date,
		UserID:    userID,
		Category:  optStr(data, "category"),
		CreatedAt: optTime(data, "createdAt"),
		UpdatedAt: optTime(data, "updatedAt"),
	}, nil
}

func decodeProfile(data map[string]interface{}) store.Profile {
	return store.Profile{
		FullName:  optStr(data, "fullName"),
		Age:       int(optInt(data, "age")),
		Gender:    optStr(data, "gender"),
		AvatarURL: optStr(data, "avatarUrl"),
		Email:     optStr(data, "email"),
		CreatedAt: optTime(data, "createdAt"),
	}
}

func strField(data map[string]interface{}, key string) (string, error) {
	v, ok := data[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q is not a string", key)
	}
	return s, nil
}

// intField accepts both integer and floating encodings since documents
// written by other clients store numbers as doubles.
func intField(data map[string]interface{}, key string) (int64, error) {
	v, ok := data[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(math.Round(n)), nil
	default:
		return 0, fmt.Errorf("field %q is not a number", key)
	}
}

func optStr(data map[string]interface{}, key string) string {
	s, _ := data[key].(string)
	return s
}

func optInt(data map[string]interface{}, key string) int64 {
	n, err := intField(data, key)
	if err != nil {
		return 0
	}
	return n
}

func optTime(data map[string]interface{}, key string) time.Time {
	t, _ := data[key].(time.Time)
	return t
}
