package expense

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spendwell/spendwell/internal/diag"
	"github.com/spendwell/spendwell/internal/utils"
)

// Normalizer converts raw upstream records into canonical Expenses. It is a
// total function over its input: any value, including a nil map, produces a
// fully populated Expense. Anomalies are reported to the diagnostics recorder
// and never change the output.
type Normalizer struct {
	clock    utils.Clock
	recorder diag.Recorder
}

func NewNormalizer(clock utils.Clock, recorder diag.Recorder) *Normalizer {
	if recorder == nil {
		recorder = diag.Discard
	}
	return &Normalizer{clock: clock, recorder: recorder}
}

// Normalize resolves every field of a raw record with fixed fallback order:
// title -> name -> "Untitled Expense"; category -> "Other";
// date -> createdAt -> now; createdAt -> now; updatedAt -> resolved createdAt.
// The amount goes through CoerceAmount.
func (n *Normalizer) Normalize(raw RawRecord) Expense {
	now := n.clock.Now().UTC().Format(time.RFC3339)

	id, hasId := stringField(raw, "id")
	title, hasTitle := stringField(raw, "title")
	if !hasTitle {
		title, hasTitle = stringField(raw, "name")
	}
	category, hasCategory := stringField(raw, "category")
	description, _ := stringField(raw, "description")
	date, hasDate := stringField(raw, "date")
	createdAt, hasCreatedAt := stringField(raw, "createdAt")
	updatedAt, hasUpdatedAt := stringField(raw, "updatedAt")
	userId, _ := stringField(raw, "userId")

	if !hasId {
		n.report(diag.MissingField, id, "id", "record has no id; it cannot be updated or deleted upstream")
	}
	if !hasTitle {
		title = DefaultTitle
		n.report(diag.MissingField, id, "title", "neither title nor name present")
	}
	if !hasCategory {
		category = DefaultCategory
		n.report(diag.MissingField, id, "category", "falling back to "+DefaultCategory)
	}
	if !hasDate {
		date = createdAt
		if !hasCreatedAt {
			date = now
			n.report(diag.MissingField, id, "date", "neither date nor createdAt present")
		}
	}
	if !hasCreatedAt {
		createdAt = now
	}
	if !hasUpdatedAt {
		updatedAt = createdAt
	}

	var rawAmount any
	if raw != nil {
		rawAmount = raw["amount"]
	}
	outcome := coerceAmount(rawAmount)
	switch {
	case outcome.missing:
		n.report(diag.MissingField, id, "amount", "amount absent, defaulting to 0")
	case outcome.malformed:
		n.report(diag.MalformedInput, id, "amount", fmt.Sprintf("unparseable amount %v, defaulting to 0", rawAmount))
	case outcome.clamped:
		n.report(diag.OutOfRangeValue, id, "amount", fmt.Sprintf("amount %v clamped to %v", rawAmount, MaxAmount))
	}

	return Expense{
		Id:          id,
		Title:       title,
		Amount:      outcome.value,
		Category:    category,
		Description: description,
		Date:        date,
		UserId:      userId,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// NormalizeAll maps Normalize over a batch, preserving order.
func (n *Normalizer) NormalizeAll(raws []RawRecord) []Expense {
	expenses := make([]Expense, 0, len(raws))
	for _, raw := range raws {
		expenses = append(expenses, n.Normalize(raw))
	}
	return expenses
}

func (n *Normalizer) report(kind diag.Kind, recordId, field, detail string) {
	n.recorder.Record(diag.Diagnostic{
		Kind:     kind,
		RecordId: recordId,
		Field:    field,
		Detail:   detail,
		Time:     n.clock.Now(),
	})
}

// stringField reads a text field from a raw record. Empty strings count as
// absent so fallbacks trigger the same way the mobile client's truthiness
// checks did. Numbers are accepted and formatted; other types count as absent.
func stringField(raw RawRecord, key string) (string, bool) {
	if raw == nil {
		return "", false
	}
	switch v := raw[key].(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}
