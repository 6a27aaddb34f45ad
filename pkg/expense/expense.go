package expense

import "time"

// RawRecord is an expense payload exactly as received from the upstream API or
// a spreadsheet import. Key presence and value types are not guaranteed; the
// normalizer is the only component that should touch this shape.
type RawRecord map[string]any

// Expense is the canonical expense entity. Every instance produced by the
// normalizer is fully populated: no field is ever empty downstream except Id,
// whose empty value marks a record the upstream never identified.
type Expense struct {
	Id          string
	Title       string
	Amount      float64
	Category    string
	Description string
	Date        string
	UserId      string
	CreatedAt   string
	UpdatedAt   string
}

const (
	DefaultTitle    = "Untitled Expense"
	DefaultCategory = "Other"
)

// Categories is the fixed set offered by the client's picker and used to seed
// budget reports. Normalization does not force membership - upstream records
// may carry categories outside this list.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Travel",
	"Education",
	DefaultCategory,
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats observed in upstream data. Date strings
// survive normalization unparsed, so every consumer that needs a time.Time
// goes through here and decides what to do with the error.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
