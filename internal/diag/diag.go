package diag

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Kind classifies a data-quality finding reported by the normalization pipeline.
type Kind string

const (
	MissingField      Kind = "missing_field"
	MalformedInput    Kind = "malformed_input"
	OutOfRangeValue   Kind = "out_of_range_value"
	ComparisonFailure Kind = "comparison_failure"
)

// Diagnostic describes a single recoverable anomaly found in one record.
// Diagnostics only inform observers; they never change the output of the
// pipeline that emitted them.
type Diagnostic struct {
	Kind     Kind
	RecordId string
	Field    string
	Detail   string
	Time     time.Time
}

// Recorder receives diagnostics. Implementations must not fail and must not
// block the calling pipeline.
type Recorder interface {
	Record(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(Diagnostic) {}

// LogRecorder writes diagnostics to the application log.
type LogRecorder struct{}

func (LogRecorder) Record(d Diagnostic) {
	switch d.Kind {
	case OutOfRangeValue, ComparisonFailure:
		log.Warnf("diagnostic %s: record=%q field=%q %s", d.Kind, d.RecordId, d.Field, d.Detail)
	default:
		log.Debugf("diagnostic %s: record=%q field=%q %s", d.Kind, d.RecordId, d.Field, d.Detail)
	}
}

// Collector accumulates diagnostics for inspection in tests.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (c *Collector) Record(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

func (c *Collector) All() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Diagnostic, len(c.diags))
	copy(result, c.diags)
	return result
}

func (c *Collector) CountOf(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, d := range c.diags {
		if d.Kind == kind {
			count++
		}
	}
	return count
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = nil
}
