package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/josh-kartchner/traction/internal/duedate"
)

// OptionalDate is a nullable calendar date that remembers whether the field
// was present at all: absent leaves the stored value alone, null clears it.
//
// Accepts "2006-01-02" or an RFC3339 timestamp, of which only the written
// date is kept (no zone conversion).
type OptionalDate struct {
	Set   bool
	Value *duedate.Date
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate: must be a string or null")
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.Value = nil
		return nil
	}
	v, err := parseDueDate(strings.TrimSpace(*raw))
	if err != nil {
		return err
	}
	d.Value = &v
	return nil
}

// Ptr returns the date, or nil when absent or null.
func (d OptionalDate) Ptr() *duedate.Date { return d.Value }

func parseDueDate(s string) (duedate.Date, error) {
	if v, err := duedate.ParseDate(s); err == nil {
		return v, nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return duedate.FromTime(t), nil
		}
	}
	return duedate.Date{}, fmt.Errorf("dueDate: use YYYY-MM-DD")
}
