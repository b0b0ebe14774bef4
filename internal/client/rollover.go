package client

import (
	"context"
	"sync"
)

// DayWatcher tells a long-lived client when the server's calendar day has
// rolled over, so date-relative views can be refetched.
type DayWatcher struct {
	client *Client

	mu   sync.Mutex
	last string
}

func (c *Client) WatchDay() *DayWatcher {
	return &DayWatcher{client: c}
}

// Check returns the server's date and whether it moved since the previous
// Check. The first call only records the date.
func (w *DayWatcher) Check(ctx context.Context) (string, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	res, err := w.client.Today(ctx, w.last)
	if err != nil {
		return w.last, false, err
	}
	changed := res.HasDateChanged
	if changed {
		w.client.logger.WithField("from", w.last).WithField("to", res.Today).Info("day.rollover")
	}
	w.last = res.Today
	return res.Today, changed, nil
}
