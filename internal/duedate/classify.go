package duedate

import (
	"sort"
	"time"
)

// Bucket is one of the five mutually exclusive due-date groups.
type Bucket string

const (
	Overdue     Bucket = "overdue"
	DueToday    Bucket = "due_today"
	DueTomorrow Bucket = "due_tomorrow"
	Upcoming    Bucket = "upcoming"
	NoDate      Bucket = "no_date"
)

// DefaultZone is the zone "today" is evaluated in unless configured otherwise.
const DefaultZone = "America/Chicago"

// Clock yields "today" in one fixed location.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

// NewClock loads the named IANA zone.
func NewClock(zone string) (Clock, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Clock{}, err
	}
	return Clock{Location: loc, Now: time.Now}, nil
}

// FixedClock always reports the given date. Used by tests and replays.
func FixedClock(today Date) Clock {
	t := today.Time().Add(12 * time.Hour)
	return Clock{Location: time.UTC, Now: func() time.Time { return t }}
}

// Today is the current calendar date in c's location. Call it once per pass
// and thread the result through Classify and RelativeLabel.
func (c Clock) Today() Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(now().In(loc))
}

// HasDateChanged reports whether today differs from a previously observed
// YYYY-MM-DD string.
func (c Clock) HasDateChanged(last string) bool {
	return c.Today().String() != last
}

// Classify places a due date into its bucket relative to today.
func Classify(d *Date, today Date) Bucket {
	if d == nil {
		return NoDate
	}
	switch c := d.Compare(today); {
	case c < 0:
		return Overdue
	case c == 0:
		return DueToday
	case d.Equal(today.AddDays(1)):
		return DueTomorrow
	default:
		return Upcoming
	}
}

// RelativeLabel renders a short label for d as seen on today.
func RelativeLabel(d, today Date) string {
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDays(-1)):
		return "Yesterday"
	case d.Equal(today.AddDays(1)):
		return "Tomorrow"
	}
	if d.After(today.AddDays(-7)) && d.Before(today.AddDays(7)) {
		return d.Time().Format("Mon")
	}
	return d.Time().Format("Jan 2")
}

// Dated is anything that can be bucketed.
type Dated interface {
	Due() *Date
	Order() int
	Project() string
}

// Buckets holds a partition of items. Every input lands in exactly one slice.
type Buckets[T Dated] struct {
	Overdue     []T
	DueToday    []T
	DueTomorrow []T
	Upcoming    []T
	NoDate      []T
}

// Get returns the slice for b.
func (bs *Buckets[T]) Get(b Bucket) []T {
	switch b {
	case Overdue:
		return bs.Overdue
	case DueToday:
		return bs.DueToday
	case DueTomorrow:
		return bs.DueTomorrow
	case Upcoming:
		return bs.Upcoming
	default:
		return bs.NoDate
	}
}

// Len is the total number of partitioned items.
func (bs *Buckets[T]) Len() int {
	return len(bs.Overdue) + len(bs.DueToday) + len(bs.DueTomorrow) + len(bs.Upcoming) + len(bs.NoDate)
}

// Partition splits items into buckets against a single today. Inside each
// bucket items are ordered by due date, then sort order, then project name.
func Partition[T Dated](items []T, today Date) Buckets[T] {
	var out Buckets[T]
	for _, it := range items {
		switch Classify(it.Due(), today) {
		case Overdue:
			out.Overdue = append(out.Overdue, it)
		case DueToday:
			out.DueToday = append(out.DueToday, it)
		case DueTomorrow:
			out.DueTomorrow = append(out.DueTomorrow, it)
		case Upcoming:
			out.Upcoming = append(out.Upcoming, it)
		default:
			out.NoDate = append(out.NoDate, it)
		}
	}
	for _, list := range [][]T{out.Overdue, out.DueToday, out.DueTomorrow, out.Upcoming, out.NoDate} {
		sortBucket(list)
	}
	return out
}

func sortBucket[T Dated](list []T) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		da, db := a.Due(), b.Due()
		if da != nil && db != nil {
			if c := da.Compare(*db); c != 0 {
				return c < 0
			}
		}
		if a.Order() != b.Order() {
			return a.Order() < b.Order()
		}
		return a.Project() < b.Project()
	})
}
