package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Schedule decides when a job runs next.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

// first is implemented by schedules whose first run differs from Next.
type first interface {
	First(start time.Time) time.Time
}

type every struct {
	d, delay time.Duration
}

// Every runs a job every d, the first time delay after the scheduler starts.
func Every(d, delay time.Duration) Schedule {
	return every{d: d, delay: delay}
}

func (s every) Next(from time.Time) time.Time  { return from.Add(s.d) }
func (s every) First(start time.Time) time.Time { return start.Add(s.delay) }
func (s every) String() string                  { return fmt.Sprintf("every %v", s.d) }

type hm struct {
	hour, minute int
}

type daily struct {
	at []hm
}

// DailyAt runs a job once a day at hour:minute in the clock's location.
func DailyAt(hour, minute int) Schedule {
	return daily{at: []hm{{hour, minute}}}
}

// ParseDaily builds a daily schedule from "HH:MM" values.
func ParseDaily(values ...string) (Schedule, error) {
	if len(values) == 0 {
		return nil, errors.New("no run times")
	}
	d := daily{}
	for _, v := range values {
		t, err := time.Parse("15:04", strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(err, "run time %q", v)
		}
		d.at = append(d.at, hm{t.Hour(), t.Minute()})
	}
	sort.Slice(d.at, func(i, j int) bool {
		if d.at[i].hour != d.at[j].hour {
			return d.at[i].hour < d.at[j].hour
		}
		return d.at[i].minute < d.at[j].minute
	})
	return d, nil
}

func (s daily) Next(from time.Time) time.Time {
	for _, at := range s.at {
		next := time.Date(from.Year(), from.Month(), from.Day(), at.hour, at.minute, 0, 0, from.Location())
		if next.After(from) {
			return next
		}
	}
	at := s.at[0]
	return time.Date(from.Year(), from.Month(), from.Day()+1, at.hour, at.minute, 0, 0, from.Location())
}

func (s daily) String() string {
	parts := make([]string, 0, len(s.at))
	for _, at := range s.at {
		parts = append(parts, fmt.Sprintf("%02d:%02d", at.hour, at.minute))
	}
	return "daily at " + strings.Join(parts, ",")
}
