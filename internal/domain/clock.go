package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is an offset from midnight.
type TimeOfDay time.Duration

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d := time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second
			return TimeOfDay(d), nil
		}
	}
	return 0, fmt.Errorf("parse time of day %q: expected HH:MM or HH:MM:SS", s)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Seconds since midnight, used for storage.
func (t TimeOfDay) Seconds() int { return int(time.Duration(t) / time.Second) }

func TimeOfDayFromSeconds(s int) TimeOfDay { return TimeOfDay(time.Duration(s) * time.Second) }
