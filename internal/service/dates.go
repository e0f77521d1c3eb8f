package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Clock yields the current time in the ledger's timezone.
type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Location: loc, Now: time.Now}
}

// Today is midnight of the current calendar day in the ledger's timezone.
func (c Clock) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// numericDate is a day-first date written with any of the usual separators,
// with or without a year: "3-6-2024", "03.06.24", "5/6".
var numericDate = regexp.MustCompile(`^\d{1,2}[-./]\d{1,2}([-./]\d{2,4})?$`)

// EntryDate turns the date as written by the sender into a calendar day. Missing or
// unrecognized dates fall back to today; the raw text is kept separately on the record.
func (c Clock) EntryDate(dateStr *string) time.Time {
	today := c.Today()
	if dateStr == nil {
		return today
	}
	s := strings.TrimSpace(*dateStr)
	switch strings.ToLower(s) {
	case "", "today", "now":
		return today
	case "yesterday":
		return today.AddDate(0, 0, -1)
	}

	if numericDate.MatchString(s) {
		s = strings.NewReplacer("-", "/", ".", "/").Replace(s)
		if strings.Count(s, "/") == 1 {
			s += "/" + strconv.Itoa(today.Year())
		}
	}

	loc := today.Location()
	t, err := dateparse.ParseIn(s, loc, dateparse.PreferMonthFirst(false))
	if err != nil {
		return today
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
