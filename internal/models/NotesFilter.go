package models

import (
	"fmt"
	"strings"
	"time"
)

const filterDateLayout = "2006-01-02"

// NotesFilter selects commits by wall-clock commit time and message text.
// Nil bounds and an empty needle match everything.
type NotesFilter struct {
	From   *int64
	To     *int64
	Needle string
}

func AllNotes() *NotesFilter {
	return &NotesFilter{}
}

// ParseDateFilter builds a filter from YYYY-MM-DD bounds. The upper bound is
// moved to the midnight that follows it so the whole day is included.
func ParseDateFilter(from, to, needle string) (*NotesFilter, error) {
	f := &NotesFilter{Needle: needle}
	if from != "" {
		ts, err := parseFilterDate(from, 0)
		if err != nil {
			return nil, fmt.Errorf("could not parse from argument: %w", err)
		}
		f.From = &ts
	}
	if to != "" {
		ts, err := parseFilterDate(to, 1)
		if err != nil {
			return nil, fmt.Errorf("could not parse to argument: %w", err)
		}
		f.To = &ts
	}
	return f, nil
}

func parseFilterDate(date string, days int) (int64, error) {
	t, err := time.Parse(filterDateLayout, date)
	if err != nil {
		return 0, err
	}
	return t.AddDate(0, 0, days).Unix(), nil
}

// Matches applies the bounds to the commit time shifted by its zone offset.
func (f *NotesFilter) Matches(committed time.Time, message string) bool {
	_, offset := committed.Zone()
	ts := committed.Unix() + int64(offset)
	if f.From != nil && ts < *f.From {
		return false
	}
	if f.To != nil && ts > *f.To {
		return false
	}
	if f.Needle != "" && !strings.Contains(strings.ToLower(message), strings.ToLower(f.Needle)) {
		return false
	}
	return true
}

// CacheKey identifies the filter in response caches.
func (f *NotesFilter) CacheKey() string {
	var from, to string
	if f.From != nil {
		from = fmt.Sprint(*f.From)
	}
	if f.To != nil {
		to = fmt.Sprint(*f.To)
	}
	return from + ":" + to + ":" + strings.ToLower(f.Needle)
}
