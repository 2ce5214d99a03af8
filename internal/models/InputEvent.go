package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidEpoch = errors.New("invalid epoch")

// InputEvent is the body of POST /events.
type InputEvent struct {
	Project   string `json:"project"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"`
}

func (e InputEvent) FileEvent() FileEvent {
	return FileEvent{Timestamp: e.Timestamp, Path: e.Path}
}

// ValidEventPath reports whether path can be written into a note entry and
// read back unchanged. The entry grammar ends a path at the first ':' and
// splits fields on ','.
func ValidEventPath(path string) bool {
	return path != "" && !strings.ContainsAny(path, ",:\r\n")
}

// ParseEpoch accepts only the canonical decimal form of an epoch, the one
// strconv.FormatInt produces. "0100", "+100", "1e2" and "100.0" are rejected
// so that two spellings never name the same second.
func ParseEpoch(s string) (int64, error) {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil || strconv.FormatInt(ts, 10) != s {
		return 0, fmt.Errorf("%w: %q", ErrInvalidEpoch, s)
	}
	return ts, nil
}
