package models

import (
	"fmt"
	"sort"
)

const (
	minuteSeconds = 60
	hourSeconds   = 3600

	// AggregateVersion is the note format version emitted by Aggregate.
	AggregateVersion = 1
)

// FileEvent says which file was active at Timestamp (epoch seconds).
type FileEvent struct {
	Timestamp int64  `json:"timestamp"`
	Path      string `json:"path"`
}

// DownToMinute floors an epoch to its minute bin.
func DownToMinute(timestamp int64) int64 {
	return (timestamp / minuteSeconds) * minuteSeconds
}

// DownToHour floors an epoch to its hour bucket.
func DownToHour(timestamp int64) int64 {
	return (timestamp / hourSeconds) * hourSeconds
}

// TimeBin tallies the events that fell into one minute.
type TimeBin struct {
	files map[string]int
	count int
}

func NewTimeBin() *TimeBin {
	return &TimeBin{files: make(map[string]int)}
}

func (b *TimeBin) Append(path string) {
	b.files[path]++
	b.count++
}

// TimeSpent is the share of the minute owned by path, truncated to whole seconds.
// Panics when path never appeared in this bin.
func (b *TimeBin) TimeSpent(path string) uint32 {
	n, ok := b.files[path]
	if !ok {
		panic(fmt.Sprintf("models: file %q not present in bin", path))
	}
	return uint32(minuteSeconds * n / b.count)
}

func (b *TimeBin) Count() int {
	return b.count
}

// Paths returns the files of the bin sorted lexicographically.
func (b *TimeBin) Paths() []string {
	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// OutOfOrderError is the panic value raised by NewTimeline when events are not
// strictly increasing by timestamp.
type OutOfOrderError struct {
	Index    int
	Previous int64
	Current  int64
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("models: event %d at %d does not follow %d", e.Index, e.Current, e.Previous)
}

// Timeline groups file events into minute bins.
type Timeline struct {
	bins map[int64]*TimeBin
}

// NewTimeline bins events that must already be sorted by strictly increasing
// timestamp. Any other order is a caller bug and panics.
func NewTimeline(events []FileEvent) *Timeline {
	tl := &Timeline{bins: make(map[int64]*TimeBin)}
	for i, event := range events {
		if i > 0 && events[i-1].Timestamp >= event.Timestamp {
			panic(&OutOfOrderError{Index: i, Previous: events[i-1].Timestamp, Current: event.Timestamp})
		}
		minute := DownToMinute(event.Timestamp)
		bin, ok := tl.bins[minute]
		if !ok {
			bin = NewTimeBin()
			tl.bins[minute] = bin
		}
		bin.Append(event.Path)
	}
	return tl
}

func (tl *Timeline) Bin(minute int64) (*TimeBin, bool) {
	bin, ok := tl.bins[minute]
	return bin, ok
}

// Minutes returns the populated minute bins in ascending order.
func (tl *Timeline) Minutes() []int64 {
	minutes := make([]int64, 0, len(tl.bins))
	for m := range tl.bins {
		minutes = append(minutes, m)
	}
	sort.Slice(minutes, func(i, j int) bool {
		return minutes[i] < minutes[j]
	})
	return minutes
}

// TimeRecord folds the minute bins into per-file hourly timelines.
// Every file gets the reviewed status, files are sorted by path.
func (tl *Timeline) TimeRecord() *TimeRecord {
	record := NewTimeRecord(AggregateVersion, 0)
	files := make(map[string]*FileTimeEntry)

	for _, minute := range tl.Minutes() {
		bin := tl.bins[minute]
		hour := DownToHour(minute)
		for _, path := range bin.Paths() {
			entry, ok := files[path]
			if !ok {
				entry = &FileTimeEntry{
					SourceFile: path,
					Timeline:   make(map[int64]uint32),
					Status:     StatusReviewed,
				}
				files[path] = entry
			}
			seconds := bin.TimeSpent(path)
			entry.TimeSpent += seconds
			entry.Timeline[hour] += seconds
			record.Total += seconds
		}
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		record.Files = append(record.Files, *files[p])
	}
	return record
}

// Aggregate turns an ordered stream of file events into a time record.
func Aggregate(events []FileEvent) *TimeRecord {
	return NewTimeline(events).TimeRecord()
}
