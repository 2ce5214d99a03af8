package models

import "sort"

// FileStatus is the edit state of a file inside an annotation entry.
type FileStatus string

const (
	StatusModified FileStatus = "m"
	StatusReviewed FileStatus = "r"
	StatusDeleted  FileStatus = "d"
)

// ParseFileStatus accepts only the three single letter codes.
func ParseFileStatus(s string) (FileStatus, bool) {
	switch FileStatus(s) {
	case StatusModified, StatusReviewed, StatusDeleted:
		return FileStatus(s), true
	}
	return "", false
}

// FileTimeEntry is one file line of an annotation.
// Timeline maps an epoch bucket to the seconds spent in it.
type FileTimeEntry struct {
	SourceFile string           `json:"SourceFile"`
	TimeSpent  uint32           `json:"TimeSpent"`
	Timeline   map[int64]uint32 `json:"Timeline"`
	Status     FileStatus       `json:"Status"`
}

// Epochs returns the timeline buckets in ascending order.
func (fe *FileTimeEntry) Epochs() []int64 {
	epochs := make([]int64, 0, len(fe.Timeline))
	for epoch := range fe.Timeline {
		epochs = append(epochs, epoch)
	}
	sort.Slice(epochs, func(i, j int) bool {
		return epochs[i] < epochs[j]
	})
	return epochs
}

// TimeRecord is the decoded annotation attached to a commit.
// Total is declared, not recomputed from Files.
type TimeRecord struct {
	Version uint32          `json:"Version"`
	Total   uint32          `json:"Total"`
	Files   []FileTimeEntry `json:"Files"`
}

func NewTimeRecord(version, total uint32) *TimeRecord {
	return &TimeRecord{
		Version: version,
		Total:   total,
		Files:   make([]FileTimeEntry, 0),
	}
}

// FilesTotal sums TimeSpent over all files.
func (tr *TimeRecord) FilesTotal() uint64 {
	var sum uint64
	for _, f := range tr.Files {
		sum += uint64(f.TimeSpent)
	}
	return sum
}

// File looks up an entry by path.
func (tr *TimeRecord) File(path string) (*FileTimeEntry, bool) {
	for i := range tr.Files {
		if tr.Files[i].SourceFile == path {
			return &tr.Files[i], true
		}
	}
	return nil, false
}
