package models

// SnapshotVersion is the current snapshot envelope version.
const SnapshotVersion = 1

// ArchivedCommit is a commit as persisted. Note holds the encoded annotation text
// so snapshots keep the same representation as the notes ref.
type ArchivedCommit struct {
	Info CommitInfo `json:"info"`
	Note string     `json:"note"`
}

// ProjectSnapshot is the persisted state of a single project.
type ProjectSnapshot struct {
	Path    string           `json:"path"`
	Commits []ArchivedCommit `json:"commits"`
	Status  string           `json:"status,omitempty"`
}

// Snapshot is the persistence envelope with an explicit version field.
type Snapshot struct {
	Version  int                         `json:"version"`
	Projects map[string]*ProjectSnapshot `json:"projects"`
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version:  SnapshotVersion,
		Projects: make(map[string]*ProjectSnapshot),
	}
}
