package models

import (
	"strings"
	"time"
)

// CommitDateLayout matches the "2020-05-20 05:24:02 +02:00" dashboard format.
const CommitDateLayout = "2006-01-02 15:04:05 -07:00"

// CommitInfo is what the repository collaborator exposes about an annotated commit.
type CommitInfo struct {
	Hash      string    `json:"hash"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Committed time.Time `json:"committed"`
	Authored  time.Time `json:"authored"`
}

// Commit is the JSON shape served to dashboards.
type Commit struct {
	Author  string     `json:"Author"`
	Date    string     `json:"Date"`
	When    string     `json:"When"`
	Hash    string     `json:"Hash"`
	Subject string     `json:"Subject"`
	Message string     `json:"Message"`
	Project string     `json:"Project"`
	Note    TimeRecord `json:"Note"`
}

func NewCommit(info CommitInfo, project string, note *TimeRecord) Commit {
	subject, body, _ := strings.Cut(info.Message, "\n\n")
	return Commit{
		Author:  info.Author,
		Date:    info.Committed.Format(CommitDateLayout),
		When:    info.Authored.Format(CommitDateLayout),
		Hash:    info.Hash,
		Subject: subject,
		Message: body,
		Project: project,
		Note:    *note,
	}
}

// WorkdirStatus is the not yet committed time of a project.
type WorkdirStatus struct {
	Total      uint32     `json:"Total"`
	Label      string     `json:"Label"`
	CommitNote TimeRecord `json:"CommitNote"`
}

func NewWorkdirStatus(note *TimeRecord) *WorkdirStatus {
	return &WorkdirStatus{
		Total:      note.Total,
		Label:      FormatDuration(int64(note.Total)),
		CommitNote: *note,
	}
}
