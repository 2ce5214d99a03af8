package models

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
)

var headerRe = regexp.MustCompile(`^\[ver:(\d+),total:(\d+)\]$`)

// DecodeNote parses the annotation text stored against a commit.
// Decoding stops at the first malformed line.
func DecodeNote(text string) (*TimeRecord, error) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), len(text)+1)

	if !scanner.Scan() {
		return nil, ErrEmptyNote
	}
	record, err := decodeHeader(scanner.Text())
	if err != nil {
		return nil, err
	}

	line := 1
	for scanner.Scan() {
		line++
		entry, err := DecodeFileEntry(scanner.Text())
		if err != nil {
			return nil, &InvalidFileError{Line: line, Err: err}
		}
		record.Files = append(record.Files, entry)
	}
	return record, nil
}

func decodeHeader(header string) (*TimeRecord, error) {
	parts := headerRe.FindStringSubmatch(header)
	if parts == nil {
		return nil, ErrInvalidHeader
	}
	version, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return nil, ErrInvalidVersion
	}
	total, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return nil, ErrInvalidTotal
	}
	return NewTimeRecord(uint32(version), uint32(total)), nil
}

// DecodeFileEntry parses one "path:total,epoch:secs,...,status" line.
func DecodeFileEntry(line string) (FileTimeEntry, error) {
	if line == "" {
		return FileTimeEntry{}, ErrNotEnoughEntries
	}

	fields := strings.Split(line, ",")
	path, totalText, ok := strings.Cut(fields[0], ":")
	if !ok {
		return FileTimeEntry{}, ErrUnrecognizedFilepath
	}
	if len(fields) < 2 {
		return FileTimeEntry{}, ErrNotEnoughEntries
	}

	statusText := fields[len(fields)-1]
	status, ok := ParseFileStatus(statusText)
	if !ok {
		return FileTimeEntry{}, &StatusNotRecognizedError{Got: statusText}
	}

	middle := fields[1 : len(fields)-1]
	if len(middle) == 0 {
		return FileTimeEntry{}, ErrNotEnoughEntries
	}
	timeline := make(map[int64]uint32, len(middle))
	for _, field := range middle {
		epochText, secondsText, ok := strings.Cut(field, ":")
		if !ok {
			return FileTimeEntry{}, ErrInvalidTimelineFormat
		}
		epoch, err := strconv.ParseInt(epochText, 10, 64)
		if err != nil {
			return FileTimeEntry{}, ErrInvalidTimelineFormat
		}
		seconds, err := strconv.ParseUint(secondsText, 10, 32)
		if err != nil {
			return FileTimeEntry{}, &InvalidTimespentError{Err: err}
		}
		timeline[epoch] = uint32(seconds)
	}

	total, err := strconv.ParseUint(totalText, 10, 32)
	if err != nil {
		return FileTimeEntry{}, &InvalidTotalTimespentError{Err: err}
	}

	return FileTimeEntry{
		SourceFile: path,
		TimeSpent:  uint32(total),
		Timeline:   timeline,
		Status:     status,
	}, nil
}

// EncodeNote writes a record in the annotation format read by DecodeNote.
func EncodeNote(record *TimeRecord) string {
	var b strings.Builder
	b.WriteString("[ver:")
	b.WriteString(strconv.FormatUint(uint64(record.Version), 10))
	b.WriteString(",total:")
	b.WriteString(strconv.FormatUint(uint64(record.Total), 10))
	b.WriteByte(']')
	for i := range record.Files {
		b.WriteByte('\n')
		b.WriteString(EncodeFileEntry(record.Files[i]))
	}
	return b.String()
}

// EncodeFileEntry writes timeline buckets in ascending epoch order.
func EncodeFileEntry(entry FileTimeEntry) string {
	buf := make([]byte, 0, len(entry.SourceFile)+16*(len(entry.Timeline)+1))
	buf = append(buf, entry.SourceFile...)
	buf = append(buf, ':')
	buf = strconv.AppendUint(buf, uint64(entry.TimeSpent), 10)
	for _, epoch := range entry.Epochs() {
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, epoch, 10)
		buf = append(buf, ':')
		buf = strconv.AppendUint(buf, uint64(entry.Timeline[epoch]), 10)
	}
	buf = append(buf, ',')
	buf = append(buf, entry.Status...)
	return string(buf)
}
