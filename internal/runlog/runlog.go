// Package runlog persists one record per pipeline run as a JSON file in
// the output directory and answers the daily-count query the rate gate
// needs.
package runlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the run timestamp format used in records and file names.
const TimestampLayout = "20060102_150405"

// OutcomeStatus classifies a single publish attempt.
type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "success"
	StatusFailed  OutcomeStatus = "failed"
	StatusError   OutcomeStatus = "error"
)

// Outcome records one publish attempt within a run.
type Outcome struct {
	Status        OutcomeStatus `json:"status"`
	RemoteID      string        `json:"remote_id,omitempty"`
	URL           string        `json:"url,omitempty"`
	OriginalTitle string        `json:"original_title,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// StageSummary summarizes a fetch or generation stage.
type StageSummary struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// PublishingStage summarizes the publishing stage of a run.
type PublishingStage struct {
	Success bool      `json:"success"`
	DryRun  bool      `json:"dry_run"`
	Posted  int       `json:"posted"`
	Total   int       `json:"total"`
	Results []Outcome `json:"results"`
	Error   string    `json:"error,omitempty"`
}

// Stages groups the per-stage summaries of a run.
type Stages struct {
	Scraping     *StageSummary    `json:"scraping,omitempty"`
	AIProcessing *StageSummary    `json:"ai_processing,omitempty"`
	Publishing   *PublishingStage `json:"publishing,omitempty"`
}

// Record is one persisted pipeline run. Records are append-only and
// immutable once written.
type Record struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"` // TimestampLayout
	DryRun    bool   `json:"dryRun"`
	Platform  string `json:"platform"`
	Stages    Stages `json:"stages"`
	Error     string `json:"error,omitempty"`
}

const filePrefix = "pipeline_results_"

// Log is a file-backed run record store rooted at a directory.
type Log struct {
	dir string
}

// New creates the output directory if needed and returns a Log over it.
func New(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Log{dir: dir}, nil
}

// Dir returns the directory the log writes to.
func (l *Log) Dir() string {
	return l.dir
}

// Append writes a record to a new timestamped file and returns its path.
func (l *Log) Append(rec Record) (string, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}

	path := filepath.Join(l.dir, filePrefix+rec.Timestamp+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}

	slog.Info("saved run record", "path", path)
	return path, nil
}

// CountPublishedToday sums the successful publish outcomes of all
// non-dry-run records dated today. Unreadable or malformed records are
// skipped with a warning; one bad record never fails the count.
func (l *Log) CountPublishedToday(today time.Time) (int, error) {
	records, err := l.readAll()
	if err != nil {
		return 0, err
	}

	day := today.Format("20060102")
	count := 0

	for _, rec := range records {
		if rec.DryRun {
			continue
		}
		if len(rec.Timestamp) < len(day) || rec.Timestamp[:len(day)] != day {
			continue
		}
		if rec.Stages.Publishing == nil || rec.Stages.Publishing.DryRun {
			continue
		}
		for _, outcome := range rec.Stages.Publishing.Results {
			if outcome.Status == StatusSuccess {
				count++
			}
		}
	}

	return count, nil
}

// Recent returns up to n records, newest first.
func (l *Log) Recent(n int) ([]Record, error) {
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})

	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (l *Log) readAll() ([]Record, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	var records []Record
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			slog.Warn("skipping unreadable run record", "file", name, "error", err)
			continue
		}

		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			slog.Warn("skipping malformed run record", "file", name, "error", err)
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}
