// Package auditlog appends one JSON-Lines record per scan to a file under
// the scanned repository, giving operators a durable history of scan
// outcomes without requiring a database.
package auditlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/secretscout/secretscout/internal/types"
)

// Record summarizes one completed scan for the audit trail.
type Record struct {
	Timestamp      time.Time      `json:"timestamp"`
	ScanID         string         `json:"scan_id"`
	Target         string         `json:"target"`
	TotalFindings  int            `json:"total_findings"`
	SeverityCounts map[string]int `json:"severity_counts"`
	FilesScanned   int            `json:"files_scanned"`
	DurationMS     int            `json:"duration_ms"`
	Errors         int            `json:"errors"`
}

// Log appends scan records to a JSONL file, preferring the scanned
// repository's .git directory when present so the log travels with the
// clone rather than cluttering the working tree.
type Log struct {
	path string
}

// New returns a Log writing under root: root/.git/secretscout_audit.jsonl
// when root is a Git working tree, otherwise root/.secretscout_audit.jsonl.
func New(root string) *Log {
	gitDir := filepath.Join(root, ".git")
	path := filepath.Join(root, ".secretscout_audit.jsonl")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		path = filepath.Join(gitDir, "secretscout_audit.jsonl")
	}
	return &Log{path: path}
}

// Append writes one record as a new line in the audit log.
func (l *Log) Append(record Record) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", record.Timestamp.Unix())
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// LoadHistory reads every record from the audit log, newest first.
func (l *Log) LoadHistory() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for dec.More() {
		var r Record
		if err := dec.Decode(&r); err != nil {
			continue
		}
		records = append(records, r)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// RecordFromResult builds an audit Record from a sealed ScanResult.
func RecordFromResult(result types.ScanResult) Record {
	severity := make(map[string]int)
	for _, f := range result.Findings {
		severity[string(f.Severity)]++
	}
	target := ""
	if len(result.Targets) > 0 {
		target = result.Targets[0].Name
	}
	return Record{
		Timestamp:      time.Now(),
		Target:         target,
		TotalFindings:  result.Stats.Findings,
		SeverityCounts: severity,
		FilesScanned:   result.Stats.FilesScanned,
		DurationMS:     result.Stats.DurationMS,
		Errors:         len(result.Errors),
	}
}
