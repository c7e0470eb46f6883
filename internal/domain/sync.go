package domain

import "time"

// TerminationReason records why a sync run's page loop stopped.
type TerminationReason string

const (
	// TerminationEndOfData means the feed returned no further items.
	TerminationEndOfData TerminationReason = "end_of_data"
	// TerminationPageLimit means the configured page ceiling was reached.
	TerminationPageLimit TerminationReason = "page_limit"
)

// SyncStats holds statistics about one sync run.
type SyncStats struct {
	SourceID    string            `json:"source_id"`
	Pages       int               `json:"pages"`
	Fetched     int               `json:"fetched"`
	OutOfArea   int               `json:"out_of_area"`
	Inactive    int               `json:"inactive"`
	Duplicates  int               `json:"duplicates"`
	Inserted    int               `json:"inserted"`
	Errors      int               `json:"errors"`
	Published   int               `json:"published"`
	Termination TerminationReason `json:"termination"`
	Duration    time.Duration     `json:"duration"`
}
