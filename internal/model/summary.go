package model

import "time"

// CleanSummary captures metrics from a single offline cleaning run.
type CleanSummary struct {
	SourcePath       string
	SourceSHA256     string
	OutputCSV        string
	OutputParquet    string
	Columns          []string
	RowsRead         int64
	RowsDroppedEmpty int64
	RowsWritten      int64
	DatesNulled      int64
	YesNoDefaulted   int64
	DurationRead     time.Duration
	DurationWrite    time.Duration
	DurationTotal    time.Duration
}

// ExportSummary captures metrics from loading a cleaned file into Postgres.
type ExportSummary struct {
	FilePath         string
	FileSHA256       string
	SourceFileID     int64
	BatchID          string
	AlreadyLoaded    bool
	RowsStaged       int64
	SnapshotsWritten int
	DurationStage    time.Duration
	DurationTotal    time.Duration
}
