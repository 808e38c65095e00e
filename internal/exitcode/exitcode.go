package exitcode

// Process exit statuses, one per failure class.
const (
	Success        = 0
	UsageError     = 1
	SourceNotFound = 2
	LoadError      = 3
	CleanError     = 4
	DBConnError    = 5
	ExportError    = 6
	ServeError     = 7
)
