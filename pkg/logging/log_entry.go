package logging

// LogEntry represents a structured log record with fields relevant to
// long-running search and oracle operations.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Search-specific fields
	RunID      string // Identifier of the active search run
	Generation int    // Generation number when logged from a stepping loop

	// General structured data
	Fields map[string]interface{}
}
