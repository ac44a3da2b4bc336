package utils

import "strings"

// AddToLogMessage appends one entry to a per-request log aggregate, flushed
// as a single line block when the handler returns.
func AddToLogMessage(logMessage *strings.Builder, entry string) {
	logMessage.WriteString(entry)
	logMessage.WriteString(";\n")
}
