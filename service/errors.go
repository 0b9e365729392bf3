package service

import "fmt"

// maxDiagnosticLen bounds the natural-language answer carried as
// diagnostic context on a failed SQL generation.
const maxDiagnosticLen = 200

// SQLGenerationError means the NL-to-SQL service returned no usable SQL.
// Fatal for the request. Answer carries whatever natural-language text
// accompanied the failure, truncated, so the caller can present something
// actionable.
type SQLGenerationError struct {
	Question string
	Answer   string
	Err      error
}

func (e *SQLGenerationError) Error() string {
	if e.Answer != "" {
		return fmt.Sprintf("failed to generate SQL: %v (service said: %s)", e.Err, e.Answer)
	}
	return fmt.Sprintf("failed to generate SQL: %v", e.Err)
}

func (e *SQLGenerationError) Unwrap() error { return e.Err }

// QueryExecutionError means the warehouse rejected or failed the generated
// SQL. Fatal for the request; the SQL comes from the trusted NL-to-SQL
// service, so the executor error is surfaced verbatim.
type QueryExecutionError struct {
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func truncateDiagnostic(s string) string {
	if len(s) > maxDiagnosticLen {
		return s[:maxDiagnosticLen]
	}
	return s
}
