package domain

import "fmt"

// DataError reports a malformed or missing required field in an input record.
// It is surfaced to the caller and never retried.
type DataError struct {
	Field  string
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("invalid data for %s: %s", e.Field, e.Reason)
}

// NewDataError builds a DataError for a single field.
func NewDataError(field, reason string) *DataError {
	return &DataError{Field: field, Reason: reason}
}

// ConfigurationError reports a broken or missing model artifact at load time.
// It is fatal: startup aborts rather than serving silent wrong answers.
type ConfigurationError struct {
	Artifact string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Artifact, e.Reason)
}

// NewConfigurationError builds a ConfigurationError for a named artifact.
func NewConfigurationError(artifact, reason string) *ConfigurationError {
	return &ConfigurationError{Artifact: artifact, Reason: reason}
}
