package domain

import "fmt"

// ConfigError indicates that configuration or parameter resolution
// failed before any launch request could be issued. The process must
// not attempt creation once one of these has surfaced.
type ConfigError struct {
	Step string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Step, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err with the resolution step that produced it.
func NewConfigError(step string, err error) *ConfigError {
	return &ConfigError{Step: step, Err: err}
}

// ProviderError is the normalized form of any error the provider API
// returns: code, message, and HTTP status. All classification
// decisions operate on this record, never on transport-specific error
// types, so the classifier stays independent of the transport.
type ProviderError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error (status %d): %s - %s", e.HTTPStatus, e.Code, e.Message)
}
