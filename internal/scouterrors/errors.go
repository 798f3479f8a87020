// Package scouterrors defines the error taxonomy shared across the scan
// pipeline, each variant carrying a user-safe message, an optional detail,
// and an exit code for the outer CLI.
package scouterrors

import "fmt"

// ExitCode is the process exit status produced by the outer CLI for a
// given error.
type ExitCode int

const (
	ExitClean    ExitCode = 0
	ExitFindings ExitCode = 1
	ExitError    ExitCode = 2
)

// ScoutError is the base type for all taxonomy errors: a user-safe message,
// an optional detail (debug-only, may contain raw exception text), and an
// exit code.
type ScoutError struct {
	Kind    string
	Msg     string
	Detail  string
	Code    ExitCode
}

func (e *ScoutError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Msg, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// ExitCode returns the process exit code this error maps to.
func (e *ScoutError) ExitCode() ExitCode { return e.Code }

// ConfigError reports a config file that failed to parse or validate.
func ConfigError(msg, detail string) *ScoutError {
	return &ScoutError{Kind: "ConfigError", Msg: msg, Detail: detail, Code: ExitError}
}

// RulesError reports a rule pack that failed schema or cross-field
// validation.
func RulesError(msg, detail string) *ScoutError {
	return &ScoutError{Kind: "RulesError", Msg: msg, Detail: detail, Code: ExitError}
}

// DependencyError reports a missing external tool, such as git.
func DependencyError(msg, detail string) *ScoutError {
	return &ScoutError{Kind: "DependencyError", Msg: msg, Detail: detail, Code: ExitError}
}

// ScanExecutionError reports a fatal engine error that aborted a scan
// before it could produce a ScanResult.
func ScanExecutionError(msg, detail string) *ScoutError {
	return &ScoutError{Kind: "ScanExecutionError", Msg: msg, Detail: detail, Code: ExitError}
}

// ProviderError is a transport-level error at the hosted-provider boundary,
// carrying the HTTP status and response body.
type ProviderError struct {
	Status int
	Detail string
	Msg    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("ProviderError: %s (status=%d): %s", e.Msg, e.Status, e.Detail)
}

// ExitCode reports ExitError for every provider error; providers fail
// before a scan starts and so never carry findings.
func (e *ProviderError) ExitCode() ExitCode { return ExitError }

// ForExitCode derives the process exit code for err: ExitFindings when
// findings is true and err is nil, ExitClean when both are false/nil,
// otherwise the error's own exit code (or ExitError for unrecognized
// errors).
func ForExitCode(err error, hasFindings bool) ExitCode {
	if err == nil {
		if hasFindings {
			return ExitFindings
		}
		return ExitClean
	}
	type coded interface{ ExitCode() ExitCode }
	if c, ok := err.(coded); ok {
		return c.ExitCode()
	}
	return ExitError
}
