package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyLogFile indicates a missing rebind destination
	ErrEmptyLogFile = errors.New("empty log file")

	// ErrInvalidLogLevel indicates an unsupported log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unsupported log format
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrEmptyNullDevice indicates a missing null device path
	ErrEmptyNullDevice = errors.New("empty null device")

	// ErrInvalidFailureCode indicates an exit status outside 1-255
	ErrInvalidFailureCode = errors.New("invalid failure code")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateLog(&cfg.Log); err != nil {
		errs = append(errs, err)
	}

	if err := validateDaemon(&cfg.Daemon); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateLog(cfg *LogConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.File) == "" {
		errs = append(errs, fmt.Errorf("%w: log.file is required", ErrEmptyLogFile))
	}

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (valid: debug, info, warn, error)", ErrInvalidLogLevel, cfg.Level))
	}

	switch strings.ToLower(cfg.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (valid: console, json)", ErrInvalidLogFormat, cfg.Format))
	}

	return joinErrors(errs)
}

func validateDaemon(cfg *DaemonConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.NullDevice) == "" {
		errs = append(errs, fmt.Errorf("%w: daemon.null_device is required", ErrEmptyNullDevice))
	}

	// 0 would make a failed stage look like success to anything watching.
	if cfg.FailureCode < 1 || cfg.FailureCode > 255 {
		errs = append(errs, fmt.Errorf("%w: daemon.failure_code must be between 1 and 255, got %d", ErrInvalidFailureCode, cfg.FailureCode))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The sentinels stay reachable through errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: "validation failed:\n  - " + strings.Join(msgs, "\n  - "), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
