package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrNoBaseDir is returned when storage.base_dir is empty.
	ErrNoBaseDir = errors.New("no base directory specified")

	// ErrInvalidMaxConnections is returned when the pool size is <= 0.
	ErrInvalidMaxConnections = errors.New("invalid max connections: must be > 0")

	// ErrInvalidBusyTimeout is returned when the busy timeout is <= 0.
	ErrInvalidBusyTimeout = errors.New("invalid busy timeout: must be > 0")

	// ErrInvalidVariant is returned when the schema variant is not recognized.
	ErrInvalidVariant = errors.New("invalid variant: must be GameBoard or MatchResults")

	// ErrInvalidProbeWorkers is returned when probe workers is <= 0.
	ErrInvalidProbeWorkers = errors.New("invalid probe workers: must be > 0")

	// ErrInvalidDisplayFormat is returned when the display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidDebounce is returned when the watch debounce interval is <= 0.
	ErrInvalidDebounce = errors.New("invalid debounce interval: must be > 0")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
