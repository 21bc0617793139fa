package config

import "time"

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, sqlitePath string) *Repository {
	return &Repository{
		backend:    backend,
		sqlitePath: sqlitePath,
	}
}

// NewEngineForTest creates an Engine config for testing purposes
func NewEngineForTest(path, timezone string, sweepInterval time.Duration, maxResults int) *Engine {
	return &Engine{
		path:          path,
		timezone:      timezone,
		sweepInterval: sweepInterval,
		maxResults:    maxResults,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}
