package db

import "errors"

// Error variables for database and configuration operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDatabaseDirEmpty   = errors.New("database directory cannot be empty")
	ErrFileOutsideRoot    = errors.New("file is outside the database root")
)
