package cli

import "errors"

// Error variables for the command line surface.
var (
	ErrFlagRequiresArg = errors.New("flag requires an argument")
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrStyleNotFound   = errors.New("style not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrQueryRequired   = errors.New("query is required")
	ErrFileRequired    = errors.New("file is required")
	ErrTagRequired     = errors.New("at least one tag is required")
)
