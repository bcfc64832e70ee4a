package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"taskpaper/internal/ops"
	"taskpaper/pkg/outline"
)

// purgeCmd returns the purge command.
func (a *app) purgeCmd() *Command {
	cmd := &Command{
		Flags: flag.NewFlagSet("purge", flag.ContinueOnError),
		Usage: "purge <file> <tag>...",
		Short: "Remove attributes from every item in a file",
	}
	cmd.Exec = func(_ context.Context, _ *IO, args []string) error {
		if len(args) == 0 {
			return ErrFileRequired
		}

		if len(args) < 2 {
			return ErrTagRequired
		}

		path := a.resolvePath(args[0])

		document, err := outline.ParseFile(path)
		if err != nil {
			return err
		}

		ops.PurgeAttributes(document, args[1:])

		return document.Write(path, outline.DefaultFormatOptions())
	}

	return cmd
}
