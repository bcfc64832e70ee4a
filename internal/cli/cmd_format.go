package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"taskpaper/pkg/outline"
)

// formatCmd returns the format command.
func (a *app) formatCmd() *Command {
	flags := flag.NewFlagSet("format", flag.ContinueOnError)
	style := flags.StringP("style", "s", "", "Format style from the configuration")

	cmd := &Command{
		Flags: flags,
		Usage: "format <file> [flags]",
		Short: "Rewrite a file in canonical form",
	}
	cmd.Exec = func(_ context.Context, _ *IO, args []string) error {
		if len(args) != 1 {
			return ErrFileRequired
		}

		options, err := a.styleOptions(*style, flags.Changed("style"))
		if err != nil {
			return err
		}

		path := a.resolvePath(args[0])

		document, err := outline.ParseFile(path)
		if err != nil {
			return err
		}

		return document.Write(path, options)
	}

	return cmd
}
