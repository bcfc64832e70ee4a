package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"

	"taskpaper/pkg/outline"
)

// filterCmd returns the filter command.
func (a *app) filterCmd() *Command {
	flags := flag.NewFlagSet("filter", flag.ContinueOnError)
	input := flags.StringP("input", "i", "", "File to modify")

	cmd := &Command{
		Flags: flags,
		Usage: "filter <query> -i <file>",
		Short: "Delete items matching a query from a file",
		Long: "Remove every matching item (and its whole subtree) from the\n" +
			"given file and write the file back in place.",
	}
	cmd.Exec = func(_ context.Context, _ *IO, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return ErrQueryRequired
		}

		if *input == "" {
			return ErrFileRequired
		}

		path := a.resolvePath(*input)

		document, err := outline.ParseFile(path)
		if err != nil {
			return err
		}

		if _, err := document.Filter(query); err != nil {
			return err
		}

		return document.Write(path, outline.DefaultFormatOptions())
	}

	return cmd
}
