package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"taskpaper/internal/ops"
	"taskpaper/pkg/outline"
)

// mergeTimelinesCmd returns the merge-timelines command.
func (a *app) mergeTimelinesCmd() *Command {
	flags := flag.NewFlagSet("merge-timelines", flag.ContinueOnError)
	from := flags.String("from", "", "File to read")
	into := flags.String("into", "", "File to merge into")
	style := flags.StringP("style", "s", "logbook", "Format style for the merged file")

	cmd := &Command{
		Flags: flags,
		Usage: "merge-timelines --from <file> --into <file>",
		Short: "Merge the day projects of one logbook-style file into another",
		Long: "Append the items of every day project in --from to the matching\n" +
			"day project in --into (creating missing days) and rewrite --into\n" +
			"with the newest day first.",
	}
	cmd.Exec = func(_ context.Context, _ *IO, _ []string) error {
		if *from == "" || *into == "" {
			return ErrFileRequired
		}

		options, err := a.styleOptions(*style, flags.Changed("style"))
		if err != nil {
			return err
		}

		fromDoc, err := outline.ParseFile(a.resolvePath(*from))
		if err != nil {
			return err
		}

		intoPath := a.resolvePath(*into)

		intoDoc, err := outline.ParseFile(intoPath)
		if err != nil {
			return err
		}

		ops.MergeDays(fromDoc, intoDoc)

		return intoDoc.Write(intoPath, options)
	}

	return cmd
}
