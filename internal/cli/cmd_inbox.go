package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"taskpaper/internal/db"
	"taskpaper/pkg/outline"
)

type inboxOptions struct {
	prompt   bool
	style    string
	styleSet bool
	file     string
	project  string
	prepend  bool
	tags     []string
}

// inboxCmd returns the inbox command.
func (a *app) inboxCmd() *Command {
	flags := flag.NewFlagSet("inbox", flag.ContinueOnError)
	prompt := flags.BoolP("prompt", "p", false, "Prompt for input instead of reading stdin")
	style := flags.StringP("style", "s", "inbox", "Format style for the written file")
	file := flags.StringP("file", "f", "", "Add to this file instead of the inbox")
	project := flags.String("project", "", "Add under this project instead of the top level")
	prepend := flags.Bool("prepend", false, "Prepend the new item instead of appending it")
	tags := flags.StringArray("tag", nil, "Tags to add to the item (including the @)")

	cmd := &Command{
		Flags: flags,
		Usage: "inbox [flags] [text...]",
		Short: "Capture tasks into the inbox",
		Long: "Add one task per input line to the inbox (or another file).\n" +
			"Text is taken from the arguments, from stdin, or interactively\n" +
			"with --prompt. Attributes written inline are recognized.",
	}
	cmd.Exec = func(_ context.Context, o *IO, args []string) error {
		return a.execInbox(o, inboxOptions{
			prompt:   *prompt,
			style:    *style,
			styleSet: flags.Changed("style"),
			file:     *file,
			project:  *project,
			prepend:  *prepend,
			tags:     *tags,
		}, args)
	}

	return cmd
}

func (a *app) execInbox(o *IO, opts inboxOptions, args []string) error {
	style, err := a.styleOptions(opts.style, opts.styleSet)
	if err != nil {
		return err
	}

	document, path, err := a.inboxTarget(opts.file)
	if err != nil {
		return err
	}

	lines, err := a.inboxLines(opts, args)
	if err != nil {
		return err
	}

	position, err := insertPosition(document, opts.project, opts.prepend)
	if err != nil {
		return err
	}

	count := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		for _, tag := range opts.tags {
			line += " " + tag
		}

		text, attrs := outline.ExtractAttributes(line)
		document.Insert(outline.NewItemWithAttributes(outline.Task, text, attrs), position)
		count++
	}

	if err := document.Write(path, style); err != nil {
		return err
	}

	o.Println("added", count, "item(s) to", path)

	return nil
}

// inboxTarget resolves the document new items go into. A missing explicit
// file starts out empty instead of failing.
func (a *app) inboxTarget(file string) (*outline.Document, string, error) {
	if file == "" {
		database, err := db.New(a.cfg.DatabaseAbs, nil)
		if err != nil {
			return nil, "", err
		}

		path := database.Path(db.Inbox)

		document, err := outline.ParseFile(path)
		if err != nil {
			return nil, "", err
		}

		return document, path, nil
	}

	path := a.resolvePath(file)

	if _, err := os.Stat(path); err != nil {
		return outline.NewDocument(), path, nil
	}

	document, err := outline.ParseFile(path)
	if err != nil {
		return nil, "", err
	}

	return document, path, nil
}

func (a *app) inboxLines(opts inboxOptions, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}

	if opts.prompt {
		return promptLines()
	}

	var lines []string

	scanner := bufio.NewScanner(a.in)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	return lines, scanner.Err()
}

// promptLines reads tasks interactively until an empty line or EOF.
func promptLines() ([]string, error) {
	prompt := liner.NewLiner()
	defer prompt.Close()

	prompt.SetCtrlCAborts(true)

	var lines []string

	for {
		line, err := prompt.Prompt("Task> ")
		if err != nil || strings.TrimSpace(line) == "" {
			return lines, nil
		}

		lines = append(lines, line)
		prompt.AppendHistory(line)
	}
}

func insertPosition(document *outline.Document, project string, prepend bool) (outline.Position, error) {
	if project == "" {
		if prepend {
			return outline.AsFirst(), nil
		}

		return outline.AsLast(), nil
	}

	for _, id := range document.Nodes() {
		item := document.Item(id)
		if item.IsProject() && item.Text == project {
			if prepend {
				return outline.AsFirstChildOf(id), nil
			}

			return outline.AsLastChildOf(id), nil
		}
	}

	return outline.Position{}, fmt.Errorf("%w: %s", ErrProjectNotFound, project)
}

// styleOptions resolves a named format style. Explicitly requested styles
// must exist in the configuration; the implicit default falls back to the
// built-in format.
func (a *app) styleOptions(name string, explicit bool) (outline.FormatOptions, error) {
	if options, ok := a.cfg.Formats[name]; ok {
		return options, nil
	}

	if explicit {
		return outline.FormatOptions{}, fmt.Errorf("%w: %s", ErrStyleNotFound, name)
	}

	return outline.DefaultFormatOptions(), nil
}
