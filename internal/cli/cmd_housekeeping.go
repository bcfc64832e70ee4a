package cli

import (
	"context"
	"time"

	flag "github.com/spf13/pflag"

	"taskpaper/internal/db"
	"taskpaper/internal/ops"
	"taskpaper/pkg/outline"
)

// housekeepingCmd returns the housekeeping command.
func (a *app) housekeepingCmd() *Command {
	cmd := &Command{
		Flags: flag.NewFlagSet("housekeeping", flag.ContinueOnError),
		Usage: "housekeeping",
		Short: "Tickle deferred items and archive completed ones",
		Long: "Run the maintenance passes over the well-known database files:\n" +
			"move @tickle items into the tickle file, bring due items back to\n" +
			"the inbox, archive @done items into the logbook, and rebuild the\n" +
			"timeline from @due items.",
	}
	cmd.Exec = func(_ context.Context, _ *IO, _ []string) error {
		return a.execHousekeeping(time.Now())
	}

	return cmd
}

func (a *app) execHousekeeping(now time.Time) error {
	database, err := db.New(a.cfg.DatabaseAbs, nil)
	if err != nil {
		return err
	}

	inbox, err := database.ParseCommonFile(db.Inbox)
	if err != nil {
		return err
	}

	todo, err := database.ParseCommonFile(db.Todo)
	if err != nil {
		return err
	}

	tickle, err := database.ParseCommonFile(db.Tickle)
	if err != nil {
		return err
	}

	logbook, err := database.ParseCommonFile(db.Logbook)
	if err != nil {
		return err
	}

	if err := ops.Tickle(inbox, todo, tickle, now); err != nil {
		return err
	}

	if err := ops.LogDone(todo, tickle, logbook, now); err != nil {
		return err
	}

	timeline, err := ops.ExtractTimeline(todo, database.Path(db.Timeline), now)
	if err != nil {
		return err
	}

	// The todo file must be written first: tools watching the database
	// react to its changes and must see the other files in their final
	// state afterwards.
	writes := []struct {
		document *outline.Document
		kind     db.CommonFile
		style    string
	}{
		{todo, db.Todo, "todo"},
		{inbox, db.Inbox, "inbox"},
		{tickle, db.Tickle, "tickle"},
		{logbook, db.Logbook, "logbook"},
		{timeline, db.Timeline, "timeline"},
	}

	for _, w := range writes {
		if err := database.WriteCommonFile(w.document, w.kind, a.cfg.Format(w.style)); err != nil {
			return err
		}
	}

	return nil
}
