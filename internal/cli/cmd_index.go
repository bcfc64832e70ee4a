package cli

import (
	"context"
	"log/slog"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"taskpaper/internal/db"
	"taskpaper/internal/index"
)

// indexFileName is where the SQLite index lives inside the database.
const indexFileName = ".tp-index.db"

// syncIndexCmd returns the sync-index command.
func (a *app) syncIndexCmd() *Command {
	cmd := &Command{
		Flags: flag.NewFlagSet("sync-index", flag.ContinueOnError),
		Usage: "sync-index",
		Short: "Bring the SQLite item index up to date",
	}
	cmd.Exec = func(_ context.Context, o *IO, _ []string) error {
		database, idx, logger, err := a.openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		if err := index.Sync(idx, database, logger); err != nil {
			return err
		}

		o.Println("index synced")

		return nil
	}

	return cmd
}

// watchCmd returns the watch command.
func (a *app) watchCmd() *Command {
	cmd := &Command{
		Flags: flag.NewFlagSet("watch", flag.ContinueOnError),
		Usage: "watch",
		Short: "Watch the database and keep the index in sync",
		Long: "Run until interrupted, reindexing outline files as they change\n" +
			"on disk.",
	}
	cmd.Exec = func(ctx context.Context, o *IO, _ []string) error {
		database, idx, logger, err := a.openIndex()
		if err != nil {
			return err
		}
		defer idx.Close()

		if err := index.Sync(idx, database, logger); err != nil {
			return err
		}

		return index.Watch(ctx, idx, database, logger, func() {
			o.Println("index updated")
		})
	}

	return cmd
}

func (a *app) openIndex() (*db.Database, *index.DB, *slog.Logger, error) {
	database, err := db.New(a.cfg.DatabaseAbs, nil)
	if err != nil {
		return nil, nil, nil, err
	}

	idx, err := index.Open(filepath.Join(database.Root(), indexFileName))
	if err != nil {
		return nil, nil, nil, err
	}

	logger := slog.Default()

	return database, idx, logger, nil
}
