package cli

import (
	"context"
	"sort"

	flag "github.com/spf13/pflag"
)

// printConfigCmd returns the print-config command.
func (a *app) printConfigCmd() *Command {
	cmd := &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
	}
	cmd.Exec = func(_ context.Context, o *IO, _ []string) error {
		o.Println("effective_cwd=" + a.cfg.EffectiveCwd)
		o.Println("database=" + a.cfg.DatabaseAbs)

		for _, name := range sortedKeys(a.cfg.Aliases) {
			o.Println("alias." + name + "=" + a.cfg.Aliases[name])
		}

		for _, name := range sortedKeys(a.cfg.Formats) {
			o.Println("format." + name)
		}

		o.Println("")
		o.Println("# sources")

		if a.cfg.Sources.Global == "" && a.cfg.Sources.Project == "" {
			o.Println("(defaults only)")

			return nil
		}

		if a.cfg.Sources.Global != "" {
			o.Println("global_config=" + a.cfg.Sources.Global)
		}

		if a.cfg.Sources.Project != "" {
			o.Println("project_config=" + a.cfg.Sources.Project)
		}

		return nil
	}

	return cmd
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
