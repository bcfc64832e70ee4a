package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskpaper/internal/db"
)

const (
	consumedOne  = 1
	consumedTwo  = 2
	consumedNone = 0
	helpFlag     = "--help"
)

// app carries the state shared by every command.
type app struct {
	in  io.Reader
	cfg db.Config
	env map[string]string
}

// resolvePath makes a user-supplied path absolute: a leading "~" expands to
// $HOME and relative paths resolve against the effective working directory.
func (a *app) resolvePath(path string) string {
	path = db.ExpandTilde(path, a.env)

	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(a.cfg.EffectiveCwd, path)
}

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	o := NewIO(out, errOut)

	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	// Parse global flags
	flags, err := parseGlobalFlags(rest)
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	// Load and validate config
	cfg, err := db.LoadConfig(db.LoadConfigInput{
		WorkDirOverride:  flags.workDir,
		ConfigPath:       flags.configPath,
		DatabaseOverride: flags.database,
		Env:              env,
	})
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	a := &app{in: in, cfg: cfg, env: env}

	commands := []*Command{
		a.inboxCmd(),
		a.formatCmd(),
		a.searchCmd(),
		a.filterCmd(),
		a.purgeCmd(),
		a.housekeepingCmd(),
		a.mergeTimelinesCmd(),
		a.syncIndexCmd(),
		a.watchCmd(),
		a.printConfigCmd(),
	}

	if len(flags.remaining) == 0 {
		printUsage(o, commands)

		return 0
	}

	name := flags.remaining[0]
	if name == "-h" || name == helpFlag {
		printUsage(o, commands)

		return 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	for _, cmd := range commands {
		if cmd.Name() != name {
			continue
		}

		if code := cmd.Run(ctx, o, flags.remaining[1:]); code != 0 {
			return code
		}

		return o.Finish()
	}

	o.ErrPrintln("error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
	printUsage(o, commands)

	return 1
}

func printUsage(o *IO, commands []*Command) {
	o.Println("Usage: tp [global flags] <command> [args]")
	o.Println()
	o.Println("Commands:")

	for _, cmd := range commands {
		o.Println(cmd.HelpLine())
	}

	o.Println()
	o.Println("Global flags:")
	o.Println("  -C, --cwd <dir>       Run as if started in <dir>")
	o.Println("  -c, --config <file>   Use an explicit config file")
	o.Println("      --database <dir>  Override the database directory")
}

type globalFlags struct {
	workDir    string
	configPath string
	database   string
	remaining  []string
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	// -C/--cwd flag (work directory)
	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "-C"); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return consumedOne, nil
	}

	// -c/--config flag
	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return consumedOne, nil
	}

	// --database flag
	if arg == "--database" {
		if idx+1 >= len(args) {
			return consumedNone, fmt.Errorf("%w: %s", ErrFlagRequiresArg, arg)
		}

		flags.database = args[idx+1]

		return consumedTwo, nil
	}

	if after, ok := strings.CutPrefix(arg, "--database="); ok {
		flags.database = after

		return consumedOne, nil
	}

	// -h/--help flags
	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	// Unknown flag
	if strings.HasPrefix(arg, "-") && arg != "-" {
		return consumedNone, fmt.Errorf("%w: %s", ErrUnknownFlag, arg)
	}

	// Not a flag
	return consumedNone, nil
}
