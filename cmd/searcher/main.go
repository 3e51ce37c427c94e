package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/searcher/internal/config"
	"github.com/standardbeagle/searcher/internal/debug"
	"github.com/standardbeagle/searcher/internal/output"
	"github.com/standardbeagle/searcher/internal/search"
	"github.com/standardbeagle/searcher/internal/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const usageLine = "Usage: searcher [flags] <file-filter> <regex> [search-dir]"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	if err := app.Run(hoistFlags(args, app.Flags)); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := err.Error(); msg != "" {
				fmt.Fprintln(stderr, msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintf(stderr, "searcher: %v\n", err)
		return exitError
	}
	return exitOK
}

// hoistFlags moves known flags that follow the positional arguments to the
// front, since the flag parser stops at the first positional. Nothing after
// "--" is moved; a "--" is kept ahead of the positionals so it still ends
// flag parsing.
func hoistFlags(args []string, flags []cli.Flag) []string {
	if len(args) < 2 {
		return args
	}

	known := make(map[string]bool)
	takesValue := make(map[string]bool)
	for _, f := range append([]cli.Flag{cli.HelpFlag, cli.VersionFlag}, flags...) {
		_, isBool := f.(*cli.BoolFlag)
		for _, name := range f.Names() {
			known[name] = true
			takesValue[name] = !isBool
		}
	}

	var front, unknown, positional []string
	dashDash := false
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			dashDash = true
			positional = append(positional, args[i+1:]...)
			break
		}
		name, inline := flagName(arg)
		switch {
		case known[name]:
			front = append(front, arg)
			if takesValue[name] && !inline && i+1 < len(args) {
				i++
				front = append(front, args[i])
			}
		case name != "" && len(positional) == 0:
			// left in place for the parser to reject
			unknown = append(unknown, arg)
		default:
			positional = append(positional, arg)
		}
	}

	hoisted := make([]string, 0, len(args)+1)
	hoisted = append(hoisted, args[0])
	hoisted = append(hoisted, front...)
	hoisted = append(hoisted, unknown...)
	if dashDash {
		hoisted = append(hoisted, "--")
	}
	return append(hoisted, positional...)
}

// flagName returns the name of a "-name", "--name" or "--name=value" token
// and whether it carries its value inline.
func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name := strings.TrimPrefix(arg[1:], "-")
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		return name[:eq], true
	}
	return name, false
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:            "searcher",
		Usage:           "Recursively search file contents in parallel",
		UsageText:       "searcher [flags] <file-filter> <regex> [search-dir]",
		ArgsUsage:       "<file-filter> <regex> [search-dir]",
		Version:         version.Info(),
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Description: `Walks search-dir (default ".") and prints every line matching <regex> in
files whose name matches <file-filter>, as path:line:text. Both patterns are
case-insensitive regular expressions. Flags may also follow the arguments;
after "--" everything is an argument.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "uncolored",
				Usage: "Disable colored output (same as --color=never)",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "When to highlight matches: always, auto or never",
				Value: config.ColorAlways,
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only search files matching glob patterns (e.g., --include '**/*.go')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip paths matching glob patterns (e.g., --exclude '**/vendor/**')",
			},
			&cli.BoolFlag{
				Name:  "gitignore",
				Usage: "Skip paths ignored by the .gitignore in search-dir",
			},
			&cli.BoolFlag{
				Name:  "skip-build-artifacts",
				Usage: "Skip build output directories declared in project manifests",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <search-dir>/" + config.FileName + ")",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "Print a summary of the run to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug logging to a temporary file",
			},
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return cli.Exit(fmt.Sprintf("searcher: %v\n%s", err, usageLine), exitUsage)
		},
		// Exit codes are returned from run, never by exiting inside the app
		ExitErrHandler: func(c *cli.Context, err error) {},
		Action: func(c *cli.Context) error {
			return searchCommand(c, stdout, stderr)
		},
	}
}

func searchCommand(c *cli.Context, stdout, stderr io.Writer) error {
	if c.NArg() < 2 || c.NArg() > 3 {
		return cli.Exit(usageLine+"\nRun 'searcher --help' for details.", exitUsage)
	}
	filePattern := c.Args().Get(0)
	contentPattern := c.Args().Get(1)
	root := "."
	if c.NArg() == 3 {
		root = c.Args().Get(2)
	}

	if c.Bool("debug-log") {
		debug.Enable()
		logPath, err := debug.InitDebugLogFile()
		if err != nil {
			return cli.Exit(fmt.Sprintf("searcher: %v", err), exitError)
		}
		defer debug.CloseDebugLog()
		fmt.Fprintf(stderr, "debug log: %s\n", logPath)
	}
	debug.Printf("%s\n", version.FullInfo())

	cfg, err := loadConfigWithOverrides(c, root)
	if err != nil {
		return cli.Exit(fmt.Sprintf("searcher: %v", err), exitUsage)
	}

	mode, err := output.ParseColorMode(cfg.Search.Color)
	if err != nil {
		return cli.Exit(fmt.Sprintf("searcher: %v", err), exitUsage)
	}

	req := search.Request{
		FilePattern:    filePattern,
		ContentPattern: contentPattern,
		Colored:        output.ResolveColor(mode, stdout),
		Include:        cfg.Include,
		Exclude:        cfg.Exclude,
	}
	if cfg.Walk.RespectGitignore {
		gitignore := config.NewGitignoreParser()
		if err := gitignore.LoadGitignore(root); err != nil {
			debug.LogConfig("ignoring unreadable .gitignore in %s: %v\n", root, err)
		} else if gitignore.Len() > 0 {
			req.Ignorer = gitignore
		}
	}

	searcher, err := search.New(req, stdout, stderr)
	if err != nil {
		return cli.Exit(fmt.Sprintf("searcher: %v", err), exitUsage)
	}

	summary, err := searcher.Search(context.Background(), root)
	if err != nil {
		return cli.Exit(fmt.Sprintf("searcher: %v", err), exitError)
	}
	if cfg.Search.Stats {
		fmt.Fprintln(stderr, summary)
	}
	return nil
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context, root string) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"), root)
	if err != nil {
		return nil, err
	}

	switch {
	case c.Bool("uncolored"):
		cfg.Search.Color = config.ColorNever
	case c.IsSet("color"):
		cfg.Search.Color = c.String("color")
	}
	if c.IsSet("stats") {
		cfg.Search.Stats = c.Bool("stats")
	}
	if c.IsSet("gitignore") {
		cfg.Walk.RespectGitignore = c.Bool("gitignore")
	}
	if c.IsSet("skip-build-artifacts") {
		cfg.Walk.SkipBuildArtifacts = c.Bool("skip-build-artifacts")
	}
	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Walk.SkipBuildArtifacts {
		cfg.EnrichExclusionsWithBuildArtifacts()
	}
	return cfg, nil
}
