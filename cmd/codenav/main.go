// Command codenav answers structural questions about source files: where a
// function lives, what a type's API looks like, who calls what. One file per
// query, parsed fresh every time.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/open-agent-tools/codenav/internal/config"
	"github.com/open-agent-tools/codenav/internal/debug"
	"github.com/open-agent-tools/codenav/internal/grammar"
	"github.com/open-agent-tools/codenav/internal/mcp"
	"github.com/open-agent-tools/codenav/internal/query"
	"github.com/open-agent-tools/codenav/internal/scan"
	"github.com/open-agent-tools/codenav/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "codenav: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "codenav",
		Usage:                  "Structural code navigation over tree-sitter for eleven languages",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: .codenav.kdl or codenav.toml in the working directory)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging on stderr",
			},
			&cli.IntFlag{
				Name:  "max-source-bytes",
				Usage: "Override the pre-parse source size limit",
			},
		},
		Before: func(c *cli.Context) error {
			debug.SetOutput(os.Stderr)
			if c.Bool("debug") {
				debug.EnableDebug = "true"
			}
			return nil
		},
		Commands: []*cli.Command{
			queryCommand(),
			overviewCommand(),
			watchCommand(),
			mcpCommand(),
			languagesCommand(),
			configCommand(),
			versionCommand(),
		},
	}
}

// loadConfig reads the configured file (or the working directory's) and
// applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if n := c.Int("max-source-bytes"); n > 0 {
		cfg.MaxSourceBytes = n
	}
	return cfg, nil
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Aliases:   []string{"q"},
		Usage:     "Run one operation against a single source file",
		ArgsUsage: "<operation>",
		Description: "Source comes from --file or stdin; the language is taken from --lang,\n" +
			"the file extension, or the configured default, in that order.\n\n" +
			"Operations: " + strings.Join(query.Operations(), ", "),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Source file (stdin when omitted)"},
			&cli.StringFlag{Name: "lang", Aliases: []string{"l"}, Usage: "Language tag or alias"},
			&cli.StringFlag{Name: "function", Aliases: []string{"F"}, Usage: "Function or method name"},
			&cli.StringFlag{Name: "type", Aliases: []string{"T"}, Usage: "Type name (or type scope for --function)"},
			&cli.StringFlag{Name: "method", Aliases: []string{"M"}, Usage: "Method name inside --type"},
			&cli.StringFlag{Name: "pattern", Aliases: []string{"p"}, Usage: "Docstring search pattern"},
			&cli.BoolFlag{Name: "stem", Usage: "Stem words before matching docstrings"},
			&cli.BoolFlag{Name: "compact", Usage: "Print key=value lines instead of JSON"},
		},
		Action: runQuery,
	}
}

func runQuery(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: codenav query <operation> (see codenav query --help)")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	source, langTag, err := readSource(c, cfg)
	if err != nil {
		return err
	}

	rec, err := query.FromConfig(cfg).Do(query.Request{
		Operation: c.Args().First(),
		Source:    source,
		Language:  langTag,
		Function:  c.String("function"),
		Type:      c.String("type"),
		Method:    c.String("method"),
		Pattern:   c.String("pattern"),
		Stem:      c.Bool("stem"),
	})
	if err != nil {
		return err
	}
	return printRecord(c.App.Writer, rec, c.Bool("compact"))
}

// readSource resolves the source text and language tag: --lang wins, then
// the file extension, then the configured default language.
func readSource(c *cli.Context, cfg *config.Config) (string, string, error) {
	langTag := c.String("lang")

	var data []byte
	var err error
	if path := c.String("file"); path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return "", "", err
		}
		if langTag == "" {
			if lang, ok := grammar.FromExtension(filepath.Ext(path)); ok {
				langTag = string(lang)
			}
		}
	} else {
		data, err = io.ReadAll(c.App.Reader)
		if err != nil {
			return "", "", err
		}
	}

	if langTag == "" {
		langTag = cfg.DefaultLanguage
	}
	return string(data), langTag, nil
}

// printRecord writes the record as pretty JSON, or as sorted key=value
// lines with --compact.
func printRecord(w io.Writer, rec query.Record, compact bool) error {
	if compact {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s=%s\n", k, rec[k])
		}
		return nil
	}
	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}

func overviewCommand() *cli.Command {
	return &cli.Command{
		Name:      "overview",
		Aliases:   []string{"o"},
		Usage:     "Module overviews for every supported file under the given paths",
		ArgsUsage: "<paths...>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "include", Usage: "Include glob (repeatable, replaces configured patterns)"},
			&cli.StringSliceFlag{Name: "exclude", Usage: "Exclude glob (repeatable, replaces configured patterns)"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Parallel parse workers"},
		},
		Action: runOverview,
	}
}

func runOverview(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: codenav overview <paths...>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if include := c.StringSlice("include"); len(include) > 0 {
		cfg.Scan.Include = include
	}
	if exclude := c.StringSlice("exclude"); len(exclude) > 0 {
		cfg.Scan.Exclude = exclude
	}
	if w := c.Int("workers"); w > 0 {
		cfg.Scan.Workers = w
	}

	report, err := scan.New(cfg).Run(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print a fresh overview whenever a supported file changes",
		ArgsUsage: "<path>",
		Action:    runWatch,
	}
}

func runWatch(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: codenav watch <path>")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	w, err := scan.New(cfg).NewWatcher(c.Args().First())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// One JSON line per refresh keeps the stream pipeable.
	return w.Run(ctx, func(ov scan.FileOverview) {
		out, err := json.Marshal(ov)
		if err != nil {
			return
		}
		fmt.Fprintln(c.App.Writer, string(out))
	})
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve every operation as an MCP tool on stdio",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mcp.NewServer(cfg).Run(ctx)
		},
	}
}

func languagesCommand() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List supported language tags, aliases, and file extensions",
		Action: func(c *cli.Context) error {
			out, err := json.MarshalIndent(grammar.Catalog(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the project configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a starter .codenav.kdl in the working directory",
				Action: func(c *cli.Context) error {
					if _, err := os.Stat(config.KDLFileName); err == nil {
						return fmt.Errorf("%s already exists", config.KDLFileName)
					}
					if err := os.WriteFile(config.KDLFileName, []byte(config.DefaultKDL), 0o644); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", config.KDLFileName)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "Print the effective configuration as JSON",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					out, err := json.MarshalIndent(cfg, "", "  ")
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, string(out))
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Check the configuration file and report the first problem",
				Action: func(c *cli.Context) error {
					if _, err := loadConfig(c); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "configuration ok")
					return nil
				},
			},
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version and build information",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, version.FullInfo())
			return nil
		},
	}
}
