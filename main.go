package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/margin/internal/commands"
	"github.com/colonyops/margin/internal/core/config"
	"github.com/colonyops/margin/internal/core/logging"
	"github.com/colonyops/margin/internal/core/styles"
	"github.com/colonyops/margin/internal/data/db"
	"github.com/colonyops/margin/internal/data/stores"
	"github.com/colonyops/margin/internal/margin"
	"github.com/colonyops/margin/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		marginApp = &margin.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "margin",
		Usage:     "Annotate and review text documents and diffs",
		UsageText: "margin [global options] command [command options]",
		Description: `Margin attaches free-text comments to line/column ranges of markdown
documents or one side of a diff, renders them as highlighted overlays on
marked-up content, and keeps them pointing at the right text as documents
change.

Run 'margin comment add' to attach a comment and 'margin render' to emit
the annotated document as per-line HTML fragments.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MARGIN_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/margin.log)",
				Sources:     cli.EnvVars("MARGIN_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MARGIN_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("MARGIN_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/margin.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "margin.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			database, err = db.Open(cfg.DataDir, db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			})
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			store := stores.NewAnnotationStore(database)
			service := margin.NewAnnotationService(store, cfg.Anchors.ContextWindow, logging.Component("service"))

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*marginApp = margin.App{
				Config:  cfg,
				Service: service,
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewRenderCmd(flags, marginApp).Register(app)
	app = commands.NewDiffCmd(flags, marginApp).Register(app)
	app = commands.NewCommentCmd(flags, marginApp).Register(app)
	app = commands.NewLsCmd(flags, marginApp).Register(app)
	app = commands.NewPreviewCmd(flags, marginApp).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(styles.ErrorStyle.Render(runErr.Error()))
		exitCode = 1
	}

	os.Exit(exitCode)
}
