package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/ratekit/qctl/pkg/auth"
	"github.com/ratekit/qctl/pkg/config"
	"github.com/ratekit/qctl/pkg/data"
	"github.com/ratekit/qctl/pkg/logging"
)

const (
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	outputFormat = formatJSON

	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "Path to the Sqlite database file",
	}

	postgresFlag = &cli.StringFlag{
		Name:  "postgres",
		Usage: "Postgres connection string (overrides config and keyring)",
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefault("info")

	cmd := newCmd()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Store  *data.Store
	Debug  bool
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newCmd() *cli.Command {
	return &cli.Command{
		Name:                  "qctl",
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "CLI for querying, ranking, and scoring freight rate quotes",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
			postgresFlag,
			formatFlag,
		},
		Commands: []*cli.Command{
			quoteCmd,
			seedCmd,
			authCmd,
			serverCmd,
		},
		Metadata: map[string]any{},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool(debugFlag.Name) {
				logging.SetDefault("debug")
			}

			f := cmd.String(formatFlag.Name)
			if f == formatYAML || f == "yml" {
				outputFormat = formatYAML
			}

			cfg, err := config.ReadOrCreate(getHomeDir())
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			store, err := openStore(cmd, cfg)
			if err != nil {
				return ctx, err
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Store:  store,
				Debug:  cmd.Bool(debugFlag.Name),
			}
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.Store != nil && cfg.Store.DB() != nil {
				cfg.Store.DB().Close()
			}
			return nil
		},
	}
}

// openStore resolves the backing store. A Postgres connection string from
// the flag, the config file, or the keyring wins; otherwise the embedded
// Sqlite file is initialized and opened.
func openStore(cmd *cli.Command, cfg *config.Config) (*data.Store, error) {
	dsn := cmd.String(postgresFlag.Name)
	if dsn == "" {
		dsn = cfg.PostgresDSN
	}
	if dsn == "" {
		stored, err := auth.GetDSN()
		if err != nil && !errors.Is(err, auth.ErrNotFound) {
			slog.Debug("keyring lookup failed", "error", err)
		}
		dsn = stored
	}

	if dsn != "" {
		db, err := data.OpenPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return data.NewStore(db, data.DriverPostgres), nil
	}

	dbPath := cmd.String(dbFilePathFlag.Name)
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		dbPath = path.Join(getHomeDir(), data.DataFileName)
	}

	if err := data.Init(dbPath); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return data.NewStore(db, data.DriverSQLite), nil
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, ".qctl")
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func encode(v any) error {
	return encodeTo(os.Stdout, v)
}

func encodeTo(w io.Writer, v any) error {
	if outputFormat == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
