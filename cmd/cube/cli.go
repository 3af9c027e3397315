package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spektr-org/cube/datasets/wine"
	"github.com/spektr-org/cube/engine"
	"github.com/spektr-org/cube/helpers"
	"github.com/spektr-org/cube/render"
	"github.com/spektr-org/cube/schema"
)

// CLI wires cobra commands to a viper instance holding flags, CUBE_* env
// vars and an optional cube.yaml config file.
type CLI struct {
	rootCmd *cobra.Command
	v       *viper.Viper
	out     io.Writer
	logger  *slog.Logger
}

// NewCLI creates the command tree writing results to out.
func NewCLI(out io.Writer) *CLI {
	cli := &CLI{
		v:   viper.New(),
		out: out,
	}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// Execute runs the command line.
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// setupViperConfig configures env and config file lookup.
func (cli *CLI) setupViperConfig() {
	if configFile := os.Getenv("CUBE_CONFIG"); configFile != "" {
		cli.v.SetConfigFile(configFile)
	} else {
		cli.v.SetConfigName("cube")
		cli.v.SetConfigType("yaml")
		cli.v.AddConfigPath(".")
		cli.v.AddConfigPath("$HOME/.config/cube")
	}

	cli.v.SetEnvPrefix("CUBE")
	cli.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.v.AutomaticEnv()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:     "cube",
		Short:   "OLAP rollup, drilldown, slice and dice over tabular data",
		Version: version,
		Long: `cube loads a delimited file (or a SQLite table) into an in-memory cube
and runs rollup, drilldown, slice and dice operations against it.

Without --schema the built-in red wine quality schema is used.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (CUBE_*)
3. Configuration file (CUBE_CONFIG, ./cube.yaml, ~/.config/cube/cube.yaml)

Examples:
  cube --file winequality-red.csv rollup --dims alcohol_range,pH_range,quality
  cube --file winequality-red.csv drilldown --start quality --drill alcohol_range,pH_range --measure "volatile acidity"
  cube --file winequality-red.csv slice --dim quality --value 5
  cube --file winequality-red.csv dice --where quality=6..8 --where "alcohol_range=Medium (9.5-11.5)"
  cube --sqlite wine.db --table red demo --format json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := cli.v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return fmt.Errorf("failed to read config: %w", err)
				}
			}
			cli.logger = newLogger(cli.v.GetString("log-level"))
			return nil
		},
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.String("file", "", "Path to a delimited data file with a header row")
	flags.String("delimiter", "", "Field delimiter (default: auto-detect ';', tab or ',')")
	flags.String("sqlite", "", "Path to a SQLite database to read instead of --file")
	flags.String("table", "", "SQLite table to read (with --sqlite)")
	flags.String("schema", "", "Path to a YAML or JSON schema (default: built-in wine schema)")
	flags.StringP("format", "f", "text", "Output format: text|json|pretty|csv")
	flags.Int("precision", 2, "Decimal places kept in aggregated values")
	flags.String("log-level", "warn", "Log level: debug|info|warn|error")
}

// ============================================================================
// SESSION: loaded cube + output settings for one command
// ============================================================================

type session struct {
	cube   *engine.Cube
	schema schema.Config
	format render.Format
	runID  string
}

// report wraps machine-readable output with run metadata.
type report struct {
	RunID     string    `json:"runId"`
	Operation string    `json:"operation"`
	Dataset   string    `json:"dataset"`
	Records   int       `json:"records"`
	Generated time.Time `json:"generatedAt"`
	Result    any       `json:"result"`
}

// open loads the schema and data named by the current configuration.
func (cli *CLI) open(ctx context.Context) (*session, error) {
	format, err := render.ParseFormat(cli.v.GetString("format"))
	if err != nil {
		return nil, err
	}

	sch, classifiers, err := cli.loadSchema()
	if err != nil {
		return nil, err
	}

	rows, _, err := cli.loadRows(ctx)
	if err != nil {
		return nil, err
	}

	store, err := engine.Load(rows, sch, classifiers)
	if err != nil {
		return nil, err
	}
	cli.logger.Info("records loaded", "dataset", sch.Name, "records", store.Len())

	return &session{
		cube: engine.New(store,
			engine.WithPrecision(int32(cli.v.GetInt("precision"))),
			engine.WithLogger(cli.logger),
		),
		schema: sch,
		format: format,
		runID:  uuid.NewString(),
	}, nil
}

func (cli *CLI) loadSchema() (schema.Config, engine.Classifiers, error) {
	if path := cli.v.GetString("schema"); path != "" {
		cfg, err := schema.Load(path)
		if err != nil {
			return schema.Config{}, nil, err
		}
		return *cfg, nil, nil
	}

	cfg, err := wine.Schema()
	if err != nil {
		return schema.Config{}, nil, err
	}
	return cfg, wine.Classifiers(), nil
}

// loadRows reads the configured data source. Returns the rows and the
// column names in source order.
func (cli *CLI) loadRows(ctx context.Context) ([]engine.RawRow, []string, error) {
	if dbPath := cli.v.GetString("sqlite"); dbPath != "" {
		table := cli.v.GetString("table")
		if table == "" {
			return nil, nil, errors.New("--table is required with --sqlite")
		}
		db, err := helpers.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return helpers.LoadSQLite(ctx, db, table)
	}

	path := cli.v.GetString("file")
	if path == "" {
		return nil, nil, errors.New("either --file or --sqlite is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data file: %w", err)
	}

	delim, err := parseDelimiter(cli.v.GetString("delimiter"))
	if err != nil {
		return nil, nil, err
	}
	rows, header, err := helpers.ParseDelimited(data, delim)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, header, nil
}

// emit writes a result in the session format. tables renders the text/CSV
// forms; result is what JSON output carries.
func (cli *CLI) emit(s *session, op string, result any, text func(io.Writer) error, tables []render.TableData) error {
	switch s.format {
	case render.FormatJSON, render.FormatPretty:
		return render.JSON(cli.out, report{
			RunID:     s.runID,
			Operation: op,
			Dataset:   s.schema.Name,
			Records:   s.cube.Store().Len(),
			Generated: time.Now().UTC(),
			Result:    result,
		}, s.format == render.FormatPretty)
	case render.FormatCSV:
		return render.CSV(cli.out, tables...)
	default:
		return text(cli.out)
	}
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
