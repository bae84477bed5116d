// Package commands implements the formvalidate CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formvalidate/internal/config"
	"github.com/goliatone/go-formvalidate/internal/logging"
	"github.com/goliatone/go-formvalidate/pkg/metrics"
	"github.com/goliatone/go-formvalidate/pkg/tui"
	"github.com/goliatone/go-formvalidate/pkg/validation"
)

const version = "0.1.0"

var (
	// ErrInvalid is returned when the checked payload failed validation.
	ErrInvalid = errors.New("payload is invalid")
	// ErrNotSubmitted is returned when an interactive fill ended without a
	// submission.
	ErrNotSubmitted = errors.New("form was not submitted")
	// ErrNoSchema is returned when neither --schema nor --builtin is set.
	ErrNoSchema = errors.New("one of --schema or --builtin is required")
)

type app struct {
	v          *viper.Viper
	cfg        *config.Config
	configPath string
	dataPath   string
	dumpStats  bool

	logger   zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector

	in     io.Reader
	out    io.Writer
	driver tui.PromptDriver
}

// Option customises the root command, mostly for tests.
type Option func(*app)

// WithInput replaces stdin for --data -.
func WithInput(r io.Reader) Option {
	return func(a *app) {
		a.in = r
	}
}

// WithPromptDriver replaces the terminal prompt driver used by fill.
func WithPromptDriver(d tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = d
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{v: config.New(), in: os.Stdin, logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "formvalidate",
		Short: "Validate form payloads against schemas",
		Long: `formvalidate checks JSON or YAML payloads against an OpenAPI schema or one of
the bundled user schemas, and can fill a form interactively in the terminal.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.dumpStats {
				return nil
			}
			return writeMetrics(cmd.ErrOrStderr(), a.registry)
		},
	}
	root.SetVersionTemplate("formvalidate version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formvalidate.yaml)")
	flags.String("schema", "", "schema file: a JSON/YAML schema or an OpenAPI document")
	flags.String("operation", "", "OpenAPI operation id whose request body is the schema")
	flags.String("builtin", "", "bundled schema: "+strings.Join(builtinNames(), ", "))
	flags.StringP("output", "o", "text", "output format: text, json")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console, json")
	flags.BoolVar(&a.dumpStats, "metrics", false, "print validation metrics to stderr on exit")

	root.AddCommand(newCheckCommand(a), newFillCommand(a), newOperationsCommand(a))
	return root
}

// flagKeys maps config keys to the persistent flags that override them.
var flagKeys = map[string]string{
	"schema":     "schema",
	"operation":  "operation",
	"builtin":    "builtin",
	"output":     "output",
	"log_level":  "log-level",
	"log_format": "log-format",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := bindFlags(a.v, cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger

	a.out = cmd.OutOrStdout()
	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewWithRegistry(a.registry)
	if a.driver == nil {
		a.driver = tui.NewSurveyDriver(cmd.OutOrStdout())
	}
	return nil
}

func (a *app) validationOptions() []validation.Option {
	return []validation.Option{
		validation.WithLogger(a.logger),
		validation.WithObserver(a.metrics),
	}
}

// writeMetrics prints gathered series in a compact name{labels} value form.
func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	if reg == nil {
		return nil
	}
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gather metrics")
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+strconv.Quote(lp.GetValue()))
			}
			sort.Strings(labels)
			series := mf.GetName() + "{" + strings.Join(labels, ",") + "}"
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(w, "%s %g\n", series, m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				fmt.Fprintf(w, "%s count=%d sum=%g\n", series, m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
