package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/severn/config"
	"github.com/hupe1980/severn/logging"
)

// app carries the state shared by all subcommands once the root command
// has loaded the configuration.
type app struct {
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string

	cfg      *config.Config
	logger   logging.Logger
	registry *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "severn",
		Short: "Run sequential LLM agent pipelines",
		Long: `severn chains agents (a name plus a system message) into a pipeline.
Each agent receives the user prompt and the previous agent's output as
context; the last agent's output is printed.

Credentials are read from the config file, from --env-file dotenv files and
from OPENAI_API_KEY, OPENAI_ORG_ID, ANTHROPIC_API_KEY, WEAVIATE_URL and
WEAVIATE_API_KEY.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file")
	flags.StringArrayVar(&a.envFiles, "env-file", nil, "Dotenv file to read credentials from (repeatable, default ./.env)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (json, text, tint)")

	rootCmd.AddCommand(newRunCmd(a), newIngestCmd(a))

	return rootCmd
}

// load assembles the configuration: defaults, then the config file, then
// the environment, then the logging flags.
func (a *app) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if err := cfg.LoadEnv(a.envFiles...); err != nil {
		return err
	}

	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	a.cfg = cfg
	a.logger = logging.NewLogger(cfg.LoggerConfig(cmd.ErrOrStderr()))
	a.registry = prometheus.NewRegistry()

	return nil
}

// logMetrics writes the collected pipeline metrics as debug records.
func (a *app) logMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		a.logger.Warn("Gathering metrics failed", "error", err)
		return
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			args := []any{"name", mf.GetName()}
			for _, lp := range m.GetLabel() {
				args = append(args, lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				args = append(args, "value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				args = append(args,
					"count", m.GetHistogram().GetSampleCount(),
					"sum", m.GetHistogram().GetSampleSum(),
				)
			}
			a.logger.Debug("Metric", args...)
		}
	}
}
