package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/severn/config"
	"github.com/hupe1980/severn/core"
	"github.com/hupe1980/severn/pipeline"
)

type runFlags struct {
	agents      []string
	premade     []string
	context     string
	contextFile string
	query       string
	index       int
	name        string
	backend     string
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [prompt]",
		Short: "Run the pipeline (or a single agent) on a prompt",
		Long: `Run builds a pipeline from the configured agents followed by
--premade and --agent flags, resolves the optional data source and prints
the final output.

With --index or --name only the selected agent is invoked.`,
		Example: `  severn run --backend echo --agent writer="write" --agent reviewer="review" "summarize X"
  severn run --premade researcher --query "rust lifetimes" "explain lifetimes"
  severn run -c severn.yaml --name reviewer --context-file draft.md "review this"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, f, strings.Join(args, " "))
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&f.agents, "agent", "a", nil, "Agent as name=system message (repeatable, appended in order)")
	flags.StringSliceVar(&f.premade, "premade", nil, "Premade agents to append (writer, researcher)")
	flags.StringVar(&f.context, "context", "", "Static initial context")
	flags.StringVar(&f.contextFile, "context-file", "", "File whose contents become the initial context")
	flags.StringVar(&f.query, "query", "", "Query the Weaviate store for the initial context")
	flags.IntVar(&f.index, "index", 0, "Run only the agent at this index")
	flags.StringVar(&f.name, "name", "", "Run only the first agent with this name")
	flags.StringVar(&f.backend, "backend", "", "Prompting backend (openai, anthropic, echo)")

	cmd.MarkFlagsMutuallyExclusive("index", "name")
	cmd.MarkFlagsMutuallyExclusive("context", "context-file", "query")

	return cmd
}

func (a *app) run(cmd *cobra.Command, f *runFlags, prompt string) error {
	cfg := a.cfg
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	switch {
	case cmd.Flags().Changed("context"):
		cfg.DataSource = config.DataSourceConfig{Type: config.DataSourceStatic, Text: f.context}
	case f.contextFile != "":
		cfg.DataSource = config.DataSourceConfig{Type: config.DataSourceFile, Path: f.contextFile}
	case f.query != "":
		cfg.DataSource = config.DataSourceConfig{Type: config.DataSourceWeaviate, Query: f.query}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	agents, err := buildAgents(cfg.Agents, f.premade, f.agents)
	if err != nil {
		return err
	}

	backend, err := newBackend(cfg, a.logger)
	if err != nil {
		return err
	}

	ds, err := newDataSource(cfg, a.logger)
	if err != nil {
		return err
	}

	p := pipeline.New(func(o *pipeline.Options) {
		o.Logger = a.logger
		o.Metrics = pipeline.NewMetrics(a.registry)
	}).AddAgents(agents...)
	if ds != nil {
		p = p.AddDataSource(ds)
	}

	ctx := cmd.Context()

	var out string
	switch {
	case cmd.Flags().Changed("index"):
		out, err = p.RunAgentAtIndex(ctx, prompt, f.index, backend)
	case f.name != "":
		out, err = p.RunAgentByName(ctx, prompt, f.name, backend)
	default:
		out, err = p.Run(ctx, prompt, backend)
	}

	a.logMetrics()

	if err != nil {
		a.logger.Debug("Run failed", "kind", core.KindOf(err).String())
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
