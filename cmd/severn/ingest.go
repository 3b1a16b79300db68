package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/severn/files"
)

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <files...>",
		Short: "Chunk, embed and store files in Weaviate",
		Long: `Ingest parses each file by extension (.md and .markdown by
paragraph and code block, .csv by line, everything else by recursive
character chunks), embeds the chunks with OpenAI and upserts one Weaviate
object per chunk. The class is created when missing.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.ingest(cmd, args)
		},
	}
}

func (a *app) ingest(cmd *cobra.Command, paths []string) error {
	if a.cfg.OpenAI.APIKey == "" {
		return errors.New("openai.api_key is required for embeddings (or set OPENAI_API_KEY)")
	}

	store, err := newWeaviateStore(a.cfg, a.logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := store.EnsureClass(ctx); err != nil {
		return err
	}

	for _, path := range paths {
		f, err := files.Read(path)
		if err != nil {
			return err
		}

		ids, err := store.EmbedAndUpsert(ctx, f)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		a.logger.Info("Ingested file", "path", path, "chunks", len(ids), "class", store.Class())
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %d chunks\n", path, len(ids)); err != nil {
			return err
		}
	}

	return nil
}
