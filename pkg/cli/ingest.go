package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/carecompass-dev/carecompass/pkg/cli/config"
	"github.com/carecompass-dev/carecompass/pkg/domain/model"
	"github.com/carecompass-dev/carecompass/pkg/service/embedding"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

// ingestConcurrency caps parallel embedding batches against the LLM API.
const ingestConcurrency = 4

func cmdIngest() *cli.Command {
	var catalogPath string
	var batchSize int
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Program catalog TOML file (local path or gs:// URL)",
			Required:    true,
			Sources:     cli.EnvVars("CARECOMPASS_CATALOG"),
			Destination: &catalogPath,
		},
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Number of programs embedded per batch",
			Value:       10,
			Sources:     cli.EnvVars("CARECOMPASS_INGEST_BATCH_SIZE"),
			Destination: &batchSize,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Embed the program catalog and load it into the vector index",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}
			if llmClient == nil {
				return goerr.New("gemini-project is required to embed the catalog")
			}
			embedSvc := embedding.New(llmClient)

			catalog, err := config.LoadCatalog(ctx, catalogPath)
			if err != nil {
				return err
			}
			logging.Default().Info("Loaded program catalog",
				"path", catalogPath,
				"programs", len(catalog.Programs),
			)

			programs := make([]*model.Program, len(catalog.Programs))
			for i := range catalog.Programs {
				programs[i] = catalog.Programs[i].Model()
			}

			if batchSize <= 0 {
				batchSize = 10
			}

			eg, egCtx := errgroup.WithContext(ctx)
			eg.SetLimit(ingestConcurrency)
			for start := 0; start < len(programs); start += batchSize {
				end := start + batchSize
				if end > len(programs) {
					end = len(programs)
				}
				batch := programs[start:end]

				eg.Go(func() error {
					texts := make([]string, len(batch))
					for i, p := range batch {
						texts[i] = programEmbeddingText(p)
					}

					vectors, err := embedSvc.EmbedBatch(egCtx, texts)
					if err != nil {
						return goerr.Wrap(err, "failed to embed catalog batch",
							goerr.V("first", batch[0].ID),
							goerr.V("size", len(batch)),
						)
					}
					for i := range batch {
						batch[i].Vector = vectors[i]
					}

					if err := repo.ProgramIndex().Upsert(egCtx, batch); err != nil {
						return goerr.Wrap(err, "failed to upsert catalog batch", goerr.V("first", batch[0].ID))
					}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}

			stats, err := repo.ProgramIndex().Stats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to read index stats after ingest")
			}

			color.Green("✅ Ingested %d programs", len(programs))
			color.Cyan("   Index dimension: %d, total entries: %d", stats.Dimension, stats.Count)
			return nil
		},
	}
}

// programEmbeddingText joins the fields that carry semantic signal for
// vector search.
func programEmbeddingText(p *model.Program) string {
	parts := make([]string, 0, 2+len(p.Keywords)+len(p.LifeSkills))
	parts = append(parts, p.Name, p.Description)
	parts = append(parts, p.Keywords...)
	parts = append(parts, p.LifeSkills...)
	return strings.Join(parts, " ")
}
