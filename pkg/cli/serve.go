package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/carecompass-dev/carecompass/pkg/cli/config"
	httpctrl "github.com/carecompass-dev/carecompass/pkg/controller/http"
	"github.com/carecompass-dev/carecompass/pkg/service/embedding"
	"github.com/carecompass-dev/carecompass/pkg/service/keywords"
	"github.com/carecompass-dev/carecompass/pkg/service/rationale"
	"github.com/carecompass-dev/carecompass/pkg/service/vectorizer"
	"github.com/carecompass-dev/carecompass/pkg/usecase"
	"github.com/carecompass-dev/carecompass/pkg/utils/logging"
)

// rationaleWriter bridges the rationale service into the usecase port.
type rationaleWriter struct {
	svc *rationale.Service
}

func (w *rationaleWriter) Generate(ctx context.Context, input *usecase.RationaleInput) string {
	return w.svc.Generate(ctx, &rationale.Input{
		TrendDirection: input.TrendDirection,
		Activities:     input.Activities,
		ProgramNames:   input.ProgramNames,
	})
}

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var geminiCfg config.Gemini

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CARECOMPASS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
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
				return goerr.New("gemini-project is required: the recommendation engine cannot embed notes without an LLM client")
			}

			embedSvc := embedding.New(llmClient)
			uc := usecase.New(repo,
				usecase.WithEmbedder(embedSvc),
				usecase.WithVectorizer(vectorizer.New(embedSvc)),
				usecase.WithKeywordExtractor(keywords.New(llmClient)),
				usecase.WithRationaleWriter(&rationaleWriter{svc: rationale.New(llmClient)}),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
