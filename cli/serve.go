package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/urfave/negroni"
	"go.uber.org/zap"

	"github.com/saarthi-labs/krishisaarthi/config"
	"github.com/saarthi-labs/krishisaarthi/handlers"
	"github.com/saarthi-labs/krishisaarthi/server"
	"github.com/saarthi-labs/krishisaarthi/services/chat_service"
	"github.com/saarthi-labs/krishisaarthi/services/llm_service"
	"github.com/saarthi-labs/krishisaarthi/services/rag_service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg)
	ctx := cmd.Context()

	// Everything the request path needs is built once here and reused for
	// the life of the process.
	pool, store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()

	embedder := rag_service.NewEmbeddingService(cfg.OpenAIAPIKey, cfg.EmbeddingModel, logger)
	llm := llm_service.NewGroqService(zapLogger)
	chat := chat_service.NewChatService(store, embedder, llm, cfg.GroqAPIKey, cfg.LLMModel, logger)

	chatHandler := handlers.NewChatHandler(chat, logger)

	r := server.SetupRoutes(chatHandler, "static")
	n := setupNegroni(r)

	if cfg.Environment == "production" {
		server.ServeProduction(n, cfg.Domains, cfg.CertCacheDir)
	} else {
		srv := &http.Server{
			Addr:        ":" + cfg.HTTPPort,
			Handler:     n,
			IdleTimeout: time.Minute,
			ReadTimeout: 5 * time.Second,
			// Chat responses wait on an LLM completion.
			WriteTimeout: 3 * time.Minute,
		}
		logger.Info("Starting HTTP server",
			slog.String("port", cfg.HTTPPort))
		server.ServeDevelopment(srv)
	}

	return nil
}

func setupNegroni(r *mux.Router) *negroni.Negroni {
	n := negroni.New()

	n.Use(negroni.NewRecovery())
	n.Use(negroni.NewLogger())

	n.UseHandler(r)
	return n
}
