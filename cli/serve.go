package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"erpchat/ai"
	"erpchat/cache"
	"erpchat/config"
	"erpchat/db"
	"erpchat/handlers"
	"erpchat/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logrus.Entry) error {
	database, err := db.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	history, created, err := database.EnsureHistory(ctx, cfg.Chatbot.HistoryFileID)
	if err != nil {
		return fmt.Errorf("failed to open chat history: %w", err)
	}
	historyLog := logger.WithField("history_file_id", history.DocID())
	if created {
		historyLog.Info("created chat history document, set CHATBOT_HISTORY_FILE_ID to keep using it")
	} else {
		historyLog.Info("using chat history document")
	}

	aiService, err := ai.New(cfg.OpenAI, logger.WithField("component", "ai"))
	if err != nil {
		return fmt.Errorf("failed to initialize AI service: %w", err)
	}

	sqlService := service.NewSQLServerServiceWithDB(nil)
	var sqlHealth handlers.HealthChecker
	if cfg.SQLServer.Enabled() {
		sqlService, err = service.NewSQLServerService(ctx, cfg.SQLServer, logger)
		if err != nil {
			logger.WithError(err).Warn("SQL Server features will be unavailable")
			sqlService = service.NewSQLServerServiceWithDB(nil)
		} else {
			defer sqlService.Close()
			sqlHealth = sqlService
			logger.Info("SQL Server service initialized")
		}
	} else {
		logger.Warn("SQL Server is not configured, commands and queries will fail")
	}

	executor := service.NewTransactionExecutor(
		service.NewSQLTransactionStore(sqlService.DB()),
		logger.WithField("component", "executor"),
	)
	refs := service.NewReferenceLibrary(database, cache.New(cfg.ReferenceCacheTTL), cfg.Chatbot.ReferenceExt, logger.WithField("component", "reference"))
	pipeline := service.NewQueryPipeline(
		aiService,
		sqlService,
		refs,
		service.NewResultsExporter(database, cfg.Chatbot.ResultsFolder),
		service.PipelineConfig{
			PreambleFileID:  cfg.Chatbot.PreambleFileID,
			TableIndexID:    cfg.Chatbot.O2CFileID,
			SummaryRowLimit: cfg.Chatbot.SummaryRowLimit,
		},
		logger.WithField("component", "pipeline"),
	)
	chatbot := service.NewChatbot(executor, pipeline, history, logger.WithField("component", "chatbot"))

	h := handlers.New(handlers.Options{
		Documents:      database,
		Chat:           chatbot,
		SQL:            sqlHealth,
		AIReady:        true,
		TemplateFileID: cfg.Chatbot.TemplateFileID,
		UploadFolder:   cfg.Chatbot.UploadFolder,
		Logger:         logger.WithField("component", "http"),
	})

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, logger.WithField("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": cfg.Port, "model": aiService.Model()}).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
