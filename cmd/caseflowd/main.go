package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/caseflow-ai/caseflow/internal/analysis"
	"github.com/caseflow-ai/caseflow/internal/async"
	"github.com/caseflow-ai/caseflow/internal/cases"
	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/docstore"
	"github.com/caseflow-ai/caseflow/internal/export"
	"github.com/caseflow-ai/caseflow/internal/llm/openai"
	"github.com/caseflow-ai/caseflow/internal/registry"
	"github.com/caseflow-ai/caseflow/internal/server"
)

func main() {
	zlog, _ := zap.NewProduction()
	defer func() { _ = zlog.Sync() }()
	log := zlog.Sugar()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := common.LoadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ports
	docs := docstore.NewMemoryStore()
	jobStore := registry.NewMemoryStore(logger)
	invoker := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	// Pipeline
	orchestrator := analysis.NewOrchestrator(
		jobStore,
		analysis.NewContextAssembler(docs, logger),
		analysis.NewSpecialistRunner(invoker, logger, cfg.Pipeline.MaxParallelSpecialists, cfg.Pipeline.SpecialistTimeout),
		analysis.NewStrategyStage(invoker, logger, cfg.Pipeline.StageTimeout),
		analysis.NewPrognosisStage(invoker, logger, cfg.Pipeline.StageTimeout),
		analysis.NewResultCompiler(invoker, logger, cfg.Pipeline.DraftContinuation, cfg.Pipeline.StageTimeout),
		logger,
	)

	queue := async.NewQueue(orchestrator, logger,
		async.WithWorkers(cfg.Pipeline.QueueWorkers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithJobTimeout(cfg.Pipeline.JobTimeout),
	)

	caseSvc := cases.NewService(logger)
	analysisSvc := analysis.NewService(caseSvc, jobStore, queue, logger)
	exportSvc := export.NewService(jobStore, logger)

	srv := server.New(zlog, caseSvc, jobStore, analysisSvc, exportSvc, docs)
	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	queue.Shutdown(shutdownCtx)
	log.Info("stopped.")
}
