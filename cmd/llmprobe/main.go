// llmprobe sends one specialist-style prompt through the configured provider
// and prints the parsed outcome. Useful for checking credentials and model
// behavior before pointing the daemon at a new endpoint.
package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/caseflow-ai/caseflow/constants"
	"github.com/caseflow-ai/caseflow/internal/analysis"
	"github.com/caseflow-ai/caseflow/internal/common"
	"github.com/caseflow-ai/caseflow/internal/entity"
	"github.com/caseflow-ai/caseflow/internal/llm/openai"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: llmprobe <case-text-file> [times]")
		os.Exit(2)
	}
	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logger.Error("read case text", "path", os.Args[1], "error", err)
		os.Exit(2)
	}
	times := 1
	if len(os.Args) >= 3 {
		if n, err := strconv.Atoi(os.Args[2]); err == nil && n > 0 {
			times = n
		}
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(2)
	}
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	runner := analysis.NewSpecialistRunner(client, logger, 1, cfg.Pipeline.SpecialistTimeout)
	cc := entity.CaseContext{
		PrimaryText: string(raw),
		Kind:        constants.CaseKindGeneral,
	}

	for i := 0; i < times; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		outcomes, err := runner.Run(ctx, []constants.Specialist{constants.MeritsAssessment}, cc)
		cancel()
		if err != nil {
			logger.Error("probe failed", "attempt", i+1, "error", err)
			os.Exit(1)
		}
		oc := outcomes[constants.MeritsAssessment]
		if oc.Opinion != nil {
			logger.Info("probe ok", "attempt", i+1, "confidence", oc.Opinion.Confidence, "text_len", len(oc.Opinion.Text))
		} else {
			logger.Warn("probe outcome failed", "attempt", i+1, "reason", oc.Failure.Reason)
		}
	}
}
