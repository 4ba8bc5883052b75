package llm

import (
	"Rex/internal/api/config"
	log "log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var llmClient llms.Model

func InitLLM() error {
	cfg := config.Cfg.Classifier

	llm, err := openai.New(
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.ApiKey),
		openai.WithBaseURL(cfg.URL),
	)

	if err != nil {
		log.Error("llm client init failed", "err", err)
		return err
	}

	llmClient = llm
	return nil
}
