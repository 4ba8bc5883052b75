package llm

import (
	"Rex/internal/pkg/consts"
	"context"
	log "log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tmc/langchaingo/llms"
)

const classifyPrompt = `You are a classifier for a recommendation app.
Given the title and description of a web page, decide which category the
recommended item belongs to. Answer with a JSON object of the form
{"category": "<one of: books, movies, places, music, other>"} and nothing else.`

type classifyResult struct {
	Category string `json:"category"`
}

// ClassifyLink 根据链接预览判断 Thing 类别；任何失败都降级为 other
func ClassifyLink(ctx context.Context, title string, description string) string {
	if llmClient == nil {
		return consts.CategoryOther
	}

	userPrompt := "Title: " + title + "\nDescription: " + description

	resp, err := fetchModel(ctx, classifyPrompt, userPrompt, 0.1)
	if err != nil {
		log.WarnContext(ctx, "classify link failed", "err", err)
		return consts.CategoryOther
	}
	if len(resp.Choices) == 0 {
		return consts.CategoryOther
	}

	raw := strings.TrimSpace(resp.Choices[0].Content)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var result classifyResult
	if err = json.Unmarshal([]byte(strings.TrimSpace(raw)), &result); err != nil {
		log.WarnContext(ctx, "classify response parse failed", "raw", raw)
		return consts.CategoryOther
	}

	if consts.ValidCategory(result.Category) {
		return result.Category
	}
	return consts.CategoryOther
}

func fetchModel(ctx context.Context, systemPrompt string, userPrompt string, temp float64) (*llms.ContentResponse, error) {
	if err := TextSem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer TextSem.Release(1)

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userPrompt),
			},
		},
	}
	return llmClient.GenerateContent(ctx, messages,
		llms.WithTemperature(temp),
	)
}
