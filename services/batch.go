package services

import (
	"context"
	"strings"

	"metro-rent-assistant/utils"
)

// BatchResult is the reply to one question of a batch.
type BatchResult struct {
	Question string `json:"question"`
	Reply    string `json:"reply,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchAnswerer answers many questions concurrently through a rate-limited
// worker pool. All workers share the assistant's cached table.
type BatchAnswerer struct {
	assistant      *Assistant
	maxConcurrency int
	rateLimitMs    int
	logger         *utils.Logger
}

// NewBatchAnswerer creates a BatchAnswerer.
func NewBatchAnswerer(assistant *Assistant, maxConcurrency, rateLimitMs int, logger *utils.Logger) *BatchAnswerer {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &BatchAnswerer{
		assistant:      assistant,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
		logger:         logger,
	}
}

// Answer returns one result per question, in input order. A failed question
// carries its error text; the others are unaffected.
func (b *BatchAnswerer) Answer(ctx context.Context, questions []string) []BatchResult {
	results := make([]BatchResult, len(questions))
	pool := utils.NewWorkerPool(b.maxConcurrency, b.rateLimitMs)

	for i, q := range questions {
		i, q := i, q
		pool.Submit(func() {
			results[i].Question = q
			if err := ctx.Err(); err != nil {
				results[i].Error = err.Error()
				return
			}
			reply, err := b.assistant.Chat(ctx, q, nil)
			if err != nil {
				b.logger.Warn("[batch] Question %d failed: %v", i+1, err)
				results[i].Error = err.Error()
				return
			}
			results[i].Reply = reply
		})
	}
	pool.Wait()

	b.logger.Info("[batch] Answered %d questions", len(questions))
	return results
}

// ParseQuestions splits text into one question per non-blank line. Lines
// starting with '#' are comments.
func ParseQuestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}
