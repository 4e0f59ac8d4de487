package services

import (
	"context"
	"errors"
	"time"

	"metro-rent-assistant/cache"
	"metro-rent-assistant/llm"
	"metro-rent-assistant/models"
	"metro-rent-assistant/utils"
)

const defaultPolishTimeout = 20 * time.Second

// ReplyCache stores finished replies by question text.
type ReplyCache interface {
	Get(ctx context.Context, message string) (string, error)
	Set(ctx context.Context, message, reply string) error
}

// AssistantOptions are the optional collaborators of an Assistant.
type AssistantOptions struct {
	Polisher      llm.Polisher
	PolishTimeout time.Duration
	Cache         ReplyCache
}

// Reply is the full outcome of answering one message.
type Reply struct {
	Intent   models.Intent
	Rule     string
	Result   *models.QueryResult
	Text     string
	Polished bool
}

// Assistant answers free-text rent questions: classify, execute, render and
// optionally polish.
type Assistant struct {
	classifier  *IntentClassifier
	recommender *Recommender
	presenter   *Presenter
	opts        AssistantOptions
	logger      *utils.Logger
}

// NewAssistant wires an assistant over recommender.
func NewAssistant(recommender *Recommender, opts AssistantOptions, logger *utils.Logger) *Assistant {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	if opts.PolishTimeout <= 0 {
		opts.PolishTimeout = defaultPolishTimeout
	}
	return &Assistant{
		classifier:  NewIntentClassifier(),
		recommender: recommender,
		presenter:   NewPresenter(),
		opts:        opts,
		logger:      logger,
	}
}

// Recommender returns the underlying query engine.
func (a *Assistant) Recommender() *Recommender {
	return a.recommender
}

// Chat returns the reply text for message. history is accepted for API
// compatibility and not consulted. The only error is an unavailable dataset.
func (a *Assistant) Chat(ctx context.Context, message string, history []models.ChatTurn) (string, error) {
	if a.opts.Cache != nil {
		reply, err := a.opts.Cache.Get(ctx, message)
		if err == nil {
			a.logger.Debug("[assistant] Cache hit")
			return reply, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			a.logger.Warn("[assistant] Cache read failed: %v", err)
		}
	}

	r, err := a.Answer(ctx, message)
	if err != nil {
		return "", err
	}

	if a.opts.Cache != nil {
		if err := a.opts.Cache.Set(ctx, message, r.Text); err != nil {
			a.logger.Warn("[assistant] Cache write failed: %v", err)
		}
	}
	return r.Text, nil
}

// Answer classifies message, runs the matching query and renders the reply.
func (a *Assistant) Answer(ctx context.Context, message string) (*Reply, error) {
	intent, rule := a.classifier.Classify(message)
	a.logger.Debug("[assistant] Rule %q selected %s intent", rule, intent.Kind())

	result, err := a.recommender.Execute(intent)
	if err != nil {
		return nil, err
	}

	reply := &Reply{
		Intent: intent,
		Rule:   rule,
		Result: result,
		Text:   a.presenter.Render(result),
	}
	if _, empty := intent.(models.EmptyIntent); !empty {
		reply.Text, reply.Polished = a.polish(ctx, message, reply.Text)
	}
	return reply, nil
}

// polish returns the rewritten text, or draft unchanged when no polisher is
// configured or the polisher fails.
func (a *Assistant) polish(ctx context.Context, message, draft string) (string, bool) {
	if a.opts.Polisher == nil {
		return draft, false
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.PolishTimeout)
	defer cancel()

	out, err := a.opts.Polisher.Polish(ctx, message, draft)
	if err != nil {
		a.logger.Warn("[assistant] %s polish failed, using raw reply: %v", a.opts.Polisher.Name(), err)
		return draft, false
	}
	return out, true
}
