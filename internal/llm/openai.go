package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/pkg/circuitbreaker"
	"github.com/oneq/backend/pkg/logger"
	"github.com/oneq/backend/pkg/retry"
)

// Client implements Capability on the OpenAI chat completion API. Calls go
// through a retry policy and a circuit breaker so a flapping upstream cannot
// stall the chat flow.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec int) *Client {
	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

const extractSystemPrompt = `You extract print-order details from Korean or English chat messages.
Return ONLY a JSON object whose keys are slot names and whose values are the
verbatim phrases from the message. Never invent values. Allowed keys: %s.
If the message states nothing extractable, return {}.`

const classifySystemPrompt = `You classify one chat message from a print-quote conversation.
Return ONLY a JSON object: {"intent": one of "answer","explain","modify","confirm","cancel",
"term": the print term being asked about (explain only),
"slots": the slot names the user wants to change (modify only)}.
"answer" is the default when the message simply provides requested details.`

const polishSystemPrompt = `You are a friendly Korean print-shop assistant. Rewrite the given
glossary facts as one short conversational answer in Korean. Use only the
facts given. No markdown.`

func (c *Client) ExtractSlots(ctx context.Context, utterance string, cat schema.Category) (map[string]string, error) {
	keys := append(schema.RequiredSlots(cat), schema.SlotCategory)
	prompt := fmt.Sprintf(extractSystemPrompt, strings.Join(keys, ", "))

	content, err := c.complete(ctx, prompt, utterance, true)
	if err != nil {
		return nil, fmt.Errorf("extract slots: %w", err)
	}

	extracted := make(map[string]string)
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		return nil, fmt.Errorf("extract slots: malformed model output: %w", err)
	}

	// The model sometimes echoes keys outside the allowed set.
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}
	for k := range extracted {
		if !allowed[k] {
			delete(extracted, k)
		}
	}
	return extracted, nil
}

func (c *Client) ClassifyIntent(ctx context.Context, utterance string) (Classification, error) {
	content, err := c.complete(ctx, classifySystemPrompt, utterance, true)
	if err != nil {
		return Classification{}, fmt.Errorf("classify intent: %w", err)
	}

	var cls Classification
	if err := json.Unmarshal([]byte(content), &cls); err != nil {
		return Classification{}, fmt.Errorf("classify intent: malformed model output: %w", err)
	}
	switch cls.Intent {
	case IntentAnswer, IntentExplain, IntentModify, IntentConfirm, IntentCancel:
	default:
		cls.Intent = IntentAnswer
	}
	return cls, nil
}

func (c *Client) PolishExplanation(ctx context.Context, facts schema.TermFacts) (string, error) {
	user := fmt.Sprintf("용어: %s\n설명: %s\n사용 예: %s", facts.Term, facts.Description, facts.UseCases)

	content, err := c.complete(ctx, polishSystemPrompt, user, false)
	if err != nil {
		return "", fmt.Errorf("polish explanation: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(ctx, req)
			if err != nil {
				return fmt.Errorf("create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("empty completion response")
			}

			metrics.LLMTokensTotal.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
			metrics.LLMTokensTotal.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))

			logger.Debug("LLM completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
