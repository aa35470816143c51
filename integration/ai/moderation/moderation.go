package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

const defaultModel = "gpt-4o-mini"

const systemPrompt = `You are a content moderation judge. Given a piece of user-submitted
text, decide whether it violates common content policy (hate speech, harassment, sexual
content involving minors, credible threats of violence, or spam/scam content).

Respond with a single JSON object and nothing else, in this exact shape:
{"flagged": boolean, "categories": [string, ...], "reason": string}

"categories" lists which policy areas were violated (empty if not flagged). "reason" is a
short human-readable explanation.`

// Payload is the task payload moderation.Handler expects.
type Payload struct {
	ContentID string `json:"content_id"`
	Text      string `json:"text"`
}

// Verdict is the judge's moderation decision for a single piece of content.
type Verdict struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories"`
	Reason     string   `json:"reason"`
}

// Handler implements queue.Handler, classifying queued content via an OpenAI
// chat completion acting as a moderation judge.
type Handler struct {
	client openai.Client
	model  string
	onDone func(ctx context.Context, payload Payload, verdict Verdict)
}

// Option configures a Handler.
type Option func(*Handler)

// WithModel overrides the chat model used for moderation judgments.
func WithModel(model string) Option {
	return func(h *Handler) {
		if model != "" {
			h.model = model
		}
	}
}

// WithOnDecision registers a callback invoked with every verdict, flagged or
// not, useful for auditing moderation decisions independently of task
// success/failure.
func WithOnDecision(fn func(ctx context.Context, payload Payload, verdict Verdict)) Option {
	return func(h *Handler) {
		h.onDone = fn
	}
}

// NewHandler returns a Handler backed by client.
func NewHandler(client openai.Client, opts ...Option) *Handler {
	h := &Handler{client: client, model: defaultModel}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name identifies this handler's task type for queue.Worker registration.
func (h *Handler) Name() string {
	return "moderate_content"
}

// Handle judges payload's text and returns ErrContentFlagged if the judge
// flags it, so the queue's retry policy treats a flagged verdict as terminal
// rather than retrying a decision that won't change.
func (h *Handler) Handle(ctx context.Context, payload json.RawMessage) error {
	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("moderation: decode payload: %w", err)
	}
	if strings.TrimSpace(p.Text) == "" {
		return ErrEmptyText
	}

	verdict, err := h.judge(ctx, p.Text)
	if err != nil {
		return err
	}

	if h.onDone != nil {
		h.onDone(ctx, p, verdict)
	}

	if verdict.Flagged {
		return fmt.Errorf("%w: %s (%s)", ErrContentFlagged, p.ContentID, verdict.Reason)
	}
	return nil
}

func (h *Handler) judge(ctx context.Context, text string) (Verdict, error) {
	resp, err := h.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(h.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("moderation: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Verdict{}, ErrNoVerdict
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}

// parseVerdict extracts the JSON verdict object from the model's reply,
// tolerating surrounding prose the model may add despite instructions.
func parseVerdict(content string) (Verdict, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end < start {
		return Verdict{}, ErrNoVerdict
	}

	var v Verdict
	if err := json.Unmarshal([]byte(content[start:end+1]), &v); err != nil {
		return Verdict{}, fmt.Errorf("%w: %s", ErrNoVerdict, err)
	}
	return v, nil
}
