// Package llm abstracts the natural-language understanding the chat flow
// needs behind a small capability interface: slot extraction, intent
// classification and explanation polish. The scoring core never sees free
// text; it only consumes the typed values produced here.
package llm

import (
	"context"

	"github.com/oneq/backend/internal/schema"
)

// Intent is the coarse classification of one user utterance.
type Intent string

const (
	// IntentAnswer carries slot values for the current question.
	IntentAnswer Intent = "answer"
	// IntentExplain asks what a print term means.
	IntentExplain Intent = "explain"
	// IntentModify asks to change an already-collected slot.
	IntentModify Intent = "modify"
	// IntentConfirm accepts the summarized request.
	IntentConfirm Intent = "confirm"
	// IntentCancel abandons the current request.
	IntentCancel Intent = "cancel"
)

// Classification is one intent decision plus the payload the dialogue needs
// to act on it: the term behind an explain, the slot keys behind a modify.
type Classification struct {
	Intent Intent   `json:"intent"`
	Term   string   `json:"term,omitempty"`
	Slots  []string `json:"slots,omitempty"`
}

// Capability is the language-understanding contract the dialogue layer
// depends on. Implementations must be safe for concurrent use.
type Capability interface {
	// ExtractSlots pulls category-relevant slot values out of an utterance.
	// The result is partial: only what the utterance actually states.
	ExtractSlots(ctx context.Context, utterance string, cat schema.Category) (map[string]string, error)

	// ClassifyIntent decides what the user is trying to do this turn.
	ClassifyIntent(ctx context.Context, utterance string) (Classification, error)

	// PolishExplanation rewrites curated glossary facts into one friendly
	// answer. It must never introduce facts beyond the input.
	PolishExplanation(ctx context.Context, facts schema.TermFacts) (string, error)
}
