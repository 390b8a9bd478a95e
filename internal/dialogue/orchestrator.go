package dialogue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/llm"
	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/report"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

// Response turn types.
const (
	TypeAsk     = "ask"
	TypeExplain = "explain"
	TypeConfirm = "confirm"
	TypeMatch   = "match"
	TypeCancel  = "cancel"
)

// Response is one assistant turn.
type Response struct {
	Type     string            `json:"type"`
	Question string            `json:"question,omitempty"`
	Choices  []string          `json:"choices,omitempty"`
	Missing  []string          `json:"missing,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Term     string            `json:"term,omitempty"`
	Text     string            `json:"text,omitempty"`
	Summary  string            `json:"summary,omitempty"`
	Message  string            `json:"message,omitempty"`
	Quote    *report.Quote     `json:"quote,omitempty"`
	Slots    schema.Slots      `json:"slots"`
}

// VendorSource supplies the candidate pool for one category.
type VendorSource interface {
	ListVendorsByCategory(category string) ([]*models.Vendor, error)
}

// RankingCache memoizes completed rankings. Nil-safe by interface value.
type RankingCache interface {
	GetRanking(ctx context.Context, key string) (score.Result, bool, error)
	SetRanking(ctx context.Context, key string, res score.Result) error
}

// QuoteRecorder persists completed ranking calls for history endpoints.
type QuoteRecorder interface {
	InsertQuoteRecord(q *models.QuoteRecord) error
}

// Orchestrator decides, per turn, whether to keep collecting, explain a term,
// confirm the summary or produce the final quote.
type Orchestrator struct {
	nlu      llm.Capability
	explains *llm.ExplainCache
	vendors  VendorSource
	cache    RankingCache
	quotes   QuoteRecorder
}

func NewOrchestrator(nlu llm.Capability, explains *llm.ExplainCache, vendors VendorSource, cache RankingCache, quotes QuoteRecorder) *Orchestrator {
	return &Orchestrator{
		nlu:      nlu,
		explains: explains,
		vendors:  vendors,
		cache:    cache,
		quotes:   quotes,
	}
}

// Phrases that mean "use that one" right after a term explanation.
var decisionPhrases = []string{
	"로 할게", "로 하겠", "로 해줘", "로 할래",
	"그거로", "그걸로", "네 그거",
}

// HandleTurn processes one user message against the session and returns the
// assistant's reply. It mutates the session; the caller persists it.
func (o *Orchestrator) HandleTurn(ctx context.Context, sess *Session, userMsg string) (Response, error) {
	sess.Append("user", userMsg)

	cls, err := o.nlu.ClassifyIntent(ctx, userMsg)
	if err != nil {
		logger.Warn("Intent classification failed, treating as answer",
			zap.String("session_id", sess.ID), zap.Error(err))
		cls = llm.Classification{Intent: llm.IntentAnswer}
	}
	metrics.ChatTurnsTotal.WithLabelValues(string(cls.Intent)).Inc()

	var resp Response
	switch cls.Intent {
	case llm.IntentCancel:
		sess.Active = false
		sess.State = StateDone
		resp = Response{Type: TypeCancel, Message: "견적 요청을 취소했어요. 필요하실 때 다시 불러주세요!"}

	case llm.IntentExplain:
		resp = o.handleExplain(ctx, sess, cls, userMsg)

	case llm.IntentModify:
		for _, key := range cls.Slots {
			sess.Slots.Clear(key)
		}
		sess.State = StateCollecting
		resp = o.handleAnswer(ctx, sess, userMsg)

	case llm.IntentConfirm:
		if sess.State == StateConfirming {
			resp = o.handleMatch(ctx, sess)
		} else {
			resp = o.handleAnswer(ctx, sess, userMsg)
		}

	default:
		resp = o.handleAnswer(ctx, sess, userMsg)
	}

	resp.Slots = sess.Slots
	sess.Append("assistant", assistantText(resp))
	return resp, nil
}

func (o *Orchestrator) handleAnswer(ctx context.Context, sess *Session, userMsg string) Response {
	o.extractAndMerge(ctx, sess, userMsg)

	if prompt, more := schema.NextMissing(sess.Slots); more {
		sess.State = StateCollecting
		return Response{
			Type:     TypeAsk,
			Question: prompt.Question,
			Choices:  prompt.Choices,
			Missing:  schema.Missing(sess.Slots),
		}
	}

	if valid, errs := schema.Validate(sess.Slots); !valid {
		prompt, _ := schema.NextMissing(sess.Slots)
		return Response{
			Type:     TypeAsk,
			Question: prompt.Question,
			Choices:  prompt.Choices,
			Missing:  schema.Missing(sess.Slots),
			Errors:   errs,
		}
	}

	sess.State = StateConfirming
	return Response{
		Type:    TypeConfirm,
		Summary: schema.RenderSummary(sess.Slots),
		Message: "이렇게 진행하면 될까요?",
		Choices: []string{"네 맞습니다", "수정할 부분이 있어요"},
	}
}

// extractAndMerge runs slot extraction and folds the result into the session.
// When the first pass resolves the category, a second pass re-extracts with
// the category's full slot set so a single message can fill both.
func (o *Orchestrator) extractAndMerge(ctx context.Context, sess *Session, userMsg string) {
	cat, hadCategory := sess.Slots.Category()

	extracted, err := o.nlu.ExtractSlots(ctx, userMsg, cat)
	if err != nil {
		logger.Warn("Slot extraction failed",
			zap.String("session_id", sess.ID), zap.Error(err))
		return
	}
	sess.Slots.Merge(extracted)

	if !hadCategory {
		if cat, ok := sess.Slots.Category(); ok {
			extracted, err := o.nlu.ExtractSlots(ctx, userMsg, cat)
			if err != nil {
				return
			}
			sess.Slots.Merge(extracted)
		}
	}
}

func (o *Orchestrator) handleExplain(ctx context.Context, sess *Session, cls llm.Classification, userMsg string) Response {
	facts, found := schema.ExplainTerm(cls.Term)
	if !found {
		return Response{
			Type: TypeExplain,
			Text: "어떤 용어가 궁금하신가요? 예를 들어 무광, 유광, 아트지 같은 용어를 설명해드릴 수 있어요.",
		}
	}

	text, cached := o.explains.Get(facts.Term)
	if !cached {
		polished, err := o.nlu.PolishExplanation(ctx, facts)
		if err != nil {
			logger.Warn("Explanation polish failed, using raw facts",
				zap.String("term", facts.Term), zap.Error(err))
			polished = facts.Description
		}
		text = polished
		o.explains.Set(facts.Term, text)
	}

	// "그걸로 할게요" right after an explanation is an answer in disguise.
	if containsDecision(userMsg) {
		resp := o.handleAnswer(ctx, sess, userMsg)
		resp.Term = facts.Term
		return resp
	}

	return Response{Type: TypeExplain, Term: facts.Term, Text: text}
}

func containsDecision(userMsg string) bool {
	for _, p := range decisionPhrases {
		if strings.Contains(userMsg, p) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) handleMatch(ctx context.Context, sess *Session) Response {
	if valid, errs := schema.Validate(sess.Slots); !valid {
		sess.State = StateCollecting
		prompt, _ := schema.NextMissing(sess.Slots)
		return Response{
			Type:     TypeAsk,
			Question: prompt.Question,
			Choices:  prompt.Choices,
			Missing:  schema.Missing(sess.Slots),
			Errors:   errs,
		}
	}

	res, fromCache := o.rank(ctx, sess)
	quote := report.Build(sess.Slots, res)
	sess.State = StateDone

	if o.quotes != nil && !fromCache {
		o.recordQuote(sess, res)
	}

	return Response{
		Type:    TypeMatch,
		Summary: quote.Summary,
		Message: quote.Message,
		Quote:   &quote,
	}
}

func (o *Orchestrator) rank(ctx context.Context, sess *Session) (score.Result, bool) {
	key := sess.Slots.Digest()
	if o.cache != nil {
		if res, hit, err := o.cache.GetRanking(ctx, key); err == nil && hit {
			return res, true
		}
	}

	cat, _ := sess.Slots.Category()
	vendors, err := o.vendors.ListVendorsByCategory(string(cat))
	if err != nil {
		logger.Error("Vendor lookup failed",
			zap.String("session_id", sess.ID), zap.Error(err))
		metrics.RankTotal.WithLabelValues("error").Inc()
		return score.Result{Count: 0, Items: []score.ScoredCandidate{}, All: []score.ScoredCandidate{}}, false
	}

	start := time.Now()
	res := score.Rank(sess.Slots, vendors)
	metrics.RankDuration.Observe(time.Since(start).Seconds())
	metrics.EligibleCandidates.Observe(float64(res.Count))
	if res.Count == 0 {
		metrics.RankTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.RankTotal.WithLabelValues("ok").Inc()
	}

	if o.cache != nil {
		if err := o.cache.SetRanking(ctx, key, res); err != nil {
			logger.Warn("Ranking cache write failed", zap.Error(err))
		}
	}
	return res, false
}

func (o *Orchestrator) recordQuote(sess *Session, res score.Result) {
	cat, _ := sess.Slots.Category()
	slotsJSON, err := json.Marshal(sess.Slots)
	if err != nil {
		return
	}

	rec := &models.QuoteRecord{
		ID:            uuid.NewString(),
		SessionID:     sess.ID,
		Category:      string(cat),
		SlotsJSON:     string(slotsJSON),
		EligibleCount: res.Count,
	}
	if len(res.Items) > 0 {
		rec.TopVendorID = res.Items[0].VendorID
		rec.TopScore = res.Items[0].Scores.Total
	}
	if err := o.quotes.InsertQuoteRecord(rec); err != nil {
		logger.Warn("Quote record write failed",
			zap.String("session_id", sess.ID), zap.Error(err))
	}
}

func assistantText(resp Response) string {
	switch {
	case resp.Question != "":
		return resp.Question
	case resp.Text != "":
		return resp.Text
	case resp.Message != "":
		return resp.Message
	default:
		return resp.Summary
	}
}
