package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/internal/schema"
)

// Fallback implements Capability with deterministic keyword rules. It runs
// when no API key is configured and backs every test, so the dialogue flow
// stays usable and reproducible without a live model.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

var (
	quantityTokenRe = regexp.MustCompile(`^\d[\d,]*(부|개|장|매)$`)
	dueDaysTokenRe  = regexp.MustCompile(`^\d+일$`)
	moneyTokenRe    = regexp.MustCompile(`^\d[\d,]*(만원|만|천원|천|원)$`)
)

var paperTerms = []string{"일반지", "고급지", "아트지", "코팅지", "합지", "스노우지"}

var regionPrefixes = []string{"서울", "경기", "인천", "부산", "대구", "대전", "광주", "울산", "세종", "강원", "충북", "충남", "전북", "전남", "경북", "경남", "제주"}

func (f *Fallback) ExtractSlots(_ context.Context, utterance string, cat schema.Category) (map[string]string, error) {
	tokens := mergeNumericSuffixes(tokenize(utterance))
	out := make(map[string]string)

	for i, tok := range tokens {
		if _, ok := schema.ParseCategory(tok); ok && out[schema.SlotCategory] == "" {
			out[schema.SlotCategory] = tok
			continue
		}
		if quantityTokenRe.MatchString(tok) {
			out[schema.SlotQuantity] = tok
			continue
		}
		if dueDaysTokenRe.MatchString(tok) {
			out[schema.SlotDueDays] = tok
			continue
		}
		if moneyTokenRe.MatchString(tok) {
			out[schema.SlotBudget] = tok
			continue
		}
		if _, _, ok := normalize.Size(tok); ok {
			out["size"] = tok
			continue
		}
		if m := normalize.Delivery(tok); m != normalize.DeliveryUnset {
			out[schema.SlotDelivery] = tok
			continue
		}
		if strings.Contains(tok, "무광") || strings.Contains(tok, "유광") {
			out["finishing"] = tok
			continue
		}
		for _, p := range paperTerms {
			if strings.Contains(tok, p) {
				out["paper"] = p
				break
			}
		}
		for _, prefix := range regionPrefixes {
			if strings.HasPrefix(tok, prefix) {
				region := tok
				// A district token right after the province belongs to it.
				if i+1 < len(tokens) && strings.HasSuffix(tokens[i+1], "구") {
					region = tok + " " + tokens[i+1]
				}
				out[schema.SlotRegion] = region
				break
			}
		}
	}

	// Circular sticker sizes often arrive as two tokens ("원형 50mm").
	if out["size"] == "" {
		for i := 0; i+1 < len(tokens); i++ {
			joined := tokens[i] + tokens[i+1]
			if _, _, ok := normalize.Size(joined); ok {
				out["size"] = joined
				break
			}
		}
	}

	allowed := map[string]bool{schema.SlotCategory: true}
	for _, k := range schema.RequiredSlots(cat) {
		allowed[k] = true
	}
	for k := range out {
		if !allowed[k] {
			delete(out, k)
		}
	}
	return out, nil
}

var (
	explainMarkers = []string{"뭐예요", "뭐에요", "무엇", "뭔가요", "어떤 건가요", "설명", "what is", "what's"}
	modifyMarkers  = []string{"변경", "바꿔", "바꾸", "수정", "말고", "change"}
	confirmMarkers = []string{"네", "예", "좋아요", "좋습니다", "맞아요", "맞습니다", "확정", "진행", "부탁", "yes", "ok"}
	cancelMarkers  = []string{"취소", "그만", "안 할", "안할", "cancel"}
)

// modifySlotKeywords maps user vocabulary to the slot the user wants to
// change.
var modifySlotKeywords = map[string]string{
	"수량":  schema.SlotQuantity,
	"납기":  schema.SlotDueDays,
	"지역":  schema.SlotRegion,
	"예산":  schema.SlotBudget,
	"용지":  "paper",
	"종이":  "paper",
	"후가공": "finishing",
	"코팅":  "coating",
	"사이즈": "size",
	"크기":  "size",
}

func (f *Fallback) ClassifyIntent(_ context.Context, utterance string) (Classification, error) {
	s := strings.ToLower(strings.TrimSpace(utterance))

	if containsAny(s, cancelMarkers) {
		return Classification{Intent: IntentCancel}, nil
	}

	if containsAny(s, explainMarkers) || strings.HasSuffix(s, "?") {
		for _, tok := range tokenize(utterance) {
			tok = strings.TrimRight(tok, "?이가은는")
			if _, ok := schema.ExplainTerm(tok); ok {
				return Classification{Intent: IntentExplain, Term: tok}, nil
			}
		}
		if containsAny(s, explainMarkers) {
			return Classification{Intent: IntentExplain}, nil
		}
	}

	if containsAny(s, modifyMarkers) {
		var slots []string
		for kw, key := range modifySlotKeywords {
			if strings.Contains(s, kw) {
				slots = append(slots, key)
			}
		}
		return Classification{Intent: IntentModify, Slots: slots}, nil
	}

	if containsAny(s, confirmMarkers) && len([]rune(s)) <= 12 {
		return Classification{Intent: IntentConfirm}, nil
	}

	return Classification{Intent: IntentAnswer}, nil
}

func (f *Fallback) PolishExplanation(_ context.Context, facts schema.TermFacts) (string, error) {
	return fmt.Sprintf("%s은(는) %s 주로 %s에 많이 사용됩니다.",
		facts.Term, facts.Description, facts.UseCases), nil
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

var numericTokenRe = regexp.MustCompile(`^\d[\d,]*$`)
var suffixTokenRe = regexp.MustCompile(`^(부|개|장|매|만원|만|천원|천|원|일|mm)$`)

// mergeNumericSuffixes re-joins a number token with a counting suffix the
// tokenizer split off, so "500 부" and "500부" classify identically.
func mergeNumericSuffixes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if numericTokenRe.MatchString(tokens[i]) && i+1 < len(tokens) && suffixTokenRe.MatchString(tokens[i+1]) {
			out = append(out, tokens[i]+tokens[i+1])
			i++
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// tokenize splits an utterance into word tokens. The prose tokenizer handles
// mixed Korean/English/number runs better than a bare whitespace split;
// whitespace fields are the safety net if document construction fails.
func tokenize(utterance string) []string {
	doc, err := prose.NewDocument(utterance,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return strings.Fields(utterance)
	}
	tokens := doc.Tokens()
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if t := strings.TrimSpace(tok.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
