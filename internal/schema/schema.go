// Package schema owns the per-category requirement flows: which slots a quote
// needs, in what order they are asked, and the prompt text and choices shown
// for each. It also carries the slot container shared by the dialogue layer
// and the scoring engine.
package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/oneq/backend/internal/normalize"
	"github.com/oneq/backend/pkg/utils"
)

// Category is a product type being quoted.
type Category string

const (
	CategoryBusinessCard Category = "business_card"
	CategoryBanner       Category = "banner"
	CategoryPoster       Category = "poster"
	CategorySticker      Category = "sticker"
	CategoryBannerLarge  Category = "banner_large"
	CategoryBrochure     Category = "brochure"
)

var categoryNames = map[string]Category{
	"business_card": CategoryBusinessCard,
	"card":          CategoryBusinessCard,
	"명함":            CategoryBusinessCard,
	"banner":        CategoryBanner,
	"배너":            CategoryBanner,
	"poster":        CategoryPoster,
	"포스터":           CategoryPoster,
	"sticker":       CategorySticker,
	"스티커":           CategorySticker,
	"banner_large":  CategoryBannerLarge,
	"banner2":       CategoryBannerLarge,
	"현수막":           CategoryBannerLarge,
	"brochure":      CategoryBrochure,
	"브로슈어":          CategoryBrochure,
}

var categoryKorean = map[Category]string{
	CategoryBusinessCard: "명함",
	CategoryBanner:       "배너",
	CategoryPoster:       "포스터",
	CategorySticker:      "스티커",
	CategoryBannerLarge:  "현수막",
	CategoryBrochure:     "브로슈어",
}

// ParseCategory accepts both canonical codes and the Korean display names.
func ParseCategory(v string) (Category, bool) {
	c, ok := categoryNames[strings.ToLower(strings.TrimSpace(v))]
	return c, ok
}

// Korean returns the display name used in prompts and reports.
func (c Category) Korean() string {
	if name, ok := categoryKorean[c]; ok {
		return name
	}
	return string(c)
}

// Universal slot keys present for every category.
const (
	SlotCategory = "category"
	SlotQuantity = "quantity"
	SlotDueDays  = "due_days"
	SlotRegion   = "region"
	SlotBudget   = "budget"
	SlotDelivery = "delivery_method"
)

// Slots is one quote request's collected requirement values, keyed by slot
// name. Values are stored normalized. A filled slot is never overwritten by a
// later merge; corrections go through Clear first.
type Slots map[string]string

func (s Slots) Get(key string) string {
	return s[key]
}

func (s Slots) Has(key string) bool {
	return s[key] != ""
}

// Clear removes one slot so the dialogue can re-ask it. This is the only
// sanctioned way to change a filled slot.
func (s Slots) Clear(key string) {
	delete(s, key)
}

func (s Slots) Category() (Category, bool) {
	return ParseCategory(s[SlotCategory])
}

// Quantity returns the normalized quantity, defaulting to 1.
func (s Slots) Quantity() int {
	if n, ok := normalize.Quantity(s[SlotQuantity]); ok && n > 0 {
		return n
	}
	return 1
}

// DueDays returns the requested due date in days from now, defaulting to 3.
func (s Slots) DueDays() int {
	if n, ok := normalize.DueDays(s[SlotDueDays]); ok && n > 0 {
		return n
	}
	return 3
}

// Budget returns the normalized budget in won, 0 when unset.
func (s Slots) Budget() int {
	return normalize.Money(s[SlotBudget])
}

// Digest produces a stable hash of the slot set. Equal requirement sets hash
// identically regardless of fill order, which makes it usable as a cache key.
func (s Slots) Digest() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s[k])
		b.WriteByte(';')
	}
	return utils.HashString(b.String())
}

func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge folds newly extracted values into s, normalizing the universal slots
// and skipping anything already filled. Returns s for chaining.
func (s Slots) Merge(incoming map[string]string) Slots {
	for k, v := range incoming {
		v = strings.TrimSpace(v)
		if v == "" || s.Has(k) {
			continue
		}
		switch k {
		case SlotQuantity:
			if n, ok := normalize.Quantity(v); ok {
				s[k] = strconv.Itoa(n)
			}
		case SlotDueDays:
			if n, ok := normalize.DueDays(v); ok {
				s[k] = strconv.Itoa(n)
			}
		case SlotBudget:
			if n := normalize.Money(v); n > 0 {
				s[k] = strconv.Itoa(n)
			}
		case SlotRegion:
			if r := normalize.Region(v); r != "" {
				s[k] = r
			}
		case SlotDelivery:
			if m := normalize.Delivery(v); m != normalize.DeliveryUnset {
				s[k] = string(m)
			}
		case SlotCategory:
			if c, ok := ParseCategory(v); ok {
				s[k] = string(c)
			}
		default:
			s[k] = v
		}
	}
	return s
}

// SlotPrompt is one step of a category's collection flow.
type SlotPrompt struct {
	Key      string
	Question string
	Choices  []string
}

var commonTail = []SlotPrompt{
	{SlotDueDays, "납기는 며칠 후면 좋을까요? (예: 1일, 2일, 3일, 5일, 7일)",
		[]string{"1일", "2일", "3일", "5일", "7일"}},
	{SlotRegion, "지역은 어디로 설정할까요? (예: 서울-중구, 서울-종로, 경기-성남)",
		[]string{"서울-중구", "서울-종로", "경기-성남"}},
	{SlotBudget, "예산은 얼마로 설정하시겠어요? (예: 5만원, 10만원, 20만원)",
		[]string{"5만원", "10만원", "20만원"}},
}

var categoryFlows = map[Category][]SlotPrompt{
	CategoryBusinessCard: withTail(
		SlotPrompt{"paper", "명함 용지 종류를 선택해주세요. (예: 일반지, 고급지, 아트지, 코팅지)",
			[]string{"일반지", "고급지", "아트지", "코팅지"}},
		SlotPrompt{"printing", "인쇄 방식을 선택해주세요. (예: 단면 흑백, 단면 컬러, 양면 흑백, 양면 컬러)",
			[]string{"단면 흑백", "단면 컬러", "양면 흑백", "양면 컬러"}},
		SlotPrompt{"finishing", "후가공 옵션을 선택해주세요. (예: 무광, 유광, 스팟, 엠보싱)",
			[]string{"무광", "유광", "스팟", "엠보싱"}},
		SlotPrompt{SlotQuantity, "몇 부 필요하신가요? (예: 100부, 200부, 500부, 1000부)",
			[]string{"100부", "200부", "500부", "1000부"}},
	),
	CategoryBanner: withTail(
		SlotPrompt{"size", "배너 사이즈를 선택해주세요. (예: 600x1800mm, 850x2000mm)",
			[]string{"600x1800mm", "850x2000mm"}},
		SlotPrompt{"stand", "배너 거치대 종류를 선택해주세요. (예: X자형, A자형, 롤업형)",
			[]string{"X자형", "A자형", "롤업형"}},
		SlotPrompt{SlotQuantity, "몇 개 필요하신가요? (예: 1개, 2개, 5개)",
			[]string{"1개", "2개", "5개"}},
	),
	CategoryPoster: withTail(
		SlotPrompt{"paper", "포스터 용지 종류를 선택해주세요. (예: 일반지, 아트지, 코팅지, 합지)",
			[]string{"일반지", "아트지", "코팅지", "합지"}},
		SlotPrompt{"coating", "코팅 종류를 선택해주세요. (예: 무광, 유광, 스팟, 없음)",
			[]string{"무광", "유광", "스팟", "없음"}},
		SlotPrompt{SlotQuantity, "몇 부 필요하신가요? (예: 10부, 50부, 100부, 200부)",
			[]string{"10부", "50부", "100부", "200부"}},
	),
	CategorySticker: withTail(
		SlotPrompt{"type", "스티커 종류를 선택해주세요. (예: 일반스티커, 방수스티커, 반사스티커, 전사스티커)",
			[]string{"일반스티커", "방수스티커", "반사스티커", "전사스티커"}},
		SlotPrompt{"size", "스티커 사이즈를 선택해주세요. (예: 50x50mm, 100x100mm / 원형은 지름 예: 원형 50mm, Ø50mm)",
			[]string{"50x50mm", "100x100mm", "원형 50mm"}},
		SlotPrompt{SlotQuantity, "몇 개 필요하신가요? (예: 100개, 500개, 1000개)",
			[]string{"100개", "500개", "1000개"}},
	),
	CategoryBannerLarge: withTail(
		SlotPrompt{"size", "현수막 사이즈를 선택해주세요. (예: 1000x3000mm, 2000x4000mm)",
			[]string{"1000x3000mm", "2000x4000mm"}},
		SlotPrompt{"processing", "현수막 추가가공 종류를 선택해주세요. (예: 고리, 지퍼, 없음)",
			[]string{"고리", "지퍼", "없음"}},
		SlotPrompt{SlotQuantity, "몇 개 필요하신가요? (예: 1개, 2개, 5개)",
			[]string{"1개", "2개", "5개"}},
	),
	CategoryBrochure: withTail(
		SlotPrompt{"paper", "브로슈어 용지 종류를 선택해주세요. (예: 일반지, 아트지, 코팅지, 합지)",
			[]string{"일반지", "아트지", "코팅지", "합지"}},
		SlotPrompt{"size", "브로슈어 사이즈를 선택해주세요. (예: A4, A5, B5)",
			[]string{"A4", "A5", "B5"}},
		SlotPrompt{"folding", "브로슈어 접지 종류를 선택해주세요. (예: 2단접지, 3단접지, Z접지, 없음)",
			[]string{"2단접지", "3단접지", "Z접지", "없음"}},
		SlotPrompt{SlotQuantity, "몇 부 필요하신가요? (예: 100부, 200부, 500부, 1000부)",
			[]string{"100부", "200부", "500부", "1000부"}},
	),
}

func withTail(prompts ...SlotPrompt) []SlotPrompt {
	return append(prompts, commonTail...)
}

// RequiredSlots returns the ordered slot keys for a category.
func RequiredSlots(c Category) []string {
	flow := categoryFlows[c]
	keys := make([]string, 0, len(flow))
	for _, p := range flow {
		keys = append(keys, p.Key)
	}
	return keys
}

// Missing lists the not-yet-filled required slots, in flow order.
func Missing(s Slots) []string {
	cat, ok := s.Category()
	if !ok {
		return []string{SlotCategory}
	}
	var out []string
	for _, key := range RequiredSlots(cat) {
		if !s.Has(key) {
			out = append(out, key)
		}
	}
	return out
}

// NextMissing walks the category flow and returns the first unfilled slot's
// prompt. ok=false means every slot is filled and the request is ready to
// quote. The scan is a deterministic linear walk so an already answered slot
// is never asked again.
func NextMissing(s Slots) (SlotPrompt, bool) {
	cat, found := s.Category()
	if !found {
		return SlotPrompt{
			Key:      SlotCategory,
			Question: "어떤 인쇄물이 필요하신가요? (예: 명함, 배너, 포스터, 스티커, 현수막, 브로슈어)",
			Choices:  []string{"명함", "배너", "포스터", "스티커", "현수막", "브로슈어"},
		}, true
	}
	for _, p := range categoryFlows[cat] {
		if !s.Has(p.Key) {
			return p, true
		}
	}
	return SlotPrompt{}, false
}

// Validate checks the filled slots for contract violations before they reach
// the ranking engine. It returns per-slot error messages.
func Validate(s Slots) (bool, map[string]string) {
	errs := make(map[string]string)
	for _, key := range Missing(s) {
		errs[key] = "필수 항목입니다."
	}
	if s.Has(SlotQuantity) {
		if n, ok := normalize.Quantity(s[SlotQuantity]); !ok || n <= 0 {
			errs[SlotQuantity] = "수량은 1 이상의 정수여야 합니다."
		}
	}
	if s.Has(SlotDueDays) {
		if n, ok := normalize.DueDays(s[SlotDueDays]); !ok || n <= 0 {
			errs[SlotDueDays] = "납기는 1 이상의 정수일로 입력해주세요."
		}
	}
	return len(errs) == 0, errs
}

var summaryOrder = []struct{ key, label string }{
	{"paper", "용지"},
	{"printing", "인쇄"},
	{"finishing", "후가공"},
	{"coating", "코팅"},
	{"type", "종류"},
	{"stand", "거치대"},
	{"processing", "가공"},
	{"folding", "접지"},
	{"size", "사이즈"},
}

// RenderSummary formats the collected slots for the confirmation turn.
func RenderSummary(s Slots) string {
	var lines []string
	if cat, ok := s.Category(); ok {
		lines = append(lines, fmt.Sprintf("항목: %s", cat.Korean()))
	}
	for _, entry := range summaryOrder {
		if s.Has(entry.key) {
			lines = append(lines, fmt.Sprintf("%s: %s", entry.label, s[entry.key]))
		}
	}
	if s.Has(SlotQuantity) {
		lines = append(lines, fmt.Sprintf("수량: %d부", s.Quantity()))
	}
	if s.Has(SlotRegion) {
		lines = append(lines, fmt.Sprintf("지역: %s", s[SlotRegion]))
	}
	if s.Has(SlotDueDays) {
		lines = append(lines, fmt.Sprintf("납기: %d일", s.DueDays()))
	}
	if s.Has(SlotBudget) {
		lines = append(lines, fmt.Sprintf("예산: %s원", groupDigits(s.Budget())))
	}
	return strings.Join(lines, "\n")
}

func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
