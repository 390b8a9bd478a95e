package schema

// TermFacts is the curated glossary entry behind an EXPLAIN turn. The model
// only rephrases these facts; it never invents terminology.
type TermFacts struct {
	Term        string
	Description string
	UseCases    string
}

var termGlossary = map[string]TermFacts{
	"무광": {
		Term:        "무광",
		Description: "빛을 반사하지 않는 코팅 방식으로, 고급스러운 느낌을 줍니다.",
		UseCases:    "명함, 브로슈어, 고급 인쇄물",
	},
	"유광": {
		Term:        "유광",
		Description: "빛을 반사하는 코팅 방식으로, 선명하고 화려한 느낌을 줍니다.",
		UseCases:    "포스터, 전단지, 홍보물",
	},
	"스팟": {
		Term:        "스팟",
		Description: "특정 부분만 코팅하여 강조 효과를 주는 방식입니다.",
		UseCases:    "고급 명함, 특별한 디자인이 필요한 인쇄물",
	},
	"엠보싱": {
		Term:        "엠보싱",
		Description: "종이에 볼록한 패턴을 만드는 후가공 방식입니다.",
		UseCases:    "고급 명함, 초대장, 특별한 인쇄물",
	},
	"일반지": {
		Term:        "일반지",
		Description: "기본적인 종이로, 경제적이고 실용적입니다.",
		UseCases:    "일반 명함, 문서, 기본 인쇄물",
	},
	"고급지": {
		Term:        "고급지",
		Description: "품질이 좋은 종이로, 고급스러운 느낌을 줍니다.",
		UseCases:    "고급 명함, 브로슈어, 중요한 인쇄물",
	},
	"아트지": {
		Term:        "아트지",
		Description: "미술용지로, 색상 표현이 뛰어납니다.",
		UseCases:    "포스터, 아트워크, 고품질 인쇄물",
	},
	"코팅지": {
		Term:        "코팅지",
		Description: "표면에 코팅 처리가 된 종이로, 내구성과 광택이 좋습니다.",
		UseCases:    "명함, 메뉴판, 자주 만지는 인쇄물",
	},
	"합지": {
		Term:        "합지",
		Description: "여러 겹을 붙여 두껍게 만든 종이로, 튼튼하고 형태 유지가 좋습니다.",
		UseCases:    "포스터, 패키지, 두께감이 필요한 인쇄물",
	},
}

// ExplainTerm looks up the glossary entry for a print term.
func ExplainTerm(term string) (TermFacts, bool) {
	facts, ok := termGlossary[term]
	return facts, ok
}
