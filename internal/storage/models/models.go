package models

import "time"

// Vendor is one registered print shop. Capability fields are loosely
// structured text exactly as vendors entered them; the scoring engine matches
// against them with substring heuristics rather than normalized data.
type Vendor struct {
	ID                 int64
	Name               string
	Phone              string
	Address            string
	Email              string
	Description        string
	Active             bool
	RegistrationStatus string
	Verified           bool
	Categories         []string
	Capabilities       map[string]Capability
	ProductionTime     string
	DeliveryOptions    string
	Profile            *Profile
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// RegistrationCompleted is the terminal onboarding status; only vendors that
// reached it are eligible for ranking.
const RegistrationCompleted = "completed"

// Capability is the free-text option catalog a vendor declared for one
// category.
type Capability struct {
	Materials  string
	Finishing  string
	Sizes      string
	PriceTable string
}

// Profile is the vendor's optional declarative override blob: category
// pricing rules, a lead-time profile and a daily processing capacity. Any nil
// or zero field falls back to the built-in category defaults.
type Profile struct {
	Pricing       map[string]PricingOverride
	Leadtime      *LeadtimeOverride
	DailyCapacity int
}

// PricingOverride overrides individual pricing-rule fields for one category.
// Pointer fields distinguish "not declared" from an explicit zero.
type PricingOverride struct {
	Mode               string
	RatePerCM2         *float64
	BaseUnitPrice      *float64
	ColorMultiplier    *float64
	DuplexMultiplier   *float64
	FinishingSurcharge map[string]float64
}

// LeadtimeOverride overrides individual lead-time profile fields.
type LeadtimeOverride struct {
	BaseHours         *float64
	Per100Units       *float64
	RushMultiplier    *float64
	FinishingAddHours map[string]float64
}

// ChatSession is one quote conversation's persisted state. History and Slots
// are stored as JSON blobs; the dialogue layer owns their shape.
type ChatSession struct {
	ID        string
	UserID    string
	History   string
	Slots     string
	State     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuoteRecord captures one completed ranking call for history endpoints.
type QuoteRecord struct {
	ID            string
	SessionID     string
	Category      string
	SlotsJSON     string
	EligibleCount int
	TopVendorID   int64
	TopScore      int
	LatencyMS     int
	CreatedAt     time.Time
}
