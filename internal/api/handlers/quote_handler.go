package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/dialogue"
	"github.com/oneq/backend/internal/metrics"
	"github.com/oneq/backend/internal/report"
	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/score"
	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

// QuoteHistorySource reads recorded quotes.
type QuoteHistorySource interface {
	GetQuoteHistory(sessionID string, limit int) ([]models.QuoteRecord, error)
}

// QuoteHandler ranks a fully specified requirement set directly, without the
// chat flow. Integrations that collect requirements themselves call this.
type QuoteHandler struct {
	vendors dialogue.VendorSource
	cache   dialogue.RankingCache
	history QuoteHistorySource
}

func NewQuoteHandler(vendors dialogue.VendorSource, cache dialogue.RankingCache, history QuoteHistorySource) *QuoteHandler {
	return &QuoteHandler{vendors: vendors, cache: cache, history: history}
}

// HandleRank scores and ranks vendors for the given slots.
func (h *QuoteHandler) HandleRank(c *fiber.Ctx) error {
	var req struct {
		Slots map[string]string `json:"slots"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	slots := schema.Slots{}.Merge(req.Slots)
	cat, ok := slots.Category()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "A valid category slot is required",
		})
	}

	key := slots.Digest()
	if h.cache != nil {
		if res, hit, err := h.cache.GetRanking(c.Context(), key); err == nil && hit {
			return c.JSON(rankResponse(slots, res))
		}
	}

	vendors, err := h.vendors.ListVendorsByCategory(string(cat))
	if err != nil {
		logger.Error("Failed to load vendors", zap.Error(err))
		metrics.RankTotal.WithLabelValues("error").Inc()
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load vendors",
		})
	}

	start := time.Now()
	res := score.Rank(slots, vendors)
	metrics.RankDuration.Observe(time.Since(start).Seconds())
	metrics.EligibleCandidates.Observe(float64(res.Count))
	if res.Count == 0 {
		metrics.RankTotal.WithLabelValues("empty").Inc()
	} else {
		metrics.RankTotal.WithLabelValues("ok").Inc()
	}

	if h.cache != nil {
		if err := h.cache.SetRanking(c.Context(), key, res); err != nil {
			logger.Warn("Ranking cache write failed", zap.Error(err))
		}
	}

	return c.JSON(rankResponse(slots, res))
}

// GetQuoteHistory lists recorded quotes for one session.
func (h *QuoteHandler) GetQuoteHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	records, err := h.history.GetQuoteHistory(sessionID, c.QueryInt("limit", 20))
	if err != nil {
		logger.Error("Failed to load quote history",
			zap.String("session_id", sessionID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load quote history",
		})
	}

	out := make([]fiber.Map, 0, len(records))
	for _, r := range records {
		out = append(out, fiber.Map{
			"id":             r.ID,
			"category":       r.Category,
			"eligible_count": r.EligibleCount,
			"top_vendor_id":  r.TopVendorID,
			"top_score":      r.TopScore,
			"created_at":     r.CreatedAt.Unix(),
		})
	}
	return c.JSON(fiber.Map{"history": out})
}

func rankResponse(slots schema.Slots, res score.Result) fiber.Map {
	return fiber.Map{
		"count":   res.Count,
		"items":   res.Items,
		"all":     res.All,
		"message": report.Render(slots, res),
	}
}
