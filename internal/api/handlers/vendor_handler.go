package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/schema"
	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

// VendorStore is the storage surface the vendor endpoints need.
type VendorStore interface {
	ListVendors() ([]*models.Vendor, error)
	ListVendorsByCategory(category string) ([]*models.Vendor, error)
	GetVendor(id int64) (*models.Vendor, error)
	InsertVendor(v *models.Vendor) error
	UpdateVendorStatus(id int64, status string, active bool) error
}

// RankingInvalidator drops memoized rankings after the vendor pool changes.
type RankingInvalidator interface {
	InvalidateRankings(ctx context.Context) error
}

type VendorHandler struct {
	store VendorStore
	cache RankingInvalidator
}

func NewVendorHandler(store VendorStore, cache RankingInvalidator) *VendorHandler {
	return &VendorHandler{store: store, cache: cache}
}

func (h *VendorHandler) ListVendors(c *fiber.Ctx) error {
	var (
		vendors []*models.Vendor
		err     error
	)

	if category := c.Query("category"); category != "" {
		cat, ok := schema.ParseCategory(category)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown category",
			})
		}
		vendors, err = h.store.ListVendorsByCategory(string(cat))
	} else {
		vendors, err = h.store.ListVendors()
	}
	if err != nil {
		logger.Error("Failed to list vendors", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list vendors",
		})
	}

	out := make([]fiber.Map, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, vendorSummary(v))
	}
	return c.JSON(fiber.Map{"count": len(out), "vendors": out})
}

func (h *VendorHandler) GetVendor(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vendor id",
		})
	}

	v, err := h.store.GetVendor(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Vendor not found",
		})
	}

	detail := vendorSummary(v)
	detail["email"] = v.Email
	detail["description"] = v.Description
	detail["capabilities"] = v.Capabilities
	return c.JSON(detail)
}

// RegisterVendor accepts a new shop. Registrations start in pending status;
// they become rankable only after review completes.
func (h *VendorHandler) RegisterVendor(c *fiber.Ctx) error {
	var req struct {
		Name            string                       `json:"name"`
		Phone           string                       `json:"phone"`
		Address         string                       `json:"address"`
		Email           string                       `json:"email"`
		Description     string                       `json:"description"`
		Categories      []string                     `json:"categories"`
		Capabilities    map[string]models.Capability `json:"capabilities"`
		ProductionTime  string                       `json:"production_time"`
		DeliveryOptions string                       `json:"delivery_options"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" || len(req.Categories) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and categories are required",
		})
	}
	for _, cat := range req.Categories {
		if _, ok := schema.ParseCategory(cat); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown category: " + cat,
			})
		}
	}

	v := models.Vendor{
		Name:               req.Name,
		Phone:              req.Phone,
		Address:            req.Address,
		Email:              req.Email,
		Description:        req.Description,
		Active:             true,
		RegistrationStatus: "pending",
		Categories:         normalizeCategories(req.Categories),
		Capabilities:       req.Capabilities,
		ProductionTime:     req.ProductionTime,
		DeliveryOptions:    req.DeliveryOptions,
	}
	if err := h.store.InsertVendor(&v); err != nil {
		logger.Error("Failed to register vendor", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register vendor",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"vendor_id": v.ID,
		"status":    v.RegistrationStatus,
	})
}

// ApproveVendor completes a pending registration.
func (h *VendorHandler) ApproveVendor(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vendor id",
		})
	}

	if err := h.store.UpdateVendorStatus(id, models.RegistrationCompleted, true); err != nil {
		logger.Error("Failed to approve vendor", zap.Int64("vendor_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to approve vendor",
		})
	}
	if h.cache != nil {
		if err := h.cache.InvalidateRankings(c.Context()); err != nil {
			logger.Warn("Failed to invalidate ranking cache", zap.Error(err))
		}
	}
	return c.JSON(fiber.Map{"vendor_id": id, "status": models.RegistrationCompleted})
}

func vendorSummary(v *models.Vendor) fiber.Map {
	return fiber.Map{
		"id":                  v.ID,
		"name":                v.Name,
		"phone":               v.Phone,
		"address":             v.Address,
		"active":              v.Active,
		"registration_status": v.RegistrationStatus,
		"verified":            v.Verified,
		"categories":          v.Categories,
		"production_time":     v.ProductionTime,
		"delivery_options":    v.DeliveryOptions,
	}
}

func normalizeCategories(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		if cat, ok := schema.ParseCategory(c); ok {
			out = append(out, string(cat))
		}
	}
	return out
}
