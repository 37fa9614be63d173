package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/api/dto"
	"github.com/estatehub/estate-service/internal/service"
)

// InquiriesHandler manages buyer inquiries.
type InquiriesHandler struct {
	service *service.InquiryService
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(inquiryService *service.InquiryService) *InquiriesHandler {
	return &InquiriesHandler{service: inquiryService}
}

// Create POST /api/inquiries.
func (h *InquiriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateInquiryRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	inquiry, err := h.service.Create(c.UserContext(), service.CreateInquiryInput{
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Inquiry submitted successfully",
		"inquiry": dto.NewInquiryResponse(inquiry),
	})
}

// List GET /api/inquiries.
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	inquiries, err := h.service.List(c.UserContext(), identity(c), service.InquiryListInput{
		Status:     queryString(c, "status"),
		PropertyID: queryString(c, "propertyId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInquiryList(inquiries))
}

// Stats GET /api/inquiries/stats.
func (h *InquiriesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInquiryStats(stats))
}

// Get GET /api/inquiries/:id.
func (h *InquiriesHandler) Get(c *fiber.Ctx) error {
	inquiry, err := h.service.Get(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewInquiryResponse(inquiry))
}

// UpdateStatus PUT /api/inquiries/:id and PUT /api/inquiries/:id/status.
func (h *InquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	inquiry, err := h.service.UpdateStatus(c.UserContext(), identity(c), c.Params("id"), service.UpdateInquiryStatusInput{Status: req.Status})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Inquiry status updated successfully",
		"inquiry": dto.NewInquiryResponse(inquiry),
	})
}

// Delete DELETE /api/inquiries/:id.
func (h *InquiriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Inquiry deleted successfully"})
}
