package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/api/dto"
	"github.com/estatehub/estate-service/internal/service"
)

// AppointmentsHandler manages viewing appointments.
type AppointmentsHandler struct {
	service *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointmentService *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{service: appointmentService}
}

// Create POST /api/appointments.
func (h *AppointmentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateAppointmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	appointment, err := h.service.Create(c.UserContext(), service.CreateAppointmentInput{
		PropertyID:    req.PropertyID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		PreferredDate: req.PreferredDate,
		PreferredTime: req.PreferredTime,
		Message:       req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":     "Appointment request submitted successfully",
		"appointment": dto.NewAppointmentResponse(appointment),
	})
}

// List GET /api/appointments.
func (h *AppointmentsHandler) List(c *fiber.Ctx) error {
	appointments, err := h.service.List(c.UserContext(), identity(c), service.AppointmentListInput{
		Status:     queryString(c, "status"),
		PropertyID: queryString(c, "propertyId"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentList(appointments))
}

// Stats GET /api/appointments/stats.
func (h *AppointmentsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), identity(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentStats(stats))
}

// Get GET /api/appointments/:id.
func (h *AppointmentsHandler) Get(c *fiber.Ctx) error {
	appointment, err := h.service.Get(c.UserContext(), identity(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAppointmentResponse(appointment))
}

// UpdateStatus PUT /api/appointments/:id and PUT /api/appointments/:id/status.
func (h *AppointmentsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	appointment, err := h.service.UpdateStatus(c.UserContext(), identity(c), c.Params("id"), service.UpdateAppointmentStatusInput{Status: req.Status})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Appointment status updated successfully",
		"appointment": dto.NewAppointmentResponse(appointment),
	})
}

// Delete DELETE /api/appointments/:id.
func (h *AppointmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), identity(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Appointment deleted successfully"})
}
