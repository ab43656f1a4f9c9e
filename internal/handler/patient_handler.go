package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/medmap/admin-api/internal/dto"
	"github.com/medmap/admin-api/internal/service"
	"github.com/medmap/admin-api/internal/utils"
	"github.com/medmap/admin-api/pkg/identity"
)

// PatientHandler wires patient management endpoints.
type PatientHandler struct {
	service service.PatientService
	logger  zerolog.Logger
}

// NewPatientHandler constructs the handler.
func NewPatientHandler(service service.PatientService, logger zerolog.Logger) *PatientHandler {
	return &PatientHandler{
		service: service,
		logger:  logger.With().Str("component", "patient_handler").Logger(),
	}
}

// Register attaches patient routes to the router group.
func (h *PatientHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Post("/:id/reset-password", h.resetPassword)
}

func (h *PatientHandler) list(c *fiber.Ctx) error {
	req := dto.PatientListRequest{
		Search: c.Query("search"),
	}

	patients, err := h.service.List(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list patients")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list patients")
	}

	return utils.SendSuccess(c, "patients retrieved", patients)
}

func (h *PatientHandler) get(c *fiber.Ctx) error {
	patient, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrPatientNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "patient not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch patient")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	return utils.SendSuccess(c, "patient retrieved", patient)
}

func (h *PatientHandler) create(c *fiber.Ctx) error {
	var payload dto.PatientCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	patient, err := h.service.Create(c.Context(), payload, actor)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		case errors.Is(err, identity.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, "email already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create patient")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create patient")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "patient created", patient)
}

func (h *PatientHandler) resetPassword(c *fiber.Ctx) error {
	var payload dto.PatientPasswordResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := activityActorFromContext(c)
	if err := h.service.ResetPassword(c.Context(), c.Params("id"), payload, actor); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendValidationError(c, err)
		case errors.Is(err, service.ErrPatientNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "patient not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset patient password")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset patient password")
		}
	}

	return utils.SendSuccess(c, "password reset", fiber.Map{"id": c.Params("id")})
}
