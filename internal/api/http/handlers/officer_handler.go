package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/dto"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/service"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// OfficerHandler exposes the handler workflow.
type OfficerHandler struct {
	resolution *service.ResolutionService
}

// NewOfficerHandler constructs handler.
func NewOfficerHandler(resolution *service.ResolutionService) *OfficerHandler {
	return &OfficerHandler{resolution: resolution}
}

// ListAssigned GET /officer/reports.
func (h *OfficerHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)
	reports, err := h.resolution.ListAssigned(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateStatus PUT /officer/reports/status.
func (h *OfficerHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReportID == "" || req.Status == "" {
		return apperrors.NewValidationError("report_id and status required", nil)
	}

	report, err := h.resolution.UpdateStatus(c.UserContext(), principal.User, service.StatusUpdateInput{
		ReportID:         req.ReportID,
		Status:           req.Status,
		Note:             req.OfficerNote,
		EvidenceImageURL: req.VerificationImageURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}
