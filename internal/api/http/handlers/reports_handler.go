package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/dto"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/service"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// ReportsHandler manages citizen-facing report endpoints.
type ReportsHandler struct {
	intake     *service.IntakeService
	resolution *service.ResolutionService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(intake *service.IntakeService, resolution *service.ResolutionService) *ReportsHandler {
	return &ReportsHandler{intake: intake, resolution: resolution}
}

// CreateReport POST /reports.
func (h *ReportsHandler) CreateReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		AuthorID:    principal.User.ID,
	}
	report, err := h.intake.Submit(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportSummary(report)})
}

// ListReports GET /reports.
func (h *ReportsHandler) ListReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit, offset := parsePagination(c)
	reports, err := h.intake.ListForUser(c.UserContext(), principal.User.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetReport GET /reports/:id.
func (h *ReportsHandler) GetReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	report, err := h.intake.GetForUser(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	remarks, err := h.resolution.Remarks(c.UserContext(), report.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportDetail(report, remarks)})
}
