package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/dto"
	"github.com/jansankalp/grievance-service/internal/auth"
	"github.com/jansankalp/grievance-service/internal/domain"
	"github.com/jansankalp/grievance-service/internal/repository"
	"github.com/jansankalp/grievance-service/internal/service"
	apperrors "github.com/jansankalp/grievance-service/pkg/util"
)

// AdminHandler exposes oversight endpoints.
type AdminHandler struct {
	admin      *service.AdminService
	assignment *service.AssignmentService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, assignment *service.AssignmentService) *AdminHandler {
	return &AdminHandler{admin: admin, assignment: assignment}
}

// ListReports GET /admin/reports.
func (h *AdminHandler) ListReports(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseAdminReportQuery(c)
	reports, err := h.admin.ListReports(c.UserContext(), principal.User, filter)
	if err != nil {
		return err
	}
	items := make([]dto.ReportSummary, 0, len(reports))
	for i := range reports {
		items = append(items, reportSummary(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AssignReport POST /admin/reports/assign.
func (h *AdminHandler) AssignReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReportID == "" || req.OfficerID == "" {
		return apperrors.NewValidationError("report_id and officer_id required", nil)
	}

	report, officer, err := h.assignment.Assign(c.UserContext(), principal.User, req.ReportID, req.OfficerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"report":        reportSummary(report),
		"assigned_to":   officer.Name,
		"assignee_id":   officer.ID,
		"assignee_role": officer.Role,
	}})
}

// VerifyReport PATCH /admin/reports/:id/verify.
func (h *AdminHandler) VerifyReport(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	report, err := h.admin.Execute(c.UserContext(), principal.User, service.VerifyReportCommand{
		ReportID: c.Params("id"),
		Status:   req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

// OverrideStatus POST /admin/reports/:id/override.
func (h *AdminHandler) OverrideStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	report, err := h.admin.Execute(c.UserContext(), principal.User, service.OverrideStatusCommand{
		ReportID: c.Params("id"),
		Status:   req.Status,
		Note:     req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportSummary(report)})
}

func parseAdminReportQuery(c *fiber.Ctx) repository.ReportFilter {
	filter := repository.ReportFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ReportStatus(strings.TrimSpace(part)))
		}
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if officerID := c.Query("assigned_to"); officerID != "" {
		filter.AssignedToID = &officerID
	}
	filter.Limit, filter.Offset = parsePagination(c)
	return filter
}
