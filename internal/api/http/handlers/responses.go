package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jansankalp/grievance-service/internal/api/dto"
	"github.com/jansankalp/grievance-service/internal/domain"
)

func reportSummary(report *domain.Report) dto.ReportSummary {
	return dto.ReportSummary{
		ID:        report.ID,
		TicketID:  report.TicketID,
		Title:     report.Title,
		Category:  report.Category,
		Severity:  report.Severity,
		Priority:  report.Priority(),
		Status:    report.Status,
		CreatedAt: report.CreatedAt,
		UpdatedAt: report.UpdatedAt,
	}
}

func reportDetail(report *domain.Report, remarks []domain.Remark) dto.ReportDetailResponse {
	remarkResponses := make([]dto.RemarkResponse, 0, len(remarks))
	for _, remark := range remarks {
		remarkResponses = append(remarkResponses, dto.RemarkResponse{
			ID:         remark.ID,
			Text:       remark.Text,
			AuthorName: remark.AuthorName,
			AuthorRole: remark.AuthorRole,
			ImageURL:   remark.ImageURL,
			CreatedAt:  remark.CreatedAt,
		})
	}

	resp := dto.ReportDetailResponse{
		ID:           report.ID,
		TicketID:     report.TicketID,
		Title:        report.Title,
		Description:  report.Description,
		Category:     report.Category,
		Severity:     report.Severity,
		Priority:     report.Priority(),
		Status:       report.Status,
		Latitude:     report.Latitude,
		Longitude:    report.Longitude,
		ImageURL:     report.ImageURL,
		AuthorID:     report.AuthorID,
		AssignedToID: report.AssignedToID,
		DepartmentID: report.DepartmentID,
		State:        report.State,
		District:     report.District,
		City:         report.City,
		Ward:         report.Ward,
		Remarks:      remarkResponses,
		CreatedAt:    report.CreatedAt,
		UpdatedAt:    report.UpdatedAt,
	}
	if report.AIVerification != nil {
		resp.AIVerification = &dto.AIVerificationResponse{
			Verified:  report.AIVerification.Verified,
			Score:     report.AIVerification.Score,
			Reasoning: report.AIVerification.Reasoning,
			Summary:   report.AIVerification.Summary,
			CreatedAt: report.AIVerification.CreatedAt,
		}
	}
	return resp
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		ReportID:  n.ReportID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func parsePagination(c *fiber.Ctx) (limit, offset int) {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
