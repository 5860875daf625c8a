package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// ReviewReportController 口コミ通報の受付と対応
type ReviewReportController struct {
	reportService service.ReviewReportService
}

func NewReviewReportController(reportService service.ReviewReportService) *ReviewReportController {
	return &ReviewReportController{
		reportService: reportService,
	}
}

func (ctrl *ReviewReportController) respondReportServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrReportNotFound):
		apperrors.NotFound(c, apperrors.ReportNotFound, "通報が見つかりません")
	case errors.Is(err, service.ErrReportAlreadyHandled):
		apperrors.Conflict(c, apperrors.ReportAlreadyHandled, "この通報は対応済みです")
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
	default:
		log.Error("Review report operation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// CreateReport accepts a review report from the public site
// POST /api/v1/public/review-reports
func (ctrl *ReviewReportController) CreateReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ReviewReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid review report submission", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	report, err := ctrl.reportService.CreateReport(input)
	if err != nil {
		ctrl.respondReportServiceError(c, err, "create review report")
		return
	}

	log.Info("Review report accepted", map[string]interface{}{
		"report_id": report.ID,
		"store_id":  report.StoreID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "通報を受け付けました",
		"report": gin.H{
			"id":     report.ID,
			"status": report.Status,
		},
	})
}

// ListReports returns review reports with filters
// GET /api/v1/review-reports
func (ctrl *ReviewReportController) ListReports(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ReviewReportFilter{
		Status: c.Query("status"),
	}
	filter.Limit, filter.Offset = parsePagination(c)

	if v := c.Query("store_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			storeID := uint(id)
			filter.StoreID = &storeID
		}
	}

	reports, total, err := ctrl.reportService.ListReports(filter)
	if err != nil {
		log.Error("Failed to fetch review reports", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list review reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"total":   total,
	})
}

// GetReport returns a review report by ID
// GET /api/v1/review-reports/:id
func (ctrl *ReviewReportController) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	report, err := ctrl.reportService.GetReport(id)
	if err != nil {
		ctrl.respondReportServiceError(c, err, "get review report")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report": report,
	})
}

// AcceptReport marks a report as accepted (review removal requested)
// POST /api/v1/review-reports/:id/accept
func (ctrl *ReviewReportController) AcceptReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	report, err := ctrl.reportService.AcceptReport(id, adminID)
	if err != nil {
		ctrl.respondReportServiceError(c, err, "accept review report")
		return
	}

	log.Info("Review report accepted by admin", map[string]interface{}{
		"report_id": id,
		"admin_id":  adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "通報を承認しました",
		"report":  report,
	})
}

// DismissReport marks a report as dismissed
// POST /api/v1/review-reports/:id/dismiss
func (ctrl *ReviewReportController) DismissReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	adminID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "ログインが必要です")
		return
	}

	report, err := ctrl.reportService.DismissReport(id, adminID)
	if err != nil {
		ctrl.respondReportServiceError(c, err, "dismiss review report")
		return
	}

	log.Info("Review report dismissed", map[string]interface{}{
		"report_id": id,
		"admin_id":  adminID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "通報を却下しました",
		"report":  report,
	})
}

// CountPending returns the number of unhandled reports
// GET /api/v1/review-reports/pending-count
func (ctrl *ReviewReportController) CountPending(c *gin.Context) {
	count, err := ctrl.reportService.CountPending()
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count pending reports")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": count,
	})
}
