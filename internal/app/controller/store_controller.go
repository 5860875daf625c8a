package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/model"
	"github.com/stakahashi/machinavi-backend/internal/app/repository"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

// parseIDParam URLパスの:idを数値IDに変換する
func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "IDの形式が正しくありません")
		return 0, false
	}
	return uint(id), true
}

// parsePagination page/page_sizeクエリをLimit/Offsetに変換する
func parsePagination(c *gin.Context) (limit, offset int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}

func storeFilterFromQuery(c *gin.Context) repository.StoreFilter {
	filter := repository.StoreFilter{
		Search: c.Query("search"),
	}
	filter.Limit, filter.Offset = parsePagination(c)

	if v := c.Query("genre_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			genreID := uint(id)
			filter.GenreID = &genreID
		}
	}
	if v := c.Query("station_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			stationID := uint(id)
			filter.StationID = &stationID
		}
	}
	if v := c.Query("plan_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			planID := uint(id)
			filter.PlanID = &planID
		}
	}
	if v := c.Query("recruitment"); v != "" {
		status := model.RecruitmentStatus(v)
		filter.Recruitment = &status
	}
	if c.DefaultQuery("active_only", "false") == "true" {
		filter.ActiveOnly = true
	}

	return filter
}

// ListStores returns stores with filters and pagination
// GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := storeFilterFromQuery(c)

	stores, total, err := ctrl.storeService.ListStores(filter)
	if err != nil {
		log.Error("Failed to fetch stores", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list stores")
		return
	}

	log.Info("Stores fetched successfully", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})

	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"total":  total,
	})
}

// GetStore returns a store by ID
// GET /api/v1/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.GetStore(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			log.Warn("Store not found", map[string]interface{}{
				"store_id": id,
			})
			apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}

// CreateStore creates a new store
// POST /api/v1/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.StoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid store creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	store, err := ctrl.storeService.CreateStore(input)
	if err != nil {
		ctrl.respondStoreServiceError(c, err, "create store")
		return
	}

	log.Info("Store created successfully", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "店舗を登録しました",
		"store":   store,
	})
}

// UpdateStore updates a store
// PUT /api/v1/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.StoreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Warn("Invalid store update request", map[string]interface{}{
			"store_id": id,
			"error":    err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	store, err := ctrl.storeService.UpdateStore(id, input)
	if err != nil {
		ctrl.respondStoreServiceError(c, err, "update store")
		return
	}

	log.Info("Store updated successfully", map[string]interface{}{
		"store_id": store.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗情報を更新しました",
		"store":   store,
	})
}

// DeactivateStore hides a store from the public site
// PUT /api/v1/stores/:id/deactivate
func (ctrl *StoreController) DeactivateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.DeactivateStore(id)
	if err != nil {
		ctrl.respondStoreServiceError(c, err, "deactivate store")
		return
	}

	log.Info("Store deactivated", map[string]interface{}{
		"store_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗を掲載停止にしました",
		"store":   store,
	})
}

// ActivateStore re-publishes a store
// PUT /api/v1/stores/:id/activate
func (ctrl *StoreController) ActivateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	store, err := ctrl.storeService.ActivateStore(id)
	if err != nil {
		ctrl.respondStoreServiceError(c, err, "activate store")
		return
	}

	log.Info("Store activated", map[string]interface{}{
		"store_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗を掲載再開しました",
		"store":   store,
	})
}

// DeleteStore soft-deletes a store
// DELETE /api/v1/stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.storeService.DeleteStore(id); err != nil {
		ctrl.respondStoreServiceError(c, err, "delete store")
		return
	}

	log.Info("Store deleted", map[string]interface{}{
		"store_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "店舗を削除しました",
	})
}

// ExportStores exports filtered stores as an XLSX download
// GET /api/v1/stores/export
func (ctrl *StoreController) ExportStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := storeFilterFromQuery(c)
	// エクスポートはページングせず全件出力する
	filter.Limit = 0
	filter.Offset = 0

	file, err := ctrl.storeService.ExportStoresXLSX(filter)
	if err != nil {
		log.Error("Failed to export stores", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.StoreExportError, "店舗一覧のエクスポートに失敗しました")
		return
	}

	filename := fmt.Sprintf("stores_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to write XLSX response", err, nil)
		return
	}

	log.Info("Stores exported successfully", map[string]interface{}{
		"filename": filename,
	})
}

func (ctrl *StoreController) respondStoreServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, apperrors.StoreNotFound, "店舗が見つかりません")
	case errors.Is(err, service.ErrGenreNotFound),
		errors.Is(err, service.ErrStationNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		apperrors.BadRequest(c, apperrors.MasterNotFound, "存在しないマスタデータが指定されています")
	case errors.Is(err, service.ErrPlanCannotRecruit):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "現在のプランでは求人を掲載できません")
	default:
		log.Error("Store operation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
