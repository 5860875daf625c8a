package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stakahashi/machinavi-backend/internal/app/service"
	apperrors "github.com/stakahashi/machinavi-backend/internal/errors"
	"github.com/stakahashi/machinavi-backend/internal/middleware"
)

// MasterController ジャンル・路線・駅・プランのマスタ管理
type MasterController struct {
	masterService service.MasterService
}

func NewMasterController(masterService service.MasterService) *MasterController {
	return &MasterController{
		masterService: masterService,
	}
}

func (ctrl *MasterController) respondMasterServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrGenreNotFound),
		errors.Is(err, service.ErrRailwayLineNotFound),
		errors.Is(err, service.ErrStationNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		apperrors.NotFound(c, apperrors.MasterNotFound, "マスタデータが見つかりません")
	case errors.Is(err, service.ErrMasterInUse):
		apperrors.Conflict(c, apperrors.MasterInUse, "店舗から参照されているため削除できません")
	default:
		log.Error("Master operation failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ==================== ジャンル ====================

// ListGenres returns all genres ordered for display
// GET /api/v1/master/genres
func (ctrl *MasterController) ListGenres(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	genres, err := ctrl.masterService.ListGenres()
	if err != nil {
		log.Error("Failed to fetch genres", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list genres")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"genres": genres,
	})
}

// CreateGenre creates a new genre
// POST /api/v1/master/genres
func (ctrl *MasterController) CreateGenre(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	genre, err := ctrl.masterService.CreateGenre(input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "create genre")
		return
	}

	log.Info("Genre created", map[string]interface{}{
		"genre_id": genre.ID,
		"name":     genre.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "ジャンルを登録しました",
		"genre":   genre,
	})
}

// UpdateGenre updates a genre
// PUT /api/v1/master/genres/:id
func (ctrl *MasterController) UpdateGenre(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.GenreInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	genre, err := ctrl.masterService.UpdateGenre(id, input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "update genre")
		return
	}

	log.Info("Genre updated", map[string]interface{}{
		"genre_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "ジャンルを更新しました",
		"genre":   genre,
	})
}

// DeleteGenre deletes a genre unless stores reference it
// DELETE /api/v1/master/genres/:id
func (ctrl *MasterController) DeleteGenre(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.masterService.DeleteGenre(id); err != nil {
		ctrl.respondMasterServiceError(c, err, "delete genre")
		return
	}

	log.Info("Genre deleted", map[string]interface{}{
		"genre_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "ジャンルを削除しました",
	})
}

// ==================== 路線 ====================

// ListRailwayLines returns railway lines, optionally with their stations
// GET /api/v1/master/railway-lines
func (ctrl *MasterController) ListRailwayLines(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	withStations := c.DefaultQuery("with_stations", "false") == "true"

	lines, err := ctrl.masterService.ListRailwayLines(withStations)
	if err != nil {
		log.Error("Failed to fetch railway lines", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list railway lines")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"railway_lines": lines,
	})
}

// CreateRailwayLine creates a new railway line
// POST /api/v1/master/railway-lines
func (ctrl *MasterController) CreateRailwayLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.RailwayLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	line, err := ctrl.masterService.CreateRailwayLine(input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "create railway line")
		return
	}

	log.Info("Railway line created", map[string]interface{}{
		"railway_line_id": line.ID,
		"name":            line.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":      "路線を登録しました",
		"railway_line": line,
	})
}

// UpdateRailwayLine updates a railway line
// PUT /api/v1/master/railway-lines/:id
func (ctrl *MasterController) UpdateRailwayLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.RailwayLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	line, err := ctrl.masterService.UpdateRailwayLine(id, input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "update railway line")
		return
	}

	log.Info("Railway line updated", map[string]interface{}{
		"railway_line_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":      "路線を更新しました",
		"railway_line": line,
	})
}

// DeleteRailwayLine deletes a railway line and its stations
// DELETE /api/v1/master/railway-lines/:id
func (ctrl *MasterController) DeleteRailwayLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.masterService.DeleteRailwayLine(id); err != nil {
		ctrl.respondMasterServiceError(c, err, "delete railway line")
		return
	}

	log.Info("Railway line deleted", map[string]interface{}{
		"railway_line_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "路線を削除しました",
	})
}

// ==================== 駅 ====================

// ListStations returns stations, optionally filtered by railway line
// GET /api/v1/master/stations
func (ctrl *MasterController) ListStations(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var railwayLineID *uint
	if v := c.Query("railway_line_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "路線IDの形式が正しくありません")
			return
		}
		lineID := uint(id)
		railwayLineID = &lineID
	}

	stations, err := ctrl.masterService.ListStations(railwayLineID)
	if err != nil {
		log.Error("Failed to fetch stations", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list stations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stations": stations,
	})
}

// CreateStation creates a new station
// POST /api/v1/master/stations
func (ctrl *MasterController) CreateStation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.StationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	station, err := ctrl.masterService.CreateStation(input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "create station")
		return
	}

	log.Info("Station created", map[string]interface{}{
		"station_id": station.ID,
		"name":       station.Name,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "駅を登録しました",
		"station": station,
	})
}

// UpdateStation updates a station
// PUT /api/v1/master/stations/:id
func (ctrl *MasterController) UpdateStation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.StationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	station, err := ctrl.masterService.UpdateStation(id, input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "update station")
		return
	}

	log.Info("Station updated", map[string]interface{}{
		"station_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "駅を更新しました",
		"station": station,
	})
}

// DeleteStation deletes a station unless stores reference it
// DELETE /api/v1/master/stations/:id
func (ctrl *MasterController) DeleteStation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.masterService.DeleteStation(id); err != nil {
		ctrl.respondMasterServiceError(c, err, "delete station")
		return
	}

	log.Info("Station deleted", map[string]interface{}{
		"station_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "駅を削除しました",
	})
}

// ==================== プラン ====================

// ListPlans returns all plans
// GET /api/v1/master/plans
func (ctrl *MasterController) ListPlans(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	plans, err := ctrl.masterService.ListPlans()
	if err != nil {
		log.Error("Failed to fetch plans", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list plans")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": plans,
	})
}

// CreatePlan creates a new plan
// POST /api/v1/master/plans
func (ctrl *MasterController) CreatePlan(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	plan, err := ctrl.masterService.CreatePlan(input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "create plan")
		return
	}

	log.Info("Plan created", map[string]interface{}{
		"plan_id": plan.ID,
		"code":    plan.Code,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "プランを登録しました",
		"plan":    plan,
	})
}

// UpdatePlan updates a plan
// PUT /api/v1/master/plans/:id
func (ctrl *MasterController) UpdatePlan(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "入力内容に誤りがあります")
		return
	}

	plan, err := ctrl.masterService.UpdatePlan(id, input)
	if err != nil {
		ctrl.respondMasterServiceError(c, err, "update plan")
		return
	}

	log.Info("Plan updated", map[string]interface{}{
		"plan_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "プランを更新しました",
		"plan":    plan,
	})
}

// DeletePlan deletes a plan unless stores reference it
// DELETE /api/v1/master/plans/:id
func (ctrl *MasterController) DeletePlan(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.masterService.DeletePlan(id); err != nil {
		ctrl.respondMasterServiceError(c, err, "delete plan")
		return
	}

	log.Info("Plan deleted", map[string]interface{}{
		"plan_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "プランを削除しました",
	})
}
