package garden

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garden-assistant/internal/core/profile"
	"garden-assistant/internal/pkg/common"
)

// ProfileRequest 取得照護檔案請求
type ProfileRequest struct {
	Name         string `json:"name"`
	PlantedIn    string `json:"planted_in,omitempty"`
	ClimateZone  int    `json:"climate_zone,omitempty"`
	Location     string `json:"location,omitempty"`
	TopLevelHint string `json:"top_level_hint,omitempty"`
	Month        int    `json:"month,omitempty"`
}

// context 轉為生成上下文；種植方式在此解析
func (r ProfileRequest) context() (common.GenerationContext, error) {
	plantedIn, err := common.ParsePlantedIn(r.PlantedIn)
	if err != nil {
		return common.GenerationContext{}, err
	}
	return common.GenerationContext{
		PlantedIn:    plantedIn,
		ClimateZone:  r.ClimateZone,
		Location:     r.Location,
		TopLevelHint: r.TopLevelHint,
	}, nil
}

// ProfileResponse 照護檔案響應
type ProfileResponse struct {
	*profile.Result
	CurrentTasks []common.CareTask `json:"current_tasks,omitempty"`
}

// GetOrGenerateProfile 取得或生成照護檔案
func (h *Handler) GetOrGenerateProfile(c *gin.Context) {
	var req ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if _, err := parseMonthValue(req.Month); err != nil {
		h.respondError(c, err)
		return
	}
	gctx, err := req.context()
	if err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.profiles.GetOrGenerateProfile(c.Request.Context(), req.Name, gctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Result:       res,
		CurrentTasks: currentTasks(&res.Profile, req.Month),
	})
}

// TypeProfileRequest 類型照護檔案請求
type TypeProfileRequest struct {
	TopLevel    string `json:"top_level"`
	MiddleLevel string `json:"middle_level,omitempty"`
	PlantedIn   string `json:"planted_in,omitempty"`
	ClimateZone int    `json:"climate_zone,omitempty"`
	Location    string `json:"location,omitempty"`
	Month       int    `json:"month,omitempty"`
}

// TypeProfileResponse 類型照護檔案響應
type TypeProfileResponse struct {
	*profile.TypeResult
	CurrentTasks []common.CareTask `json:"current_tasks,omitempty"`
}

// GetOrGenerateTypeProfile 取得或生成類型共享的照護檔案
func (h *Handler) GetOrGenerateTypeProfile(c *gin.Context) {
	var req TypeProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if _, err := parseMonthValue(req.Month); err != nil {
		h.respondError(c, err)
		return
	}
	plantedIn, err := common.ParsePlantedIn(req.PlantedIn)
	if err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.profiles.GetOrGenerateTypeProfile(c.Request.Context(), req.TopLevel, req.MiddleLevel, common.GenerationContext{
		PlantedIn:   plantedIn,
		ClimateZone: req.ClimateZone,
		Location:    req.Location,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TypeProfileResponse{
		TypeResult:   res,
		CurrentTasks: currentTasks(&res.Profile, req.Month),
	})
}

// IdentifyRequest 植物辨識請求
type IdentifyRequest struct {
	Query string `json:"query"`
}

// Identify 自由文字植物辨識
func (h *Handler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.identifier.Identify(c.Request.Context(), req.Query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// parseMonthValue 0 表示未提供
func parseMonthValue(month int) (int, error) {
	if month < 0 || month > 12 {
		return 0, common.NewFieldValidationError("month", "must be between 1 and 12")
	}
	return month, nil
}
