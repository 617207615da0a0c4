package garden

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"garden-assistant/internal/core/climate"
	"garden-assistant/internal/core/plant"
	"garden-assistant/internal/core/season"
	"garden-assistant/internal/pkg/common"
)

// NormalizeRequest 名稱正規化請求
type NormalizeRequest struct {
	Name string `json:"name" binding:"required"`
}

// NormalizeName 回傳正規化後的植物名稱
func (h *Handler) NormalizeName(c *gin.Context) {
	var req NormalizeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"input":      req.Name,
		"normalized": plant.Normalize(req.Name),
	})
}

// ZoneResponse 耐寒區查詢結果
type ZoneResponse struct {
	Location string       `json:"location"`
	Zone     climate.Zone `json:"zone"`
	Info     climate.Info `json:"info"`
}

// ResolveZone 由地點推得耐寒區，查無資料時回傳預設區
func (h *Handler) ResolveZone(c *gin.Context) {
	location := c.Query("location")
	zone := climate.ResolveZone(location)
	c.JSON(http.StatusOK, ZoneResponse{
		Location: location,
		Zone:     zone,
		Info:     climate.LookupInfo(zone),
	})
}

// InferStage 推斷指定月份的生長階段；未提供月份時使用當月
func (h *Handler) InferStage(c *gin.Context) {
	top := strings.TrimSpace(c.Query("top_level"))
	if top == "" {
		h.respondError(c, common.NewFieldValidationError("top_level", "is required"))
		return
	}
	month, err := parseMonth(c.Query("month"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.inferer.InferStage(top, c.Query("middle_level"), month))
}

// parseMonth 空字串回傳 0（由推斷器改用當月）
func parseMonth(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0, common.NewFieldValidationError("month", "must be between 1 and 12")
	}
	return month, nil
}

// currentTasks 回傳 month 落在工作期間內的工作；month 為 0 時不回傳
func currentTasks(p *common.CareProfile, month int) []common.CareTask {
	if month == 0 {
		return nil
	}
	return season.TasksInWindow(p, month)
}
