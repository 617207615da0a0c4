// Package garden 園藝助理的 HTTP 處理器
package garden

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/core/profile"
	"garden-assistant/internal/core/season"
	"garden-assistant/internal/pkg/common"
)

// Handler 園藝 API 處理程序
type Handler struct {
	profiles   *profile.Service
	identifier *profile.Identifier
	resolver   *identity.Resolver
	inferer    *season.Inferer
	debug      bool
}

// Options 處理程序依賴
type Options struct {
	Profiles   *profile.Service
	Identifier *profile.Identifier
	Resolver   *identity.Resolver
	Inferer    *season.Inferer // nil 時使用系統時鐘
	Debug      bool            // 開啟時錯誤回應附上原始錯誤
}

// NewHandler 創建新的處理程序
func NewHandler(opts Options) *Handler {
	if opts.Inferer == nil {
		opts.Inferer = season.NewInferer(nil)
	}
	return &Handler{
		profiles:   opts.Profiles,
		identifier: opts.Identifier,
		resolver:   opts.Resolver,
		inferer:    opts.Inferer,
		debug:      opts.Debug,
	}
}

// Register 在路由組上註冊所有端點
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/names/normalize", h.NormalizeName)
	rg.GET("/zones", h.ResolveZone)
	rg.GET("/stages", h.InferStage)
	rg.POST("/profiles", h.GetOrGenerateProfile)
	rg.POST("/plant-types/identity", h.ResolveIdentity)
	rg.POST("/plant-types/profile", h.GetOrGenerateTypeProfile)
	rg.POST("/plants", h.CreatePlant)
	rg.GET("/plants", h.ListPlants)
	rg.POST("/identify", h.Identify)
}

// bindJSON 解析請求體；超出大小限制回傳 413，其餘失敗回傳 400
func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.respondError(c, err)
		return false
	}
	h.respondError(c, common.NewValidationError("invalid request body: "+err.Error()))
	return false
}

// respondError 依錯誤分類寫入錯誤響應
func (h *Handler) respondError(c *gin.Context, err error) {
	ce := common.ToCustomError(err)
	fields := []zap.Field{
		zap.String("request_id", requestid.Get(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("code", ce.Code),
		zap.Error(err),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogWarn("請求無效", fields...)
	}

	resp := common.ErrorResponse{Code: ce.Code, Message: ce.Message}
	if ce.Code == common.ErrCodeInvalidRequest {
		resp.Message = err.Error()
	}
	if h.debug && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	c.AbortWithStatusJSON(ce.Status, resp)
}
