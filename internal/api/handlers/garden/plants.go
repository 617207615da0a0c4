package garden

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"garden-assistant/internal/core/identity"
	"garden-assistant/internal/pkg/common"
)

// IdentityRequest 類型身分查詢請求
type IdentityRequest struct {
	OwnerID     string `json:"owner_id"`
	TopLevel    string `json:"top_level"`
	MiddleLevel string `json:"middle_level,omitempty"`
}

// ResolveIdentity 查詢類型是否已存在，並列出擁有者已連結的品種
func (h *Handler) ResolveIdentity(c *gin.Context) {
	var req IdentityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	res, err := h.resolver.ResolveIdentity(c.Request.Context(), req.OwnerID, req.TopLevel, req.MiddleLevel)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreatePlantRequest 建立植株請求；decision 為 merge（預設）或 separate
type CreatePlantRequest struct {
	OwnerID      string `json:"owner_id"`
	TopLevel     string `json:"top_level"`
	MiddleLevel  string `json:"middle_level,omitempty"`
	CultivarName string `json:"cultivar_name,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	Location     string `json:"location,omitempty"`
	PlantedIn    string `json:"planted_in,omitempty"`
	Decision     string `json:"decision,omitempty"`
}

// CreatePlant 建立植株並依決策連結到共享類型
func (h *Handler) CreatePlant(c *gin.Context) {
	var req CreatePlantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	decision, err := identity.ParseDecision(req.Decision)
	if err != nil {
		h.respondError(c, err)
		return
	}
	plantedIn, err := common.ParsePlantedIn(req.PlantedIn)
	if err != nil {
		h.respondError(c, err)
		return
	}

	inst, err := h.resolver.LinkInstance(c.Request.Context(), identity.NewInstance{
		OwnerID:      req.OwnerID,
		TopLevel:     req.TopLevel,
		MiddleLevel:  req.MiddleLevel,
		CultivarName: req.CultivarName,
		Nickname:     req.Nickname,
		Location:     req.Location,
		PlantedIn:    plantedIn,
	}, decision)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inst)
}

// ListPlants 列出擁有者的植株
func (h *Handler) ListPlants(c *gin.Context) {
	owner := strings.TrimSpace(c.Query("owner_id"))
	if owner == "" {
		h.respondError(c, common.NewFieldValidationError("owner_id", "is required"))
		return
	}
	plants, err := h.resolver.ListInstances(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plants": plants})
}
