package handler

import (
	"net/http"
	"strconv"

	"github.com/densitymap/densitymap/internal/service"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/response"
	"github.com/gin-gonic/gin"
)

type HexHandler struct {
	service service.CellService
}

func NewHexHandler(service service.CellService) *HexHandler {
	return &HexHandler{service: service}
}

// GetCollection streams the precomputed GeoJSON for one mode and
// resolution straight from memory.
func (h *HexHandler) GetCollection(c *gin.Context) {
	mode := c.Param("mode")
	resolution, err := strconv.Atoi(c.Param("resolution"))
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "Invalid resolution"))
		return
	}

	data, err := h.service.Collection(mode, resolution)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/geo+json", data)
}

func (h *HexHandler) GetCell(c *gin.Context) {
	mode := c.Param("mode")
	resolution, err := strconv.Atoi(c.Param("resolution"))
	if err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "Invalid resolution"))
		return
	}
	hexID := c.Param("hex_id")

	detail, err := h.service.Detail(c.Request.Context(), mode, resolution, hexID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}
