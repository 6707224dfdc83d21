package handler

import (
	"net/http"

	"github.com/densitymap/densitymap/internal/service"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/response"
	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	service service.VoteService
}

func NewVoteHandler(service service.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

func (h *VoteHandler) SubmitVote(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input service.VoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "Missing fields"))
		return
	}

	result, err := h.service.Submit(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentVote reports whether the user already voted on a cell in
// the running period, so the client can swap voting controls for a
// "voted this period" state.
func (h *VoteHandler) GetCurrentVote(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	hexID := c.Query("hex_id")
	mode := c.Query("mode")

	value, err := h.service.CurrentVote(c.Request.Context(), userID, hexID, mode)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vote_value": value})
}
