package handler

import (
	"net/http"

	"github.com/densitymap/densitymap/internal/service"
	"github.com/densitymap/densitymap/pkg/apperror"
	"github.com/densitymap/densitymap/pkg/response"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service service.ProfileService
}

func NewProfileHandler(service service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetCurrentProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type walletInput struct {
	WalletAddress *string `json:"wallet_address"`
}

func (h *ProfileHandler) UpdateWallet(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input walletInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.ResponseError(c, apperror.Wrap(apperror.ErrBadRequest, "Invalid request body"))
		return
	}

	user, err := h.service.UpdateWallet(c.Request.Context(), userID, input.WalletAddress)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
