package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	creds *services.Credentials
	log   zerolog.Logger
}

func NewAuthHandler(creds *services.Credentials, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{creds: creds, log: log}
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if !bindJSON(ctx, &body) {
		return
	}

	token, err := h.creds.Register(ctx.Request.Context(), body.Name, body.Email, body.Password)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, types.TokenResponse{Token: token})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if !bindJSON(ctx, &body) {
		return
	}

	token, err := h.creds.Login(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.TokenResponse{Token: token})
}
