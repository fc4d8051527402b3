package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/services"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	dir *services.Directory
	log zerolog.Logger
}

func NewUserHandler(dir *services.Directory, log zerolog.Logger) *UserHandler {
	return &UserHandler{dir: dir, log: log}
}

func (h *UserHandler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	user, err := h.dir.FindByID(ctx.Request.Context(), userID)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(*user))
}

func (h *UserHandler) Search(ctx *gin.Context) {
	users, err := h.dir.SearchByEmail(ctx.Request.Context(), ctx.Query("email"))

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	response := make([]types.UserSummary, 0, len(users))
	for _, u := range users {
		response = append(response, types.NewUserSummary(u))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(ctx *gin.Context) {
	id, err := utils.GetID(ctx)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	user, err := h.dir.FindByID(ctx.Request.Context(), id)

	if err != nil {
		utils.RespondError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserSummary(*user))
}
