package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/types"
)

// GetCurrentUserID returns the id the auth middleware stored for this request.
func GetCurrentUserID(ctx *gin.Context) (string, error) {
	userID := ctx.GetString(types.ContextUserKey)

	if userID == "" {
		return "", apperr.New(apperr.ErrUnauthorized, "User not authenticated")
	}

	return userID, nil
}

func SetCurrentUserID(ctx *gin.Context, userID string) {
	ctx.Set(types.ContextUserKey, userID)
}
