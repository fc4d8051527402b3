package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
)

// GetParam returns a non-blank path parameter.
func GetParam(ctx *gin.Context, name, label string) (string, error) {
	value := strings.TrimSpace(ctx.Param(name))

	if value == "" {
		return "", apperr.Validation(label + " is required")
	}

	return value, nil
}

func GetProjectID(ctx *gin.Context) (string, error) {
	return GetParam(ctx, "projectId", "Project ID")
}

func GetID(ctx *gin.Context) (string, error) {
	return GetParam(ctx, "id", "ID")
}

// GetUserAndParam resolves the caller and one path parameter in one go.
func GetUserAndParam(ctx *gin.Context, name, label string) (string, string, error) {
	userID, err := GetCurrentUserID(ctx)

	if err != nil {
		return "", "", err
	}

	value, err := GetParam(ctx, name, label)

	if err != nil {
		return "", "", err
	}

	return userID, value, nil
}
