package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/apperr"
	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/utils"
	"github.com/rs/zerolog"
)

// Authenticator turns a bearer token into the id of the user it was issued to.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// AuthMiddleware requires "Authorization: Bearer <token>". A missing or
// malformed header is 401; a token that fails verification is 403.
func AuthMiddleware(a Authenticator, log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := bearerToken(ctx.GetHeader("Authorization"))

		if err != nil {
			utils.RespondError(ctx, log, err)
			return
		}

		authenticate(ctx, a, log, token)
	}
}

// QueryTokenAuth is AuthMiddleware for websocket upgrades. Browsers cannot set
// headers there, so a ?token= query parameter is accepted as well.
func QueryTokenAuth(a Authenticator, log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if header := ctx.GetHeader("Authorization"); header != "" {
			token, err := bearerToken(header)
			if err != nil {
				utils.RespondError(ctx, log, err)
				return
			}
			authenticate(ctx, a, log, token)
			return
		}

		token := ctx.Query("token")
		if token == "" {
			utils.RespondError(ctx, log, apperr.ErrUnauthorized)
			return
		}

		authenticate(ctx, a, log, token)
	}
}

func authenticate(ctx *gin.Context, a Authenticator, log zerolog.Logger, token string) {
	userID, err := a.Authenticate(token)

	if err != nil {
		utils.RespondError(ctx, log, err)
		return
	}

	utils.SetCurrentUserID(ctx, userID)
	ctx.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperr.New(apperr.ErrUnauthorized, "Authorization token is required")
	}

	parts := strings.SplitN(header, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", apperr.New(apperr.ErrUnauthorized, "Authorization header format must be Bearer {token}")
	}

	return strings.TrimSpace(parts[1]), nil
}
