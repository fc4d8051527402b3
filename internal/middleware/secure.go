package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecureOptions returns the security headers for a JSON API.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
}

func Secure(opts secure.Options) gin.HandlerFunc {
	s := secure.New(opts)

	return func(ctx *gin.Context) {
		if err := s.Process(ctx.Writer, ctx.Request); err != nil {
			ctx.Abort()
			return
		}

		// Process may have answered with a redirect already.
		if isRedirect(ctx.Writer.Status()) {
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}
