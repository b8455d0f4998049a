package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Africall/sote-minimart/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// bearerToken pulls the till token from the Authorization header. EventSource
// clients cannot set headers, so the stream endpoint also accepts ?access_token=.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("access_token"); token != "" {
			return token, ""
		}
		return "", "Authorization header required"
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", "Authorization header format must be Bearer {token}"
	}
	return token, ""
}

// AuthMiddleware admits requests carrying a valid till token. The token subject
// is the cashier every ledger write of the request is attributed to.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		token, problem := bearerToken(c)
		if problem != "" {
			logger.Warn("Rejected request without usable token", slog.String("reason", problem))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": problem})
			return
		}

		cashierID, err := utils.ParseTillToken(token, jwtSecret)
		if err != nil {
			logger.Warn("Invalid till token", slog.String("error", err.Error()))
			msg := "Invalid token"
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "Token has expired"
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		ctx := WithUserID(c.Request.Context(), cashierID)
		ctx = WithLogger(ctx, logger.With(slog.String("cashier_id", cashierID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
