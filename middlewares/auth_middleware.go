package middlewares

import (
	"net/http"
	"strings"

	"testcase-generator/constants"
	"testcase-generator/services"

	"github.com/gin-gonic/gin"
)

// BearerToken は Authorization ヘッダーからトークンを取り出す
func BearerToken(ctx *gin.Context) (string, bool) {
	header := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func AbortUnauthorized(ctx *gin.Context) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": constants.ErrNotAuthenticated})
}

func AuthMiddleware(authService services.IAuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := BearerToken(ctx)
		if !ok {
			AbortUnauthorized(ctx)
			return
		}

		user, err := authService.GetUserFromToken(ctx.Request.Context(), tokenString)
		if err != nil {
			AbortUnauthorized(ctx)
			return
		}

		ctx.Set(constants.ContextUserKey, user)

		ctx.Next()
	}
}
