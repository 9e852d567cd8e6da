package handlers

import (
	"net/http"
	"socketBoard/internal/errs"
	"socketBoard/internal/models"
	"socketBoard/internal/msgs"
	"socketBoard/internal/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

func CorsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusOK)
			return
		}

		ctx.Next()
	}
}

// MustAuthenticateMiddleware guards REST routes when auth is enabled.
func (rh *RestHandler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorsToStrings([]error{errs.ErrUnauthorized}),
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, []byte(rh.cfg.Viper.GetString("auth.jwt_key")))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorsToStrings([]error{errs.ErrInvalidToken}),
			})
			return
		}

		ctx.Set("user_name", claims.Name)
		ctx.Set("authenticated", true)
		ctx.Next()
	}
}
