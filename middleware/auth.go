package middleware

import (
	"os"
	"strings"

	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Error(apperrors.NewUnauthorized("Authorization header is required"))
			c.Abort()
			return
		}

		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
			c.Error(apperrors.NewUnauthorized("Invalid token format"))
			c.Abort()
			return
		}

		token := bearerToken[1]
		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !parsedToken.Valid {
			c.Error(apperrors.NewUnauthorized("Invalid token"))
			c.Abort()
			return
		}

		rawUserID, ok := claims["user_id"].(float64)
		if !ok {
			c.Error(apperrors.NewUnauthorized("Invalid token claims"))
			c.Abort()
			return
		}

		userClaims := &utils.UserClaims{
			UserID: uint(rawUserID),
		}

		c.Set(string(utils.UserContextKey), userClaims)

		c.Next()
	}
}
