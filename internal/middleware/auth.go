package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/token"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	CtxUser   = "currentUser"
	CtxClaims = "claims"
)

// AuthMiddleware verifies the session token and puts the principal and its
// claims into the request context.
func AuthMiddleware(tokens *token.Issuer, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}

		// 2) URL query ?token=xxx (websocket clients can't always set headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, token.ErrExpired) {
				msg = "token expired, please log in again"
			}
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, msg)
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.PrincipalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, util.CodeAuth, "unknown principal")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "lookup principal failed")
			}
			c.Abort()
			return
		}

		if user.Status == models.StatusSuspended {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "account suspended")
			c.Abort()
			return
		}

		c.Set(CtxUser, &user)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// CurrentUser pulls the authenticated principal from the context.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentClaims pulls the verified token claims from the context.
func CurrentClaims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok && claims != nil
}

// RequireRole gates a route on the session's active role. A session with
// no active role never passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok || claims.Role == "" {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "no active role")
			c.Abort()
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "insufficient role")
		c.Abort()
	}
}
