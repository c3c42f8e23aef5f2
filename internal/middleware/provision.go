package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Vk9769/voting-backend/internal/auth"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
)

// CheckRoleCreatePermission gates principal creation on the creator's
// authority: the requested role must be in the creator's provisionable
// set. The decision happens before any persistence is attempted.
//
// The target role is peeked from the request (JSON body or multipart form
// field "role"); the body is restored afterwards so the handler can bind
// it normally.
func CheckRoleCreatePermission(h *auth.Hierarchy) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
			c.Abort()
			return
		}

		target := peekTargetRole(c)
		if target == "" {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing role")
			c.Abort()
			return
		}

		if err := h.AuthorizeCreation(claims.Role, target); err != nil {
			util.Error(c, http.StatusForbidden, util.CodeForbidden,
				fmt.Sprintf("role %q cannot create role %q", claims.Role, target))
			c.Abort()
			return
		}

		c.Next()
	}
}

func peekTargetRole(c *gin.Context) string {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") ||
		contentType == "application/x-www-form-urlencoded" {
		return c.PostForm("role")
	}

	if c.Request.Body == nil {
		return ""
	}
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		return ""
	}
	return body.Role
}
