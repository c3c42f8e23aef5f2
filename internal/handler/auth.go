package handler

import (
	"errors"
	"net/http"

	"github.com/Vk9769/voting-backend/internal/auth"
	"github.com/Vk9769/voting-backend/internal/middleware"
	"github.com/Vk9769/voting-backend/internal/models"
	"github.com/Vk9769/voting-backend/internal/token"
	"github.com/Vk9769/voting-backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler serves login, refresh and role selection.
type AuthHandler struct {
	DB   *gorm.DB
	Auth *auth.Authenticator
}

func NewAuthHandler(db *gorm.DB, authenticator *auth.Authenticator) *AuthHandler {
	return &AuthHandler{DB: db, Auth: authenticator}
}

type loginReq struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login authenticates by email, phone or secondary ID and returns a
// session token with the role claims embedded.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing identifier or password")
		return
	}

	session, err := h.Auth.Login(req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNotFound):
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		case errors.Is(err, auth.ErrInvalidCredential):
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid password")
		default:
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "login failed")
		}
		return
	}

	user := session.User
	util.Success(c, util.Response{
		"message": "login successful",
		"token":   session.Token,
		"user": gin.H{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"email":      user.Email,
			"phone":      user.Phone,
			"status":     user.Status,
			"role":       session.Role,
			"roles":      session.Roles,
		},
	})
}

type refreshReq struct {
	Token string `json:"token" binding:"required"`
}

// Refresh reissues a valid token with a fresh TTL, preserving the active
// role and role list.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing token")
		return
	}

	newToken, err := h.Auth.Refresh(req.Token)
	if err != nil {
		if errors.Is(err, token.ErrExpired) || errors.Is(err, token.ErrInvalidToken) {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "invalid or expired token")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "refresh failed")
		}
		return
	}

	util.Success(c, util.Response{"token": newToken})
}

type selectRoleReq struct {
	Role string `json:"role" binding:"required"`
}

// SelectRole switches the session's active role. The requested role must
// be one the session already holds; anything else is forbidden regardless
// of whether the name is a valid role globally.
func (h *AuthHandler) SelectRole(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var req selectRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing role")
		return
	}

	newToken, err := h.Auth.SwitchRole(claims, req.Role)
	if err != nil {
		if errors.Is(err, auth.ErrForbidden) {
			util.Error(c, http.StatusForbidden, util.CodeForbidden, "role not held by this session")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "role switch failed")
		}
		return
	}

	util.Success(c, util.Response{
		"message": "active role set to " + req.Role,
		"token":   newToken,
		"role":    req.Role,
	})
}

// GetRoles lists the roles bound to the authenticated principal.
func (h *AuthHandler) GetRoles(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}
	util.Success(c, util.Response{"roles": claims.Roles})
}

type registerDeviceReq struct {
	DeviceSignature string `json:"device_signature" binding:"required"`
}

// RegisterDevice binds a device to the agent's account by flipping the
// principal's lifecycle status.
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "missing token")
		return
	}

	var req registerDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing device_signature")
		return
	}

	if err := h.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("status", models.StatusDeviceRegistered).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "device registration failed")
		return
	}

	util.Success(c, util.Response{
		"message":          "device registered successfully",
		"device_signature": req.DeviceSignature,
	})
}
