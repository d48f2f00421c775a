package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/padudon-bit/IndieBook-project/internal/domain/model"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/dto"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/middleware"
)

// AuthHandler processes buyer registration, login and profile, plus admin login.
type AuthHandler struct {
	auth  AuthFacade
	admin AdminFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(auth AuthFacade, admin AdminFacade) *AuthHandler {
	return &AuthHandler{auth: auth, admin: admin}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	token, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	token, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Profile handles GET /api/user/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.auth.Profile(c.Request.Context(), CurrentPrincipal(c).UserID)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateProfile handles PUT /api/user/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), CurrentPrincipal(c).UserID, req.Name, req.Avatar)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(user))
}

// AdminLogin handles POST /api/admin/login.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}
	token, err := h.admin.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, internalErrorMessage)
		return
	}
	middleware.SetAdminCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func toProfileResponse(u *model.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
