package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"vidtube/internal/app"
	"vidtube/internal/apperr"
	"vidtube/internal/config"
	"vidtube/internal/transport/http/middleware"
	"vidtube/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	authCfg     config.AuthConfig
	tempDir     string
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func NewAuthHandler(authService *app.AuthService, authCfg config.AuthConfig, tempDir string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authCfg:     authCfg,
		tempDir:     tempDir,
	}
}

// Register handles the multipart registration form: text fields plus an
// avatar file and an optional cover image.
func (h *AuthHandler) Register(c *gin.Context) {
	avatarPath, err := stageUpload(c, "avatar", h.tempDir)
	if err != nil {
		response.Err(c, err)
		return
	}
	if avatarPath != "" {
		defer os.Remove(avatarPath)
	}

	coverPath, err := stageUpload(c, "coverImage", h.tempDir)
	if err != nil {
		response.Err(c, err)
		return
	}
	if coverPath != "" {
		defer os.Remove(coverPath)
	}

	user, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		FullName:       c.PostForm("fullName"),
		Email:          c.PostForm("email"),
		Username:       c.PostForm("username"),
		Password:       c.PostForm("password"),
		AvatarPath:     avatarPath,
		CoverImagePath: coverPath,
	})
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusCreated, user, "user registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apperr.Validation("invalid request payload"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Err(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)
	response.OK(c, http.StatusOK, gin.H{
		"user":         result.User,
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
	}, "user logged in successfully")
}

// Logout clears the stored refresh token and both cookies. Safe to repeat.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.Err(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.OK(c, http.StatusOK, nil, "user logged out successfully")
}

// Refresh rotates the token pair. The refresh token may arrive in the
// cookie or the JSON body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	presented, _ := c.Cookie(middleware.RefreshTokenCookie)
	if presented == "" {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.authService.Refresh(c.Request.Context(), presented)
	if err != nil {
		response.Err(c, err)
		return
	}

	h.setAuthCookies(c, pair.AccessToken, pair.RefreshToken)
	response.OK(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "access token refreshed")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apperr.Validation("old and new password are required"))
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), middleware.UserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, nil, "password changed successfully")
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, access, refresh string) {
	accessMaxAge := h.authCfg.AccessExpireMinute * 60
	refreshMaxAge := h.authCfg.RefreshExpireHour * 3600
	c.SetCookie(middleware.AccessTokenCookie, access, accessMaxAge, "/", "", h.authCfg.SecureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, refresh, refreshMaxAge, "/", "", h.authCfg.SecureCookies, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.authCfg.SecureCookies, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.authCfg.SecureCookies, true)
}
