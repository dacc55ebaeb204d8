package handler

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"vidtube/internal/app"
	"vidtube/internal/apperr"
	"vidtube/internal/model"
	"vidtube/internal/transport/http/middleware"
	"vidtube/internal/transport/http/response"
)

type UserHandler struct {
	profileService *app.ProfileService
	tempDir        string
}

type UpdateAccountRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type RecordWatchRequest struct {
	VideoID uint `json:"videoId"`
}

func NewUserHandler(profileService *app.ProfileService, tempDir string) *UserHandler {
	return &UserHandler{
		profileService: profileService,
		tempDir:        tempDir,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.profileService.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, user, "current user fetched successfully")
}

func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apperr.Validation("invalid request payload"))
		return
	}

	user, err := h.profileService.UpdateAccount(c.Request.Context(), middleware.UserID(c), app.UpdateAccountInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, user, "account details updated successfully")
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	h.updateImage(c, "avatar", h.profileService.UpdateAvatar, "avatar updated successfully")
}

func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	h.updateImage(c, "coverImage", h.profileService.UpdateCoverImage, "cover image updated successfully")
}

func (h *UserHandler) Channel(c *gin.Context) {
	profile, err := h.profileService.ChannelProfile(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *UserHandler) ToggleSubscription(c *gin.Context) {
	subscribed, err := h.profileService.ToggleSubscription(c.Request.Context(), middleware.UserID(c), c.Param("username"))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"subscribed": subscribed}, "subscription updated")
}

func (h *UserHandler) RecordWatch(c *gin.Context) {
	var req RecordWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, apperr.Validation("invalid request payload"))
		return
	}

	if err := h.profileService.RecordWatch(c.Request.Context(), middleware.UserID(c), req.VideoID); err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusAccepted, nil, "watch event recorded")
}

func (h *UserHandler) History(c *gin.Context) {
	entries, err := h.profileService.WatchHistory(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, entries, "watch history fetched successfully")
}

func (h *UserHandler) updateImage(c *gin.Context, field string, update func(ctx context.Context, userID uint, localPath string) (*model.User, error), message string) {
	localPath, err := stageUpload(c, field, h.tempDir)
	if err != nil {
		response.Err(c, err)
		return
	}
	if localPath != "" {
		defer os.Remove(localPath)
	}

	user, err := update(c.Request.Context(), middleware.UserID(c), localPath)
	if err != nil {
		response.Err(c, err)
		return
	}
	response.OK(c, http.StatusOK, user, message)
}
