package http

import (
	"errors"
	"net/http"
	"strconv"

	"recipe-share/pkg/logger"
	"recipe-share/pkg/middleware"
	"recipe-share/services/notification/internal/entity"
	"recipe-share/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

type PushNotificationRequest struct {
	Message          string `json:"message" example:"New lasagna recipe is up!"`
	URL              string `json:"url" example:"https://recipes.example.com/r/42"`
	NotificationType string `json:"notification_type" example:"followers" enums:"global,followers,personal"`
	Recipient        string `json:"recipient" example:"2f1d7a3c-9b1e-4c55-8d0e-4c1b8e7f9a10"`
}

type MarkAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Register mounts every notification route on rg. rg must already be authenticated.
func (h *NotificationHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/", h.GetNotifications)
	rg.GET("/global/", h.GetGlobalNotifications)
	rg.GET("/followers/", h.GetFollowersNotifications)
	rg.GET("/personal/", h.GetPersonalNotifications)
	rg.GET("/sent/", h.GetSentNotifications)
	rg.GET("/unread-count/", h.GetUnreadCount)
	rg.POST("/push/", h.PushNotification)
	rg.POST("/mark-all-read/", h.MarkAllRead)
	rg.POST("/:id/read/", h.MarkRead)
}

// PushNotification godoc
// @Summary      Push a notification
// @Description  Fan a notification out to everyone (global), the caller's followers, or one user (personal)
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PushNotificationRequest true "Notification to push"
// @Success      201  {array}   entity.InboundView
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /push/ [post]
func (h *NotificationHandler) PushNotification(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req PushNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	notifications, err := h.notificationUseCase.Push(c.Request.Context(), userID, usecase.PushInput{
		Message:          req.Message,
		URL:              req.URL,
		NotificationType: req.NotificationType,
		RecipientID:      req.Recipient,
	})
	if err != nil {
		h.respondError(c, err, "push notification")
		return
	}

	c.JSON(http.StatusCreated, notifications)
}

// GetNotifications godoc
// @Summary      List received notifications
// @Description  All notifications received by the caller, newest first
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.InboundView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       / [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	h.listInbound(c, nil)
}

// GetGlobalNotifications godoc
// @Summary      List received global notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.InboundView
// @Failure      401  {object}  ErrorResponse
// @Router       /global/ [get]
func (h *NotificationHandler) GetGlobalNotifications(c *gin.Context) {
	t := entity.TypeGlobal
	h.listInbound(c, &t)
}

// GetFollowersNotifications godoc
// @Summary      List received followers-only notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.InboundView
// @Failure      401  {object}  ErrorResponse
// @Router       /followers/ [get]
func (h *NotificationHandler) GetFollowersNotifications(c *gin.Context) {
	t := entity.TypeFollowers
	h.listInbound(c, &t)
}

// GetPersonalNotifications godoc
// @Summary      List received personal notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.InboundView
// @Failure      401  {object}  ErrorResponse
// @Router       /personal/ [get]
func (h *NotificationHandler) GetPersonalNotifications(c *gin.Context) {
	t := entity.TypePersonal
	h.listInbound(c, &t)
}

func (h *NotificationHandler) listInbound(c *gin.Context, notificationType *entity.NotificationType) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationUseCase.ListInbound(c.Request.Context(), userID, notificationType)
	if err != nil {
		h.respondError(c, err, "get notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetSentNotifications godoc
// @Summary      List sent notifications
// @Description  Notifications issued by the caller. Broadcast rows hide the recipient and carry recipient_count.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.SentView
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /sent/ [get]
func (h *NotificationHandler) GetSentNotifications(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationUseCase.ListSent(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "get sent notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Notification ID"
// @Success      200  {object}  entity.MarkReadResult
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /{id}/read/ [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
		return
	}

	result, err := h.notificationUseCase.MarkRead(c.Request.Context(), userID, id)
	if err != nil {
		h.respondError(c, err, "mark notification read")
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarkAllRead godoc
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MarkAllReadResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /mark-all-read/ [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	updated, err := h.notificationUseCase.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "mark notifications read")
		return
	}

	c.JSON(http.StatusOK, MarkAllReadResponse{
		Message: "All notifications marked as read.",
		Updated: updated,
	})
}

// GetUnreadCount godoc
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  UnreadCountResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /unread-count/ [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	count, err := h.notificationUseCase.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "count unread notifications")
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

func callerID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

func (h *NotificationHandler) respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrRecipientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipient not found."})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found."})
	default:
		h.logger.Error("Failed to %s: %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
