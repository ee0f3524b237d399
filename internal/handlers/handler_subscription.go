package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/vidtube/vidtube_backend/internal/core/ports/services"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/middleware"
)

// subscriptionHandler handles HTTP requests related to channel subscriptions.
type subscriptionHandler struct {
	subscriptionService portssvc.SubscriptionSvcFacade
}

// newSubscriptionHandler creates a new subscriptionHandler.
func newSubscriptionHandler(ss portssvc.SubscriptionSvcFacade) *subscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: ss,
	}
}

// registerSubscriptionRoutes registers all subscription-related routes.
func registerSubscriptionRoutes(rg *gin.RouterGroup, subscriptionService portssvc.SubscriptionSvcFacade) {
	h := newSubscriptionHandler(subscriptionService)

	subs := rg.Group("/subscriptions")
	{
		subs.POST("/channels/:channelId/toggle", h.toggleSubscription)
		subs.GET("/channels/:channelId/subscribers/count", h.getSubscriberCount)
		subs.GET("/me/channels/count", h.getSubscribedChannelCount)
	}
}

// toggleSubscription godoc
// @Summary Toggle a subscription to a channel
// @Description Subscribes the authenticated user to the channel, or unsubscribes when a subscription already exists. Self-subscription is rejected.
// @Tags subscriptions
// @Produce json
// @Param channelId path string true "Channel (user) ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/channels/{channelId}/toggle [post]
func (h *subscriptionHandler) toggleSubscription(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}
	channelID := c.Param("channelId")

	sub, subscribed, err := h.subscriptionService.ToggleSubscription(c.Request.Context(), userID, channelID)
	if err != nil {
		logger.Warn("Failed to toggle subscription", slog.String("channel_id", channelID), slog.String("error", err.Error()))
		respondError(c, err, "Failed to toggle subscription")
		return
	}

	resp := dto.ToggleSubscriptionResponse{Subscribed: subscribed}
	message := "Unsubscribed successfully"
	if subscribed {
		subResp := dto.ToSubscriptionResponse(sub)
		resp.Subscription = &subResp
		message = "Subscribed successfully"
	}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, resp, message))
}

// getSubscriberCount godoc
// @Summary Count a channel's subscribers
// @Tags subscriptions
// @Produce json
// @Param channelId path string true "Channel (user) ID"
// @Success 200 {object} dto.Response
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/channels/{channelId}/subscribers/count [get]
func (h *subscriptionHandler) getSubscriberCount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	channelID := c.Param("channelId")

	count, err := h.subscriptionService.GetSubscriberCount(c.Request.Context(), channelID)
	if err != nil {
		logger.Warn("Failed to count subscribers", slog.String("channel_id", channelID), slog.String("error", err.Error()))
		respondError(c, err, "Failed to count subscribers")
		return
	}

	resp := dto.SubscriberCountResponse{ChannelID: channelID, SubscriberCount: count}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, resp, "Subscriber count fetched successfully"))
}

// getSubscribedChannelCount godoc
// @Summary Count channels the authenticated user subscribes to
// @Tags subscriptions
// @Produce json
// @Success 200 {object} dto.Response
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /subscriptions/me/channels/count [get]
func (h *subscriptionHandler) getSubscribedChannelCount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
		return
	}

	count, err := h.subscriptionService.GetSubscribedChannelCount(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to count subscribed channels", slog.String("error", err.Error()))
		respondError(c, err, "Failed to count subscribed channels")
		return
	}

	resp := dto.SubscribedChannelCountResponse{SubscriberID: userID, SubscribedToChannels: count}
	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, resp, "Subscribed channel count fetched successfully"))
}
