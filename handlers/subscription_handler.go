package handlers

import (
	"newsdesk/helper"
	"newsdesk/middleware"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService services.SubscriptionService
	Helper              *helper.HTTPHelper
}

func NewSubscriptionHandler(subscriptionService services.SubscriptionService, h *helper.HTTPHelper) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, Helper: h}
}

func (h *SubscriptionHandler) ListPublishers(c *gin.Context) {
	items, err := h.subscriptionService.ListPublishers(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Publishers retrieved", items)
}

func (h *SubscriptionHandler) TogglePublisher(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	result, err := h.subscriptionService.TogglePublisher(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	message := "Unsubscribed"
	if result.Active {
		message = "Subscribed"
	}
	h.Helper.SendSuccess(c, message, result)
}

func (h *SubscriptionHandler) ListJournalists(c *gin.Context) {
	items, err := h.subscriptionService.ListJournalists(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Journalists retrieved", items)
}

func (h *SubscriptionHandler) ToggleJournalist(c *gin.Context) {
	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	result, err := h.subscriptionService.ToggleJournalist(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	var message string
	switch {
	case !result.Changed:
		message = "You cannot follow yourself"
	case result.Active:
		message = "Followed"
	default:
		message = "Unfollowed"
	}
	h.Helper.SendSuccess(c, message, result)
}

func (h *SubscriptionHandler) MySubscriptions(c *gin.Context) {
	resp, err := h.subscriptionService.MySubscriptions(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Subscriptions retrieved", resp)
}
