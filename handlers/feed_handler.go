package handlers

import (
	"context"
	"net/http"

	"newsdesk/helper"
	"newsdesk/middleware"
	"newsdesk/models"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

// FeedHandler serves the read API. Successful responses are bare JSON
// arrays rather than the envelope used elsewhere.
type FeedHandler struct {
	feedService services.FeedService
	Helper      *helper.HTTPHelper
}

func NewFeedHandler(feedService services.FeedService, h *helper.HTTPHelper) *FeedHandler {
	return &FeedHandler{feedService: feedService, Helper: h}
}

func (h *FeedHandler) Feed(c *gin.Context) {
	h.serve(c, h.feedService.Feed)
}

func (h *FeedHandler) Publishers(c *gin.Context) {
	h.serve(c, h.feedService.PublisherFeed)
}

func (h *FeedHandler) Journalists(c *gin.Context) {
	h.serve(c, h.feedService.JournalistFeed)
}

func (h *FeedHandler) serve(c *gin.Context, read func(context.Context, *models.User) ([]models.ArticleResponse, error)) {
	items, err := read(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	if items == nil {
		items = []models.ArticleResponse{}
	}
	c.JSON(http.StatusOK, items)
}
