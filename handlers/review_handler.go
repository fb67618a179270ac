package handlers

import (
	"newsdesk/helper"
	"newsdesk/middleware"
	"newsdesk/models"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	baseURL       string
	Helper        *helper.HTTPHelper
}

// NewReviewHandler builds the editor endpoints. baseURL prefixes the
// article links placed in notifications and announcements.
func NewReviewHandler(reviewService services.ReviewService, baseURL string, h *helper.HTTPHelper) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, baseURL: baseURL, Helper: h}
}

func (h *ReviewHandler) Queue(c *gin.Context) {
	articles, err := h.reviewService.Queue(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Pending articles retrieved", articles)
}

func (h *ReviewHandler) Decide(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := services.Authorize(user, services.OpDecideArticle); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	id, ok := parseID(c, h.Helper, "id")
	if !ok {
		return
	}

	var req models.DecideRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	result, err := h.reviewService.Decide(c.Request.Context(), user, id, req, h.baseURL)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}

	message := "Decision recorded"
	if !result.Applied {
		message = "No change"
	}
	h.Helper.SendSuccess(c, message, result)
}
