package handlers

import (
	"strconv"

	"newsdesk/helper"
	"newsdesk/middleware"
	"newsdesk/models"
	"newsdesk/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, h *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, Helper: h}
}

// GetPublicArticles lists approved articles, newest first.
func (h *ArticleHandler) GetPublicArticles(c *gin.Context) {
	articles, err := h.articleService.ListPublic(c.Request.Context())
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Articles retrieved", articles)
}

func (h *ArticleHandler) GetPublicArticle(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	article, err := h.articleService.GetPublic(c.Request.Context(), id)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Article retrieved", article)
}

// Dashboard lists the journalist's own articles in every status.
func (h *ArticleHandler) Dashboard(c *gin.Context) {
	articles, err := h.articleService.Dashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Articles retrieved", articles)
}

func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	user := middleware.CurrentUser(c)
	// the role check runs before validation so non-journalists never see field errors
	if err := services.Authorize(user, services.OpCreateArticle); err != nil {
		h.Helper.SendError(c, err)
		return
	}

	var req models.CreateArticleRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	article, err := h.articleService.CreateArticle(c.Request.Context(), user, req)
	if err != nil {
		h.Helper.SendError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Article submitted for review", article)
}

func (h *ArticleHandler) pathID(c *gin.Context, name string) (uint, bool) {
	return parseID(c, h.Helper, name)
}

func parseID(c *gin.Context, h *helper.HTTPHelper, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.SendError(c, models.ErrorNotFound{Message: "not found"})
		return 0, false
	}
	return uint(id), true
}
