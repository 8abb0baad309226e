// internal/handler/categories.go
package handler

import (
	"net/http"

	"finance-tracker/internal/domain"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories godoc
// @Summary List categories
// @Tags categories
// @Security BearerAuth
// @Param type query string false "income or expense"
// @Success 200 {object} Response{data=[]domain.Category}
// @Router /api/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	var q CategoryQuery
	if !bindQuery(c, &q) {
		return
	}
	list, err := h.svc.Categories.List(c.Request.Context(), middleware.UserID(c), domain.TransactionType(q.Type))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(list), Total: len(list), Page: 1, Pages: 1, Data: list})
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	category, err := h.svc.Categories.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	respond(c, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} Response{data=domain.Category}
// @Failure 409 {object} Response
// @Router /api/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.svc.Categories.Create(c.Request.Context(), middleware.UserID(c), service.CategoryInput{
		Name:  req.Name,
		Type:  domain.TransactionType(req.Type),
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusCreated, "Category created successfully", category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.svc.Categories.Update(c.Request.Context(), middleware.UserID(c), id, req.toPatch())
	if err != nil {
		_ = c.Error(err)
		return
	}
	respondMessage(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory godoc
// @Summary Delete a custom category
// @Description Default categories and categories still in use are kept
// @Tags categories
// @Security BearerAuth
// @Param id path string true "Category id"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c, "category")
	if !ok {
		return
	}
	if err := h.svc.Categories.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		_ = c.Error(err)
		return
	}
	noContent(c, "Category deleted successfully")
}
