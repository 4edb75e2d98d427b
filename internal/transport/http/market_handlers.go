package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/transport/http/middleware"
)

type productRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Description  string                 `json:"description"`
	Price        decimal.Decimal        `json:"price"`
	Quantity     int                    `json:"quantity"`
	Image        *string                `json:"image"`
	Category     *model.ProductCategory `json:"category"`
	Tags         []string               `json:"tags"`
	RedirectLink *string                `json:"redirect_link"`
}

func (r productRequest) toModel() model.Product {
	return model.Product{
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		Quantity:     r.Quantity,
		Image:        r.Image,
		Category:     r.Category,
		Tags:         r.Tags,
		RedirectLink: r.RedirectLink,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) createProduct(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body productRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := body.toModel()
	p.OwnerID = userID
	created, err := h.market.CreateProduct(c.Request.Context(), p)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": created})
}

// listProducts serves the storefront; ?category= narrows it to one category.
func (h *Handler) listProducts(c *gin.Context) {
	limit, offset := pagination(c)
	ctx := c.Request.Context()

	var (
		products []model.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.market.ListByCategory(ctx, model.ProductCategory(category), limit, offset)
	} else {
		products, err = h.market.ListProducts(ctx, limit, offset)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) listMyProducts(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	limit, offset := pagination(c)

	products, err := h.market.ListOwnerProducts(c.Request.Context(), userID, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) searchProducts(c *gin.Context) {
	limit, offset := pagination(c)

	products, err := h.market.Search(c.Request.Context(), c.Query("query"), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	p, err := h.market.GetProduct(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

func (h *Handler) updateProduct(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	var body productRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := body.toModel()
	p.ID = id
	updated, err := h.market.UpdateProduct(c.Request.Context(), userID, p)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": updated})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.market.DeleteProduct(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}

	var body reviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.market.CreateReview(c.Request.Context(), userID, id, body.Rating, body.Comment)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *Handler) listReviews(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	reviews, err := h.market.ListReviews(c.Request.Context(), id, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *Handler) updateReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var body reviewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.market.UpdateReview(c.Request.Context(), userID, id, body.Rating, body.Comment)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (h *Handler) deleteReview(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.market.DeleteReview(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
