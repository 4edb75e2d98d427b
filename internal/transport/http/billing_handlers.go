package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mimipoint/backend/internal/domain/model"
	"github.com/mimipoint/backend/internal/transport/http/middleware"
)

type planRequest struct {
	Name            string                `json:"name" binding:"required"`
	Description     string                `json:"description"`
	Price           decimal.Decimal       `json:"price" binding:"required"`
	NoOfProducts    int                   `json:"no_of_products"`
	BillingCycle    model.BillingCycle    `json:"billing_cycle"`
	BillingCategory model.BillingCategory `json:"billing_category"`
}

type subscribeRequest struct {
	PlanID   uuid.UUID `json:"plan_id" binding:"required"`
	WalletID uuid.UUID `json:"wallet_id" binding:"required"`
}

func (h *Handler) createPlan(c *gin.Context) {
	var body planRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.billing.CreatePlan(c.Request.Context(), model.Plan{
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		NoOfProducts:    body.NoOfProducts,
		BillingCycle:    body.BillingCycle,
		BillingCategory: body.BillingCategory,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) updatePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	var body planRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := model.Plan{
		ID:              id,
		Name:            body.Name,
		Description:     body.Description,
		Price:           body.Price,
		NoOfProducts:    body.NoOfProducts,
		BillingCycle:    body.BillingCycle,
		BillingCategory: body.BillingCategory,
	}
	if err := h.billing.UpdatePlan(c.Request.Context(), plan); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) deletePlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	if err := h.billing.DeletePlan(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

func (h *Handler) getPlan(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}
	plan, err := h.billing.GetPlan(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *Handler) listPlans(c *gin.Context) {
	limit, offset := pagination(c)
	plans, err := h.billing.ListPlans(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *Handler) subscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body subscribeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.billing.Subscribe(c.Request.Context(), userID, body.PlanID, body.WalletID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) currentSubscription(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	sub, err := h.billing.Current(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) renewSubscription(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body struct {
		WalletID uuid.UUID `json:"wallet_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.billing.Renew(c.Request.Context(), userID, body.WalletID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) changePlan(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	var body subscribeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.billing.ChangePlan(c.Request.Context(), userID, body.PlanID, body.WalletID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) cancelSubscription(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err := h.billing.Cancel(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subscription cancelled"})
}
