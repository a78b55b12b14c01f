package handlers

import (
	"net/http"

	"flock/services/billing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BillingHandler serves the checkout and webhook endpoints.
type BillingHandler struct {
	svc billing.BillingService
}

// NewBillingHandler creates a BillingHandler backed by the given service.
func NewBillingHandler(svc billing.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateCheckoutSessionHandler handles POST /create-checkout-session.
func (h *BillingHandler) CreateCheckoutSessionHandler(c *gin.Context) {
	var req struct {
		PriceID string `json:"priceId" binding:"required"`
		Email   string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	sessionID, err := h.svc.CreateCheckoutSession(req.PriceID, req.Email)
	if err != nil {
		getLogger(c).Error("Failed to create checkout session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": sessionID})
}

// WebhookHandler handles POST /webhook. The signature is verified over the
// raw body, so this route must not run through any JSON binding first.
func (h *BillingHandler) WebhookHandler(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.svc.HandleWebhook(payload, signature); err != nil {
		getLogger(c).Warn("Webhook rejected", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
