package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"petshop/api/middleware"
	"petshop/internal/models"
	"petshop/internal/services"
)

type CartHandler struct {
	cartService *services.CartService
	logger      *zap.Logger
}

func NewCartHandler(cartService *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GET /api/cart
// Get current user's cart, creating it on first access
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetOrCreate(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// POST /api/cart
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), middleware.UserID(c), req.PetID, req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// PUT /api/cart/:itemId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateItemQuantity(c.Request.Context(), middleware.UserID(c), c.Param("itemId"), req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// DELETE /api/cart/:itemId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("itemId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

// DELETE /api/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
