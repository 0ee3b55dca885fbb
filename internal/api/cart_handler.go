package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// getCart returns the caller's cart with totals
func (h *Handler) getCart(c *gin.Context) {
	view, err := h.cart.GetCart(c.Request.Context(), currentIdentity(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Cart retrieved", view)
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity"`
}

// addCartItem puts a product in the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	newQty, err := h.cart.AddItem(c.Request.Context(), currentIdentity(c), req.ProductID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Added to cart", gin.H{"quantity": newQty})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// updateCartItem changes a line's quantity
func (h *Handler) updateCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.cart.UpdateItem(c.Request.Context(), currentIdentity(c), itemID, req.Quantity); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Cart updated", nil)
}

// removeCartItem deletes a line
func (h *Handler) removeCartItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid cart item ID")
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), currentIdentity(c), itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Removed from cart", nil)
}
