package api

import (
	"net/http"
	"strconv"

	"sweetiegarden/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder places an order from the caller's cart. Guests may order;
// their contact details come from the shipping block. An Idempotency-Key
// header makes the request safe to retry.
func (h *Handler) createOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.orders.PlaceOrder(c.Request.Context(), currentIdentity(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if resp.Duplicate {
		respondOK(c, "Order already placed", resp)
		return
	}

	message := "Order placed successfully"
	if resp.CouponWarning != "" {
		message = resp.CouponWarning
	}
	respondCreated(c, message, resp)
}

// getOrder returns one order with its items. The :id parameter accepts
// either the numeric ID or the order number.
func (h *Handler) getOrder(c *gin.Context) {
	param := c.Param("id")

	var detail *service.OrderDetail
	var err error
	if id, convErr := strconv.ParseInt(param, 10, 64); convErr == nil {
		detail, err = h.orders.GetOrder(c.Request.Context(), currentIdentity(c), id, "")
	} else {
		detail, err = h.orders.GetOrder(c.Request.Context(), currentIdentity(c), 0, param)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Order retrieved", detail)
}

// listOrders returns a page of orders: the caller's own, or every order
// for admins. Admins may filter by status.
func (h *Handler) listOrders(c *gin.Context) {
	orders, total, err := h.orders.ListOrders(
		c.Request.Context(),
		currentIdentity(c),
		c.Query("status"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", 0),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Orders retrieved", gin.H{
		"orders": orders,
		"total":  total,
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus moves an order along the fulfillment chain
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	change, err := h.orders.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Order status updated", change)
}
