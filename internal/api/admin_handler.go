package api

import (
	"net/http"
	"strconv"

	"sweetiegarden/internal/service"
	"sweetiegarden/internal/store"

	"github.com/gin-gonic/gin"
)

// createCoupon creates a new coupon
func (h *Handler) createCoupon(c *gin.Context) {
	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	coupon, err := h.coupons.CreateCoupon(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, "Coupon created", coupon)
}

// updateCoupon updates a coupon's terms
func (h *Handler) updateCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	var req service.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	coupon, err := h.coupons.UpdateCoupon(c.Request.Context(), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Coupon updated", coupon)
}

// deleteCoupon removes a never-redeemed coupon
func (h *Handler) deleteCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	if err := h.coupons.DeleteCoupon(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Coupon deleted", nil)
}

// getCoupon fetches one coupon
func (h *Handler) getCoupon(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid coupon ID")
		return
	}

	coupon, err := h.coupons.GetCoupon(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Coupon retrieved", coupon)
}

// listCoupons returns a page of coupons
func (h *Handler) listCoupons(c *gin.Context) {
	filter := store.CouponFilter{
		Status: c.Query("status"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 0),
	}

	coupons, total, err := h.coupons.ListCoupons(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Coupons retrieved", gin.H{
		"coupons": coupons,
		"total":   total,
	})
}

// dashboardStats returns the dashboard numbers for a period (today by
// default)
func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.orders.GetDashboardStats(c.Request.Context(), c.Query("period"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Stats retrieved", stats)
}
