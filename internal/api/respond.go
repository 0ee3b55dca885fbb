package api

import (
	"errors"
	"net/http"

	"sweetiegarden/internal/service"
	"sweetiegarden/internal/store"
	"sweetiegarden/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every response uses the same envelope: success, a human message, and
// an optional data payload.

func respondOK(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusOK, message, data)
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	respond(c, http.StatusCreated, message, data)
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondServiceError maps known domain errors to their HTTP status.
// Anything unrecognized becomes a 500 with a generic message; the real
// error goes to the log only.
func respondServiceError(c *gin.Context, err error) {
	var stockErr *store.InsufficientStockError

	switch {
	case errors.Is(err, store.ErrEmptyCart):
		respondError(c, http.StatusBadRequest, "Your cart is empty")
	case errors.As(err, &stockErr):
		respondError(c, http.StatusConflict, stockErr.Error())
	case errors.Is(err, store.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, store.ErrCartItemNotFound):
		respondError(c, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, store.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, store.ErrCouponNotFound):
		respondError(c, http.StatusNotFound, "Coupon not found")
	case errors.Is(err, store.ErrCouponCodeTaken):
		respondError(c, http.StatusConflict, "A coupon with this code already exists")
	case errors.Is(err, store.ErrCouponInUse):
		respondError(c, http.StatusConflict, "Coupon has been redeemed and cannot be deleted")
	case errors.Is(err, store.ErrEmailTaken):
		respondError(c, http.StatusConflict, "Email is already registered")
	case errors.Is(err, store.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "Order cannot move to that status")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, "You do not have access to this resource")
	case errors.Is(err, service.ErrUnknownPaymentMethod),
		errors.Is(err, service.ErrUnknownStatus),
		errors.Is(err, service.ErrUnknownPeriod),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidDiscount),
		errors.Is(err, service.ErrInvalidCouponWindow):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		util.GetLogger().Error("Request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
