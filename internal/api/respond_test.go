package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sweetiegarden/internal/service"
	"sweetiegarden/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"empty cart", store.ErrEmptyCart, http.StatusBadRequest},
		{"insufficient stock", &store.InsufficientStockError{ProductName: "Cake A", Available: 1}, http.StatusConflict},
		{"product not found", store.ErrProductNotFound, http.StatusNotFound},
		{"order not found", store.ErrOrderNotFound, http.StatusNotFound},
		{"coupon code taken", store.ErrCouponCodeTaken, http.StatusConflict},
		{"coupon in use", store.ErrCouponInUse, http.StatusConflict},
		{"email taken", store.ErrEmailTaken, http.StatusConflict},
		{"invalid transition", store.ErrInvalidTransition, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", service.ErrAccountDisabled, http.StatusForbidden},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"bad payment method", service.ErrUnknownPaymentMethod, http.StatusBadRequest},
		{"bad quantity", service.ErrInvalidQuantity, http.StatusBadRequest},
		{"wrapped sentinel", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestRespondEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondOK(c, "All good", gin.H{"value": 1})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "All good", body["message"])
	assert.NotNil(t, body["data"])
}

func TestRespondEnvelopeOmitsNilData(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondOK(c, "Done", nil)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	_, hasData := body["data"]
	assert.False(t, hasData)
}
