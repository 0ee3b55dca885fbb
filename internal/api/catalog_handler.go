package api

import (
	"net/http"
	"strconv"

	"sweetiegarden/internal/store"

	"github.com/gin-gonic/gin"
)

// listProducts returns a catalog page. Supported query parameters:
// category, search, sort, min_price, max_price, page, limit.
func (h *Handler) listProducts(c *gin.Context) {
	filter := store.ProductFilter{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 0),
	}

	switch filter.Sort {
	case "", store.SortNewest, store.SortPriceAsc, store.SortPriceDesc, store.SortPopular:
	default:
		respondError(c, http.StatusBadRequest, "Unknown sort order")
		return
	}

	if v, ok := queryInt64(c, "min_price"); ok {
		filter.MinPrice = &v
	}
	if v, ok := queryInt64(c, "max_price"); ok {
		filter.MaxPrice = &v
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), currentIdentity(c), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, "Products retrieved", gin.H{
		"products": products,
		"total":    total,
		"page":     filter.Page,
	})
}

// getProduct returns one product by slug
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), currentIdentity(c), c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Product retrieved", product)
}

// listCategories returns the active categories
func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, "Categories retrieved", categories)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

func queryInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
