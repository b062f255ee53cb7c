package httpserver

import (
	"errors"
	"net/http"

	"tiendanorte/internal/domain"
	productrepo "tiendanorte/internal/repository/product"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listProducts(c *gin.Context) {
	filter := productrepo.ListFilter{
		Brand: c.Query("brand"),
		Query: c.Query("q"),
	}
	products, err := h.deps.Products.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Printf("products: list: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

func (h *handlers) getProduct(c *gin.Context) {
	product, err := h.deps.Products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(c, "product")
			return
		}
		h.logger.Printf("products: get: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, product)
}
