package httpserver

import (
	"errors"
	"net/http"

	"tiendanorte/internal/domain"
	checkoutsvc "tiendanorte/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

func (h *handlers) checkout(c *gin.Context) {
	var in checkoutsvc.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	id := h.resolveIdentity(c)
	result, err := h.deps.Checkout.Checkout(c.Request.Context(), id.userID, id.sessionToken, in)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		h.logger.Printf("checkout: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, result)
}
