package httpserver

import (
	"context"
	"errors"
	"net/http"

	"tiendanorte/internal/domain"
	customersvc "tiendanorte/internal/service/customer"

	"github.com/gin-gonic/gin"
)

type orderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

func (h *handlers) getAccount(c *gin.Context) {
	user := currentUser(c)
	addresses, err := h.deps.Customers.ListAddresses(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Printf("account: addresses: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "addresses": addresses})
}

func (h *handlers) listOrders(c *gin.Context) {
	user := currentUser(c)
	orders, err := h.deps.Orders.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Printf("account: orders: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// getOrder only serves orders owned by the authenticated user; anything
// else reads as not found.
func (h *handlers) getOrder(c *gin.Context) {
	user := currentUser(c)
	order, err := h.deps.Orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(c, "order")
			return
		}
		h.logger.Printf("account: order: %v", err)
		internalError(c)
		return
	}
	if order.UserID == nil || *order.UserID != user.ID {
		notFound(c, "order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *handlers) listAddresses(c *gin.Context) {
	user := currentUser(c)
	addresses, err := h.deps.Customers.ListAddresses(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Printf("account: addresses: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

func (h *handlers) addAddress(c *gin.Context) {
	var in customersvc.AddressInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	user := currentUser(c)
	address, err := h.deps.Customers.AddAddress(c.Request.Context(), user.ID, in)
	if err != nil {
		h.logger.Printf("account: add address: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusCreated, address)
}

func (h *handlers) deleteAddress(c *gin.Context) {
	user := currentUser(c)
	err := h.deps.Customers.DeleteAddress(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(c, "address")
			return
		}
		h.logger.Printf("account: delete address: %v", err)
		internalError(c)
		return
	}
	c.Status(http.StatusNoContent)
}
