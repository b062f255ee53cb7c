package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"tiendanorte/internal/domain"
	cartsvc "tiendanorte/internal/service/cart"

	"github.com/gin-gonic/gin"
)

const (
	cartCookieName   = "tn_cart"
	cartCookieMaxAge = 30 * 24 * 60 * 60
)

// identity is the resolved caller: an account user or a guest session
// token (possibly freshly minted).
type identity struct {
	userID       string
	sessionToken string
}

// resolveIdentity prefers a valid bearer token over the guest cookie. An
// invalid or expired bearer token silently degrades to guest.
func (h *handlers) resolveIdentity(c *gin.Context) identity {
	if token := bearerToken(c); token != "" {
		if u, err := h.deps.Customers.LookupByToken(c.Request.Context(), token); err == nil {
			return identity{userID: u.ID}
		}
	}
	cookie, err := c.Cookie(cartCookieName)
	if err != nil {
		return identity{}
	}
	return identity{sessionToken: cookie}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// bindCartCookie persists the cart's session token so repeat guest visits
// resolve to the same cart. The cookie is re-set on every guest response,
// sliding the expiry forward from the latest visit rather than the first.
// No-op for account carts.
func (h *handlers) bindCartCookie(c *gin.Context, cart *domain.Cart) {
	if cart.SessionToken == nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookieName, *cart.SessionToken, cartCookieMaxAge, "/", "", true, true)
}

func (h *handlers) getCart(c *gin.Context) {
	id := h.resolveIdentity(c)
	cart, err := h.deps.Carts.Ensure(c.Request.Context(), id.userID, id.sessionToken)
	if err != nil {
		h.logger.Printf("cart: ensure: %v", err)
		internalError(c)
		return
	}
	h.bindCartCookie(c, cart)

	summary, err := h.deps.Carts.RefreshTotals(c.Request.Context(), cart.ID)
	if err != nil {
		h.logger.Printf("cart: refresh totals: %v", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

func (h *handlers) upsertCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := h.resolveIdentity(c)
	cart, err := h.deps.Carts.Ensure(c.Request.Context(), id.userID, id.sessionToken)
	if err != nil {
		h.logger.Printf("cart: ensure: %v", err)
		internalError(c)
		return
	}
	h.bindCartCookie(c, cart)

	summary, err := h.deps.Carts.UpsertItem(c.Request.Context(), cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		h.cartMutationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

// updateCartItem sets a line quantity. A non-positive quantity removes the
// line instead of failing.
func (h *handlers) updateCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := h.resolveIdentity(c)
	cart, err := h.deps.Carts.Ensure(c.Request.Context(), id.userID, id.sessionToken)
	if err != nil {
		h.logger.Printf("cart: ensure: %v", err)
		internalError(c)
		return
	}
	h.bindCartCookie(c, cart)

	var summary *domain.CartSummary
	if req.Quantity <= 0 {
		summary, err = h.deps.Carts.RemoveItem(c.Request.Context(), cart.ID, req.ProductID)
	} else {
		summary, err = h.deps.Carts.UpsertItem(c.Request.Context(), cart.ID, req.ProductID, req.Quantity)
	}
	if err != nil {
		h.cartMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

type cartRemoveRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *handlers) removeCartItem(c *gin.Context) {
	var req cartRemoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := h.resolveIdentity(c)
	cart, err := h.deps.Carts.Ensure(c.Request.Context(), id.userID, id.sessionToken)
	if err != nil {
		h.logger.Printf("cart: ensure: %v", err)
		internalError(c)
		return
	}
	h.bindCartCookie(c, cart)

	summary, err := h.deps.Carts.RemoveItem(c.Request.Context(), cart.ID, req.ProductID)
	if err != nil {
		h.cartMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) cartMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
	case errors.Is(err, cartsvc.ErrProductNotFound):
		notFound(c, "product")
	case errors.Is(err, domain.ErrNotFound):
		notFound(c, "cart")
	default:
		h.logger.Printf("cart: mutation: %v", err)
		internalError(c)
	}
}
