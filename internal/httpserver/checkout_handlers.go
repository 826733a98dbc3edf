package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-core/internal/checkout"
	"storefront-core/internal/domain"
	orderrepo "storefront-core/internal/repository/order"
)

type checkoutRequest struct {
	Shipping domain.Address `json:"shippingAddress" binding:"required"`
}

func checkoutHandler(orch *checkout.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		order, err := orch.Submit(c.Request.Context(), currentSession(c), checkout.SubmitInput{Shipping: req.Shipping})
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrAuthenticationRequired):
				c.JSON(http.StatusUnauthorized, errorBody("sign in to check out"))
			case errors.Is(err, domain.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, errorBody("cart is empty"))
			case errors.Is(err, domain.ErrCheckoutInFlight):
				c.JSON(http.StatusConflict, errorBody("checkout already in progress"))
			case errors.Is(err, domain.ErrOrderSubmission):
				c.JSON(http.StatusBadGateway, errorBody(err.Error()))
			default:
				c.JSON(http.StatusInternalServerError, errorBody("checkout failed"))
			}
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func getOrderHandler(orders orderrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, errorBody("sign in to view orders"))
			return
		}
		order, err := orders.GetByID(c.Request.Context(), user.UserID, c.Param("orderId"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, errorBody("order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorBody("order lookup failed"))
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
