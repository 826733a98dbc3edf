package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-core/internal/cart"
	"storefront-core/internal/domain"
	"storefront-core/internal/pricing"
)

type addItemRequest struct {
	ItemID         string                   `json:"itemId" binding:"required"`
	Variant        string                   `json:"variant"`
	DisplayName    string                   `json:"displayName" binding:"required"`
	UnitPriceCents int64                    `json:"unitPriceCents" binding:"min=0"`
	ImageRef       string                   `json:"imageRef"`
	Subscription   *domain.SubscriptionMeta `json:"subscription"`
}

type setQuantityRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Variant  string `json:"variant"`
	Quantity int    `json:"quantity"`
}

type applyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

func getCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, viewOf(currentSession(c).Store()))
	}
}

func addItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		store := currentSession(c).Store()
		store.AddItem(cart.AddInput{
			ItemID:         strings.TrimSpace(req.ItemID),
			Variant:        strings.TrimSpace(req.Variant),
			DisplayName:    req.DisplayName,
			UnitPriceCents: req.UnitPriceCents,
			ImageRef:       req.ImageRef,
			Subscription:   req.Subscription,
		})
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func setQuantityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		store := currentSession(c).Store()
		store.SetQuantity(strings.TrimSpace(req.ItemID), strings.TrimSpace(req.Variant), req.Quantity)
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func removeItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID := strings.TrimSpace(c.Query("itemId"))
		if itemID == "" {
			c.JSON(http.StatusBadRequest, errorBody("itemId query parameter required"))
			return
		}
		store := currentSession(c).Store()
		store.RemoveItem(itemID, strings.TrimSpace(c.Query("variant")))
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		store := currentSession(c).Store()
		store.Clear()
		c.JSON(http.StatusOK, viewOf(store))
	}
}

func applyPromoHandler(promos *pricing.PromoTable) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyPromoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		promo, err := promos.Validate(req.Code)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidPromoCode) {
				c.JSON(http.StatusNotFound, errorBody("unknown promo code"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorBody("promo validation failed"))
			return
		}
		store := currentSession(c).Store()
		store.ApplyPromo(promo)
		c.JSON(http.StatusOK, viewOf(store))
	}
}
