package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-core/internal/domain"
	"storefront-core/internal/service/identity"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func issueDeviceToken(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, deviceID, err := ids.IssueDevice(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, errorBody("token issuance failed"))
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"token":    token,
			"deviceId": deviceID,
		})
	}
}

func signupHandler(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req identity.SignupInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		customer, err := ids.Signup(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusConflict, errorBody("email already registered"))
				return
			}
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		c.JSON(http.StatusCreated, customer)
	}
}

func signInHandler(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		user, err := ids.SignIn(c.Request.Context(), currentToken(c), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCredentials) || errors.Is(err, identity.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, errorBody("invalid credentials"))
				return
			}
			c.JSON(http.StatusInternalServerError, errorBody("sign-in failed"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"userId": user.UserID,
			"email":  user.Email,
		})
	}
}

func signOutHandler(ids *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ids.SignOut(c.Request.Context(), currentToken(c)); err != nil {
			c.JSON(http.StatusUnauthorized, errorBody("invalid device token"))
			return
		}
		c.Status(http.StatusNoContent)
	}
}
