package httpserver

import (
	"net/http"

	"github.com/Rishusingh18/industrie24/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	sessionHeader = "X-Session-Token"
	sessionCtxKey = "storefront.session"
)

// sessionRequired resolves the bearer token into a session or rejects the
// request. Every route past this middleware can assume sessionFrom succeeds.
func sessionRequired(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(sessionHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		s, ok := sessions.Lookup(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(sessionCtxKey, s)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionCtxKey).(*session.Session)
}

type sessionResponse struct {
	Token     string `json:"token"`
	ProfileID string `json:"profileId"`
}

func createSessionHandler(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := sessions.Create()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
			return
		}
		c.JSON(http.StatusCreated, sessionResponse{Token: s.Token, ProfileID: s.ProfileID})
	}
}

type signInRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// signInHandler drives the identity observer; the engine's reconciliation
// pass runs synchronously before the response, so the body already reflects
// the merged cart.
func signInHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
			return
		}
		s := sessionFrom(c)
		s.Identity.SignIn(req.UserID)
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}

func signOutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionFrom(c)
		s.Identity.SignOut()
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}
