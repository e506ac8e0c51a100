package httpserver

import (
	"net/http"

	"github.com/Rishusingh18/industrie24/internal/domain"
	"github.com/gin-gonic/gin"
)

type wishlistResponse struct {
	Entries []domain.WishlistEntry `json:"entries"`
}

func getWishlistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionFrom(c)
		c.JSON(http.StatusOK, wishlistResponse{Entries: nonNilEntries(s.Engine.WishlistEntries())})
	}
}

func toggleWishlistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and name required"})
			return
		}
		s := sessionFrom(c)
		s.Engine.ToggleWishlist(req.product())
		c.JSON(http.StatusOK, wishlistResponse{Entries: nonNilEntries(s.Engine.WishlistEntries())})
	}
}

func removeFromWishlistHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := productIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		s := sessionFrom(c)
		s.Engine.RemoveFromWishlist(productID)
		c.JSON(http.StatusOK, wishlistResponse{Entries: nonNilEntries(s.Engine.WishlistEntries())})
	}
}

func nonNilEntries(entries []domain.WishlistEntry) []domain.WishlistEntry {
	if entries == nil {
		return []domain.WishlistEntry{}
	}
	return entries
}
