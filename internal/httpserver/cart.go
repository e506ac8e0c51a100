package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Rishusingh18/industrie24/internal/domain"
	"github.com/Rishusingh18/industrie24/internal/engine"
	"github.com/Rishusingh18/industrie24/internal/session"
	"github.com/gin-gonic/gin"
)

type cartResponse struct {
	LineItems  []domain.CartLine `json:"lineItems"`
	TotalCents int64             `json:"totalCents"`
	Count      int               `json:"count"`
}

func cartResponseFrom(s *session.Session) cartResponse {
	snap := s.Engine.Snapshot()
	return cartResponse{
		LineItems:  nonNilLines(snap.Cart),
		TotalCents: snap.CartTotalCents(),
		Count:      snap.CartCount(),
	}
}

type addItemRequest struct {
	ProductID      int64  `json:"productId" binding:"required"`
	Name           string `json:"name" binding:"required"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	ImageURL       string `json:"imageUrl"`
}

func (r addItemRequest) product() engine.ProductInfo {
	return engine.ProductInfo{
		ProductID:      r.ProductID,
		Name:           r.Name,
		UnitPriceCents: r.UnitPriceCents,
		ImageURL:       r.ImageURL,
	}
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func getCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartResponseFrom(sessionFrom(c)))
	}
}

func addItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and name required"})
			return
		}
		s := sessionFrom(c)
		s.Engine.AddItem(req.product())
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}

func setQuantityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := productIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		var req setQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
			return
		}
		s := sessionFrom(c)
		s.Engine.SetQuantity(productID, *req.Quantity)
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}

func removeItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := productIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		s := sessionFrom(c)
		s.Engine.RemoveItem(productID)
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}

func clearCartHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionFrom(c)
		s.Engine.ClearCart()
		c.JSON(http.StatusOK, cartResponseFrom(s))
	}
}

func productIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("productId"), 10, 64)
}

func nonNilLines(lines []domain.CartLine) []domain.CartLine {
	if lines == nil {
		return []domain.CartLine{}
	}
	return lines
}
