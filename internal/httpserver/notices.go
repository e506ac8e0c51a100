package httpserver

import (
	"net/http"

	"github.com/Rishusingh18/industrie24/internal/engine"
	"github.com/gin-gonic/gin"
)

type noticesResponse struct {
	Notices []engine.Notice `json:"notices"`
}

// noticesHandler drains pending toast payloads for the session. Reading is
// destructive: a notice is delivered once.
func noticesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessionFrom(c)
		notices := s.Notices.Drain()
		if notices == nil {
			notices = []engine.Notice{}
		}
		c.JSON(http.StatusOK, noticesResponse{Notices: notices})
	}
}
