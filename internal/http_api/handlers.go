package http_api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SubscriptionResponse represents the subscription status with expiration
type SubscriptionResponse struct {
	TelegramID int64 `json:"telegram_id"`
	Subscribed bool  `json:"subscribed"`
	ExpiresAt  int64 `json:"expires_at,omitempty"` // Unix timestamp, only if subscribed
	Banned     bool  `json:"banned"`
}

func (s *HTTPServer) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// isSubscribed is a handler for the /is_subscribed endpoint.
// Unknown users are reported as not subscribed.
func (s *HTTPServer) isSubscribed(c *gin.Context) {
	raw := c.Query("telegram_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "telegram_id is required"})
		return
	}
	telegramID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || telegramID <= 0 {
		s.logger.Debug("Invalid telegram id", "telegram_id", raw)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid telegram_id"})
		return
	}

	status, err := s.ostiarius.SubscriptionStatus(c.Request.Context(), telegramID)
	if err != nil {
		s.logger.Error("Failed to get subscription status", "telegram_id", telegramID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get subscription"})
		return
	}

	response := SubscriptionResponse{
		TelegramID: telegramID,
		Subscribed: status.Active,
		Banned:     status.Banned,
	}
	if status.Active && status.Until != nil {
		response.ExpiresAt = status.Until.Unix()
	}
	c.JSON(http.StatusOK, response)
}
