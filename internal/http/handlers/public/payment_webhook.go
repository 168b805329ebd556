package public

import (
	"io"
	"strings"

	"github.com/decalforge/decalforge/internal/http/response"

	"github.com/gin-gonic/gin"
)

// StripeWebhook receives Stripe events. The service verifies the
// signature before anything is trusted, so the raw body is passed
// through untouched.
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	log.Infow("stripe_webhook_received",
		"client_ip", c.ClientIP(),
		"body_size", len(body),
		"stripe_signature", truncateForLog(strings.TrimSpace(c.GetHeader("Stripe-Signature"))),
	)

	headers := make(map[string]string)
	for key, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	if err := h.StripeWebhookService.HandleEvent(headers, body); err != nil {
		log.Warnw("stripe_webhook_handle_failed", "error", err)
		respondError(c, response.CodeBadRequest, "webhook rejected", err)
		return
	}

	response.Success(c, gin.H{"accepted": true})
}

func truncateForLog(value string) string {
	const max = 64
	if len(value) <= max {
		return value
	}
	return value[:max] + "..."
}
