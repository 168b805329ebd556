package public

import (
	"strings"

	handlershared "github.com/decalforge/decalforge/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cartTokenHeader = "X-Cart-Token"

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

// cartToken reads the cart token from the header, falling back to the
// query string for clients that cannot set headers.
func cartToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(cartTokenHeader)); token != "" {
		return token
	}
	return strings.TrimSpace(c.Query("cart_token"))
}
