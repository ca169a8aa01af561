package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// unexpectedErrorMsg 對外的通用錯誤訊息，不洩漏內部細節
const unexpectedErrorMsg = "Error processing request"

// writeError 將核心錯誤對應到狀態碼：
// 銀行規則錯誤 -> 422 (帶錯誤訊息)；儲存層故障 -> 503；其餘 -> 500
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsBankingError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable):
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("storage unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": unexpectedErrorMsg})
	default:
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": unexpectedErrorMsg})
	}
}

// writeBadRequest 請求本身無法解析 (非核心錯誤)
func writeBadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}
