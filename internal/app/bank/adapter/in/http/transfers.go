package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// transferRequest 轉帳請求
// ref_id 可省略，省略時由伺服器產生；重送相同 ref_id 不會重複入帳
type transferRequest struct {
	FromAcc string          `json:"from_acc" binding:"required"`
	ToAcc   string          `json:"to_acc" binding:"required"`
	Amount  decimal.Decimal `json:"amount"`
	RefID   string          `json:"ref_id"`
}

// transfer POST /transfer 從一個帳戶轉帳到另一個帳戶
func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	refID := uuid.New()
	if req.RefID != "" {
		parsed, err := uuid.Parse(req.RefID)
		if err != nil {
			writeBadRequest(c, "invalid ref_id: "+err.Error())
			return
		}
		refID = parsed
	}

	tran := &domain.Transfer{
		RefID:  refID,
		From:   req.FromAcc,
		To:     req.ToAcc,
		Amount: req.Amount,
	}
	if err := s.ledger.Transfer(c.Request.Context(), tran); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "ref_id": refID.String()})
}
