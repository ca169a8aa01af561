package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// accountResponse 帳戶的對外表示
type accountResponse struct {
	Number  string          `json:"number"`
	Balance decimal.Decimal `json:"balance"`
	UserID  int64           `json:"user_id"`
}

func toAccountResponse(account *domain.Account) accountResponse {
	return accountResponse{
		Number:  account.Number,
		Balance: account.Balance,
		UserID:  account.UserID,
	}
}

// getAllAccounts GET /accounts 查詢所有帳戶
func (s *Server) getAllAccounts(c *gin.Context) {
	accounts, err := s.ledger.ListAccounts(c.Request.Context(), nil)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, responses)
}

// getUserAccounts GET /accounts/:user_id 查詢某使用者的帳戶
func (s *Server) getUserAccounts(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "user_id must be an integer")
		return
	}
	accounts, err := s.ledger.ListAccounts(c.Request.Context(), &userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, responses)
}

// getAccount GET /account/:number 查詢單一帳戶
func (s *Server) getAccount(c *gin.Context) {
	account, err := s.ledger.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResponse(account))
}

// createAccountRequest 開戶請求；balance 省略時為 0
type createAccountRequest struct {
	Number  string          `json:"number" binding:"required"`
	UserID  int64           `json:"user_id" binding:"required"`
	Balance decimal.Decimal `json:"balance"`
}

// createAccount POST /create_account 建立帳戶並掛到既有使用者
func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}
	if err := s.ledger.CreateAccount(c.Request.Context(), req.Number, req.UserID, req.Balance); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
