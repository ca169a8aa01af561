// Package http 是對外的 HTTP adapter (gin)
// 核心只回傳型別化錯誤，狀態碼對應集中在這一層處理
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

type Server struct {
	ledger *usecase.LedgerService
	users  *usecase.UserService
	log    zerolog.Logger
}

func NewServer(ledger *usecase.LedgerService, users *usecase.UserService, log zerolog.Logger) *Server {
	return &Server{
		ledger: ledger,
		users:  users,
		log:    log,
	}
}

// Router 建立路由，路徑沿用原系統的命名
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/accounts", s.getAllAccounts)
	router.GET("/accounts/:user_id", s.getUserAccounts)
	router.GET("/account/:number", s.getAccount)
	router.POST("/create_account", s.createAccount)

	router.POST("/transfer", s.transfer)

	router.GET("/users", s.getUsers)
	router.GET("/users/:user_id", s.getUser)
	router.POST("/create_user", s.createUser)
	router.PUT("/update_user/:user_id", s.updateUser)

	return router
}
