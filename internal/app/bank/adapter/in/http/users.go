package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// coordinatesResponse 地理座標的對外表示
type coordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// userResponse 使用者的對外表示；查無座標時 coordinates 為 null
type userResponse struct {
	ID          int64                `json:"id"`
	Firstname   string               `json:"firstname"`
	Lastname    string               `json:"lastname"`
	Address     string               `json:"address"`
	Coordinates *coordinatesResponse `json:"coordinates"`
}

func toUserResponse(user *domain.User) userResponse {
	resp := userResponse{
		ID:        user.ID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Address:   user.Address,
	}
	if user.Coordinates != nil {
		resp.Coordinates = &coordinatesResponse{
			Latitude:  user.Coordinates.Latitude,
			Longitude: user.Coordinates.Longitude,
		}
	}
	return resp
}

// userRequest 建立與修改使用者共用的請求
// 修改時空欄位表示不變更
type userRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Address   string `json:"address"`
}

// createUser POST /create_user 建立使用者並依地址計算座標
func (s *Server) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}
	if req.Firstname == "" || req.Lastname == "" || req.Address == "" {
		writeBadRequest(c, "firstname, lastname and address are required")
		return
	}
	userID, err := s.users.CreateUser(c.Request.Context(), req.Firstname, req.Lastname, req.Address)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID})
}

// getUsers GET /users 查詢所有使用者
func (s *Server) getUsers(c *gin.Context) {
	users, err := s.users.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}
	c.JSON(http.StatusOK, responses)
}

// getUser GET /users/:user_id 查詢單一使用者
func (s *Server) getUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "user_id must be an integer")
		return
	}
	user, err := s.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// updateUser PUT /update_user/:user_id 修改使用者；地址變更時重新計算座標
func (s *Server) updateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		writeBadRequest(c, "user_id must be an integer")
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err.Error())
		return
	}
	if err := s.users.ModifyUser(c.Request.Context(), userID, req.Firstname, req.Lastname, req.Address); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
