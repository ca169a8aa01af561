package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

const (
	frAccount = "FR7630006000011234567890189"
	deAccount = "DE91100000000123456789"
)

type fixedGeocoder struct{}

func (fixedGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	return &domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522}, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := memory.NewMemoryLedger(nil)
	require.NoError(t, err)
	userService := usecase.NewUserService(memory.NewMemoryUsers(), fixedGeocoder{}, zerolog.Nop())
	ledgerService := usecase.NewLedgerService(store, userService, zerolog.Nop())
	return NewServer(ledgerService, userService, zerolog.Nop()).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// TestEndToEnd 建立使用者與帳戶後轉帳，再驗證餘額
func TestEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	// 建立使用者
	recorder := doJSON(t, router, http.MethodPost, "/create_user", gin.H{
		"firstname": "Marie", "lastname": "Curie", "address": "Paris, France",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	userID := decodeBody(t, recorder)["user_id"].(float64)
	require.Equal(t, float64(1), userID)

	// 開兩個帳戶，一個帶初始餘額一個用預設值
	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": frAccount, "user_id": 1, "balance": "100",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": deAccount, "user_id": 1,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// 轉帳 25
	recorder = doJSON(t, router, http.MethodPost, "/transfer", gin.H{
		"from_acc": frAccount, "to_acc": deAccount, "amount": "25",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	// 驗證餘額
	recorder = doJSON(t, router, http.MethodGet, "/account/"+frAccount, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "75", decodeBody(t, recorder)["balance"])

	recorder = doJSON(t, router, http.MethodGet, "/account/"+deAccount, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "25", decodeBody(t, recorder)["balance"])

	// 依使用者列出帳戶
	recorder = doJSON(t, router, http.MethodGet, "/accounts/1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var accounts []map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &accounts))
	assert.Len(t, accounts, 2)

	// 使用者帶有座標
	recorder = doJSON(t, router, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	user := decodeBody(t, recorder)
	require.NotNil(t, user["coordinates"])
}

// TestErrorMapping 銀行規則錯誤對應 422 並帶原始訊息
func TestErrorMapping(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/create_user", gin.H{
		"firstname": "John", "lastname": "Doe", "address": "Paris",
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	// 非法 IBAN
	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": "INVALID", "user_id": 1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, domain.ErrInvalidAccountNumber.Error(), decodeBody(t, recorder)["detail"])

	// 擁有者不存在
	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": frAccount, "user_id": 42,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, domain.ErrUnknownUser.Error(), decodeBody(t, recorder)["detail"])

	// 轉出帳戶不存在
	recorder = doJSON(t, router, http.MethodPost, "/transfer", gin.H{
		"from_acc": "UNKNOWN", "to_acc": deAccount, "amount": "10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, domain.ErrUnknownSourceAccount.Error(), decodeBody(t, recorder)["detail"])

	// 餘額不足
	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": frAccount, "user_id": 1, "balance": "100",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, http.MethodPost, "/create_account", gin.H{
		"number": deAccount, "user_id": 1,
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, http.MethodPost, "/transfer", gin.H{
		"from_acc": frAccount, "to_acc": deAccount, "amount": "1000",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, domain.ErrInsufficientFunds.Error(), decodeBody(t, recorder)["detail"])

	// 負數金額
	recorder = doJSON(t, router, http.MethodPost, "/transfer", gin.H{
		"from_acc": frAccount, "to_acc": deAccount, "amount": "-5",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, domain.ErrNegativeAmount.Error(), decodeBody(t, recorder)["detail"])
}

// TestBadRequests 解析失敗的請求不會碰到核心
func TestBadRequests(t *testing.T) {
	router := newTestRouter(t)

	// 缺少必要欄位
	recorder := doJSON(t, router, http.MethodPost, "/transfer", gin.H{"amount": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	// user_id 不是整數
	recorder = doJSON(t, router, http.MethodGet, "/accounts/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	// ref_id 不是 UUID
	recorder = doJSON(t, router, http.MethodPost, "/transfer", gin.H{
		"from_acc": frAccount, "to_acc": deAccount, "amount": "1", "ref_id": "nope",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}
