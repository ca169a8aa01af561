package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// AccountRepository 是帳戶儲存層的介面
// 實作不得快取：每次呼叫都要反映最新已提交狀態
type AccountRepository interface {
	// FindByNumber 依帳號查詢帳戶，不存在回傳 domain.ErrAccountNotFound
	FindByNumber(ctx context.Context, number string) (*domain.Account, error)
	// FindByOwner 查詢某使用者的帳戶；userID 為 nil 表示查全部
	FindByOwner(ctx context.Context, userID *int64) ([]*domain.Account, error)
	// Insert 新增帳戶，帳號已存在回傳 domain.ErrDuplicateAccountNumber
	Insert(ctx context.Context, account *domain.Account) error
	// ApplyBalanceDelta 調整單一帳戶餘額，balance+delta 不可為負，
	// 檢查與寫入必須是同一個原子操作
	ApplyBalanceDelta(ctx context.Context, number string, delta decimal.Decimal) error
	// PostTransfer 執行轉帳：扣款、入帳、寫入轉帳紀錄三者同進同退
	// 前置檢查順序：轉出帳戶存在 -> 餘額足夠 -> 轉入帳戶存在
	PostTransfer(ctx context.Context, tran *domain.Transfer) error
}

// UserDirectory 使用者名錄，帳本只在開戶時用它確認擁有者存在
type UserDirectory interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// UserRepository 使用者儲存層
type UserRepository interface {
	// Insert 新增使用者並回傳自動產生的 ID
	Insert(ctx context.Context, user *domain.User) (int64, error)
	// FindByID 不存在回傳 domain.ErrUnknownUser
	FindByID(ctx context.Context, userID int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Update 不存在回傳 domain.ErrUnknownUser
	Update(ctx context.Context, user *domain.User) error
}

// Geocoder 地址轉座標，查無結果時回傳 (nil, nil) 而非錯誤
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*domain.Coordinates, error)
}
