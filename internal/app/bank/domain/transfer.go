package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer 轉帳紀錄，提交後不可變更也不可刪除 (append-only)
type Transfer struct {
	// ID: 儲存層產生的流水號
	ID int64
	// RefID: 外部追蹤號 (UUID)，同一 RefID 重送視為已處理，不會重複入帳
	RefID uuid.UUID
	// From, To: 帳號 (IBAN)
	From string
	To   string
	// Amount: 轉帳金額 (EURO)
	Amount decimal.Decimal
	// CreatedAt: 交易時間 (unix milli)
	CreatedAt int64
}

// LockNumbers 回傳需要鎖定的帳號，並確保順序以避免死鎖
func (t *Transfer) LockNumbers() []string {
	if t.From == t.To {
		return []string{t.From}
	}
	if t.From < t.To {
		return []string{t.From, t.To}
	}
	return []string{t.To, t.From}
}
