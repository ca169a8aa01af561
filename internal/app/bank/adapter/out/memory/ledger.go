package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/wal"
)

// walKind 日誌紀錄種類
type walKind string

const (
	walKindAccount  walKind = "account"
	walKindTransfer walKind = "transfer"
	walKindDelta    walKind = "delta"
)

// walRecord WAL 的單筆紀錄，依 Kind 決定哪個欄位有值
type walRecord struct {
	Kind     walKind          `json:"kind"`
	Account  *domain.Account  `json:"account,omitempty"`
	Transfer *domain.Transfer `json:"transfer,omitempty"`
	Number   string           `json:"number,omitempty"`
	Delta    decimal.Decimal  `json:"delta,omitempty"`
}

// MemoryLedger 以單一 Mutex 序列化所有操作的記憶體帳戶儲存層
// 供測試與本機開發替代 MySQL；有掛 WAL 時重啟可重放回復狀態
//
// 結構:
//
//	accounts: 帳號對應帳戶的 Map
//	mu: 保護帳戶資料的鎖
//	processedTransfers: 已處理過的轉帳 RefID
//	wal: Write-Ahead Log 實例 (可為 nil，純記憶體模式)
type MemoryLedger struct {
	accounts map[string]*domain.Account
	mu       sync.RWMutex
	// 已處理過的轉帳
	processedTransfers map[uuid.UUID]time.Time
	// Write-Ahead Logging
	wal *wal.WAL
}

// NewMemoryLedger 建立 MemoryLedger 並從 WAL 重放既有紀錄
//
// 參數:
//
//	journal: WAL 實例，nil 表示不做持久化
//
// 回傳:
//
//	*MemoryLedger: MemoryLedger 實例
//	error: WAL 重放失敗
func NewMemoryLedger(journal *wal.WAL) (*MemoryLedger, error) {
	ledger := &MemoryLedger{
		accounts:           make(map[string]*domain.Account),
		processedTransfers: make(map[uuid.UUID]time.Time),
		wal:                journal,
	}
	if err := ledger.recoverFromWAL(); err != nil {
		return nil, err
	}
	return ledger, nil
}

// recoverFromWAL 重放 WAL 內的所有紀錄
// 只有建構時呼叫，單執行緒，無需上鎖
func (m *MemoryLedger) recoverFromWAL() error {
	if m.wal == nil {
		return nil
	}
	now := time.Now()
	return m.wal.ReadAll(func(jsonRaw []byte) error {
		var record walRecord
		if err := json.Unmarshal(jsonRaw, &record); err != nil {
			return err
		}
		switch record.Kind {
		case walKindAccount:
			account := *record.Account
			m.accounts[account.Number] = &account
		case walKindTransfer:
			if err := m.applyTransfer(record.Transfer); err != nil {
				return fmt.Errorf("replay transfer %s: %w", record.Transfer.RefID, err)
			}
			m.processedTransfers[record.Transfer.RefID] = now
		case walKindDelta:
			account, ok := m.accounts[record.Number]
			if !ok {
				return domain.ErrAccountNotFound
			}
			account.Balance = account.Balance.Add(record.Delta)
		}
		return nil
	})
}

// journal 寫入一筆 WAL 紀錄；沒有掛 WAL 時為 no-op
func (m *MemoryLedger) journal(record walRecord) error {
	if m.wal == nil {
		return nil
	}
	if err := m.wal.Append(record); err != nil {
		return fmt.Errorf("%w: wal append: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// FindByNumber 依帳號查詢帳戶
// 回傳拷貝，避免呼叫端繞過儲存層直接改餘額
func (m *MemoryLedger) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

// FindByOwner 查詢某使用者的帳戶；userID 為 nil 表示查全部
// 依帳號排序讓回傳順序穩定
func (m *MemoryLedger) FindByOwner(ctx context.Context, userID *int64) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		if userID != nil && account.UserID != *userID {
			continue
		}
		cp := *account
		accounts = append(accounts, &cp)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].Number < accounts[j].Number
	})
	return accounts, nil
}

// Insert 新增帳戶，帳號重複回傳 ErrDuplicateAccountNumber
func (m *MemoryLedger) Insert(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.Number]; ok {
		return domain.ErrDuplicateAccountNumber
	}
	cp := *account
	if err := m.journal(walRecord{Kind: walKindAccount, Account: &cp}); err != nil {
		return err
	}
	m.accounts[cp.Number] = &cp
	return nil
}

// ApplyBalanceDelta 調整單一帳戶餘額，結果不可為負
// 檢查與寫入都在同一個臨界區內完成
func (m *MemoryLedger) ApplyBalanceDelta(ctx context.Context, number string, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[number]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if account.Balance.Add(delta).IsNegative() {
		return domain.ErrInsufficientFunds
	}
	if err := m.journal(walRecord{Kind: walKindDelta, Number: number, Delta: delta}); err != nil {
		return err
	}
	account.Balance = account.Balance.Add(delta)
	return nil
}

// PostTransfer 執行轉帳 (Mutex 序列化版本)
// 前置檢查全數通過後才寫 WAL，因此日誌裡只會有已提交的轉帳，
// 失敗的請求不留任何痕跡
func (m *MemoryLedger) PostTransfer(ctx context.Context, tran *domain.Transfer) error {
	// 負數金額在這裡也要擋：LessThan 擋不住負數，
	// 一旦寫進 WAL，重放時 Withdraw 會失敗，帳本再也起不來
	if tran.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 同一 RefID 已處理過，直接回報成功
	if _, ok := m.processedTransfers[tran.RefID]; ok {
		return nil
	}

	// 1. 前置檢查，順序固定：轉出帳戶 -> 餘額 -> 轉入帳戶
	// 全數通過後 applyTransfer 不可能再失敗，WAL 裡只會有能重放的紀錄
	fromAccount, ok := m.accounts[tran.From]
	if !ok {
		return domain.ErrUnknownSourceAccount
	}
	if fromAccount.Balance.LessThan(tran.Amount) {
		return domain.ErrInsufficientFunds
	}
	if _, ok := m.accounts[tran.To]; !ok {
		return domain.ErrUnknownDestinationAccount
	}

	// 2. 寫入 WAL (Critical Path)
	tran.CreatedAt = time.Now().UnixMilli()
	if err := m.journal(walRecord{Kind: walKindTransfer, Transfer: tran}); err != nil {
		return err
	}

	// 3. 套用餘額變動
	if err := m.applyTransfer(tran); err != nil {
		return err
	}
	m.processedTransfers[tran.RefID] = time.Now()
	return nil
}

// applyTransfer 套用扣款與入帳；轉出轉入同帳號時兩者互相抵銷
func (m *MemoryLedger) applyTransfer(tran *domain.Transfer) error {
	fromAccount, ok := m.accounts[tran.From]
	if !ok {
		return domain.ErrUnknownSourceAccount
	}
	toAccount, ok := m.accounts[tran.To]
	if !ok {
		return domain.ErrUnknownDestinationAccount
	}
	if err := fromAccount.Withdraw(tran.Amount); err != nil {
		return err
	}
	return toAccount.Deposit(tran.Amount)
}

var _ usecase.AccountRepository = (*MemoryLedger)(nil)
