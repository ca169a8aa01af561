package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// sqlAccount 對應資料庫的 account 表
type sqlAccount struct {
	Number    string          `gorm:"column:number;primaryKey;size:34"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(19,4);not null"`
	UserID    int64           `gorm:"column:user_id;not null;index"`
	UpdatedAt int64           `gorm:"autoUpdateTime:milli"` // 自動更新時間
}

func (*sqlAccount) TableName() string {
	return "account"
}

// sqlTransfer 對應資料庫的 transfer 表 (append-only)
type sqlTransfer struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	RefID     []byte          `gorm:"column:ref_id;type:binary(16);uniqueIndex"` // 對應 domain.Transfer.RefID
	FromAcc   string          `gorm:"column:from_acc;size:34;not null"`
	ToAcc     string          `gorm:"column:to_acc;size:34;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(19,4);not null"`
	CreatedAt int64           `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlTransfer) TableName() string {
	return "transfer"
}

// errTransferAlreadyProcessed 內部哨兵：讓輸掉 ref_id 競爭的交易回滾，
// 再由 PostTransfer 對外轉成冪等成功
var errTransferAlreadyProcessed = errors.New("transfer already processed")

// MySQLLedger 以 MySQL 為後端的帳戶儲存層
// 不做任何記憶體快取，每次讀取都反映最新已提交狀態
type MySQLLedger struct {
	client *mysql.Client
}

func NewMySQLLedger(client *mysql.Client) *MySQLLedger {
	return &MySQLLedger{
		client: client,
	}
}

// Migrate 建立 account 與 transfer 表
func (ledger *MySQLLedger) Migrate() error {
	return ledger.client.DB().AutoMigrate(&sqlAccount{}, &sqlTransfer{})
}

// FindByNumber 依帳號查詢帳戶
func (ledger *MySQLLedger) FindByNumber(ctx context.Context, number string) (*domain.Account, error) {
	var account sqlAccount
	err := ledger.client.DB().WithContext(ctx).Where("number = ?", number).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, storageErr(err)
	}
	return toDomainAccount(&account), nil
}

// FindByOwner 查詢某使用者的帳戶；userID 為 nil 表示查全部
func (ledger *MySQLLedger) FindByOwner(ctx context.Context, userID *int64) ([]*domain.Account, error) {
	query := ledger.client.DB().WithContext(ctx).Order("number")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var rows []sqlAccount
	if err := query.Find(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	accounts := make([]*domain.Account, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, toDomainAccount(&rows[i]))
	}
	return accounts, nil
}

// Insert 新增帳戶，帳號重複回傳 ErrDuplicateAccountNumber
func (ledger *MySQLLedger) Insert(ctx context.Context, account *domain.Account) error {
	row := sqlAccount{
		Number:  account.Number,
		Balance: account.Balance,
		UserID:  account.UserID,
	}
	err := ledger.client.DB().WithContext(ctx).Create(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateAccountNumber
		}
		return storageErr(err)
	}
	return nil
}

// ApplyBalanceDelta 調整單一帳戶餘額
// 悲觀鎖住該列，檢查 balance+delta 不為負後才寫回，避免 lost update
func (ledger *MySQLLedger) ApplyBalanceDelta(ctx context.Context, number string, delta decimal.Decimal) error {
	return ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account sqlAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("number = ?", number).
			First(&account).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrAccountNotFound
			}
			return storageErr(err)
		}
		if account.Balance.Add(delta).IsNegative() {
			return domain.ErrInsufficientFunds
		}
		account.Balance = account.Balance.Add(delta)
		if err := tx.Save(&account).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
}

// PostTransfer 執行轉帳
// 單一資料庫交易內完成：鎖列 -> 前置檢查 -> 扣款入帳 -> 寫入轉帳紀錄，
// 任一步失敗整筆回滾，不會出現只扣不入的狀態
func (ledger *MySQLLedger) PostTransfer(ctx context.Context, tran *domain.Transfer) error {
	// 負數金額不開交易，直接拒絕；LessThan 的餘額檢查擋不住負數
	if tran.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	err := ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 同一 RefID 已處理過，直接回報成功
		var processed sqlTransfer
		err := tx.Where("ref_id = ?", tran.RefID[:]).First(&processed).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storageErr(err)
		}

		// 悲觀鎖：一次鎖住兩個帳戶列，LockNumbers 已排序避免死鎖
		lockNumbers := tran.LockNumbers()
		var rows []sqlAccount
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("number IN ?", lockNumbers).
			Find(&rows).Error; err != nil {
			return storageErr(err)
		}
		accountMap := make(map[string]*sqlAccount, len(rows))
		for i := range rows {
			accountMap[rows[i].Number] = &rows[i]
		}

		// 前置檢查順序固定：轉出帳戶 -> 餘額 -> 轉入帳戶
		fromAccount, ok := accountMap[tran.From]
		if !ok {
			return domain.ErrUnknownSourceAccount
		}
		if fromAccount.Balance.LessThan(tran.Amount) {
			return domain.ErrInsufficientFunds
		}
		toAccount, ok := accountMap[tran.To]
		if !ok {
			return domain.ErrUnknownDestinationAccount
		}

		// 扣款與入帳；from == to 時指向同一列，兩者互相抵銷
		fromAccount.Balance = fromAccount.Balance.Sub(tran.Amount)
		toAccount.Balance = toAccount.Balance.Add(tran.Amount)
		for i := range rows {
			if err := tx.Save(&rows[i]).Error; err != nil {
				return storageErr(err)
			}
		}

		// 寫入轉帳紀錄
		record := sqlTransfer{
			RefID:   tran.RefID[:],
			FromAcc: tran.From,
			ToAcc:   tran.To,
			Amount:  tran.Amount,
		}
		if err := tx.Create(&record).Error; err != nil {
			// 兩筆相同 RefID 的轉帳可能同時通過開頭的查詢，
			// 輸的那筆會撞上 ref_id unique index。這筆的扣款入帳是
			// 疊在贏家已提交的餘額上算的，必須整筆回滾，不能提交
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errTransferAlreadyProcessed
			}
			return storageErr(err)
		}
		return nil
	})
	// 已處理過視為冪等成功，回滾後對外不是錯誤
	if errors.Is(err, errTransferAlreadyProcessed) {
		return nil
	}
	return err
}

// toDomainAccount 資料列轉領域物件，轉換只發生在儲存層邊界
func toDomainAccount(row *sqlAccount) *domain.Account {
	return &domain.Account{
		Number:  row.Number,
		Balance: row.Balance,
		UserID:  row.UserID,
	}
}

// storageErr 將底層儲存錯誤收斂成 ErrStorageUnavailable
// 原始錯誤附在訊息內供日誌使用，但不讓呼叫端依賴它
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
}

var _ usecase.AccountRepository = (*MySQLLedger)(nil)
