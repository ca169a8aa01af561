package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/pkg/iban"
)

// LedgerService 帳本核心：開戶規則與轉帳
// 本身不持有狀態，所有帳戶資料都透過 AccountRepository 讀寫
type LedgerService struct {
	accounts AccountRepository
	users    UserDirectory
	log      zerolog.Logger
}

func NewLedgerService(accounts AccountRepository, users UserDirectory, log zerolog.Logger) *LedgerService {
	return &LedgerService{
		accounts: accounts,
		users:    users,
		log:      log,
	}
}

// CreateAccount 建立帳戶
// 檢查順序固定：帳號格式 -> 初始餘額 -> 擁有者存在 -> 帳號未被使用，
// 第一個失敗的條件決定錯誤，之前不會有任何寫入
func (s *LedgerService) CreateAccount(ctx context.Context, number string, userID int64, balance decimal.Decimal) error {
	if !iban.Validate(number) {
		return domain.ErrInvalidAccountNumber
	}
	if balance.IsNegative() {
		return domain.ErrNegativeAmount
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUnknownUser
	}

	_, err = s.accounts.FindByNumber(ctx, number)
	if err == nil {
		return domain.ErrDuplicateAccountNumber
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return err
	}

	if err := s.accounts.Insert(ctx, domain.NewAccount(number, balance, userID)); err != nil {
		return err
	}
	s.log.Info().Str("number", number).Int64("user_id", userID).Msg("account created")
	return nil
}

// GetAccount 查詢單一帳戶
func (s *LedgerService) GetAccount(ctx context.Context, number string) (*domain.Account, error) {
	return s.accounts.FindByNumber(ctx, number)
}

// ListAccounts 查詢帳戶清單；userID 為 nil 表示查全部
func (s *LedgerService) ListAccounts(ctx context.Context, userID *int64) ([]*domain.Account, error) {
	return s.accounts.FindByOwner(ctx, userID)
}

// Transfer 轉帳
// 金額為負直接拒絕；其餘前置檢查與三個寫入效果全部交由
// AccountRepository.PostTransfer 在單一交易內完成，任何失敗都不留下部分結果。
// 轉出轉入同帳號不是錯誤：扣款與入帳互相抵銷。
func (s *LedgerService) Transfer(ctx context.Context, tran *domain.Transfer) error {
	if tran.Amount.IsNegative() {
		return domain.ErrNegativeAmount
	}

	if err := s.accounts.PostTransfer(ctx, tran); err != nil {
		return err
	}
	s.log.Info().
		Str("ref_id", tran.RefID.String()).
		Str("from", tran.From).
		Str("to", tran.To).
		Str("amount", tran.Amount.String()).
		Msg("transfer committed")
	return nil
}
