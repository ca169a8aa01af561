package domain

import "github.com/shopspring/decimal"

// Account 使用者帳戶
// Number 是 IBAN 格式的全域唯一主鍵；UserID 建立後不再變更
type Account struct {
	Number  string
	Balance decimal.Decimal
	UserID  int64
}

func NewAccount(number string, balance decimal.Decimal, userID int64) *Account {
	return &Account{
		Number:  number,
		Balance: balance,
		UserID:  userID,
	}
}

// Deposit 入帳
func (a *Account) Deposit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw 扣款，餘額不可為負
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativeAmount
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	a.Balance = a.Balance.Sub(amount)
	return nil
}
