package domain

import "errors"

// 銀行規則錯誤為封閉集合，上層 (HTTP adapter) 依此對應狀態碼，
// 不允許底層儲存錯誤直接穿透到呼叫端。
var (
	// ErrInvalidAccountNumber 帳號格式不合法 (IBAN 檢查失敗)
	ErrInvalidAccountNumber = errors.New("this account number is invalid")

	// ErrNegativeAmount 金額不可為負數
	ErrNegativeAmount = errors.New("the amount to transfer has to be a positive number")

	// ErrUnknownUser 找不到使用者
	ErrUnknownUser = errors.New("unknown user id")

	// ErrUnknownSourceAccount 找不到轉出帳戶
	ErrUnknownSourceAccount = errors.New("the sender account is unknown")

	// ErrUnknownDestinationAccount 找不到轉入帳戶
	ErrUnknownDestinationAccount = errors.New("the recipient account is unknown")

	// ErrDuplicateAccountNumber 帳號已被使用
	ErrDuplicateAccountNumber = errors.New("this account number is already used")

	// ErrInsufficientFunds 餘額不足
	ErrInsufficientFunds = errors.New("the sender account balance is insufficient")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrStorageUnavailable 儲存層故障 (連線中斷、逾時)，與銀行規則錯誤分開，
	// 呼叫端可以重試這類錯誤
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsBankingError 回報錯誤是否屬於銀行規則錯誤 (client 端造成，重試不會成功)
func IsBankingError(err error) bool {
	for _, target := range []error{
		ErrInvalidAccountNumber,
		ErrNegativeAmount,
		ErrUnknownUser,
		ErrUnknownSourceAccount,
		ErrUnknownDestinationAccount,
		ErrDuplicateAccountNumber,
		ErrInsufficientFunds,
		ErrAccountNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
