package iban

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestValidate_ValidNumbers 各國官方範例 IBAN 都應通過
func TestValidate_ValidNumbers(t *testing.T) {
	valid := []string{
		"FR7630006000011234567890189",
		"DE91100000000123456789",
		"GB82WEST12345698765432",
		"DE89370400440532013000",
		"ES9121000418450200051332",
		"NL91ABNA0417164300",
		// 空白分組與小寫屬於可接受的輸入形式
		"FR76 3000 6000 0112 3456 7890 189",
		"de91100000000123456789",
	}
	for _, number := range valid {
		assert.True(t, Validate(number), "expected valid: %s", number)
	}
}

// TestValidate_InvalidNumbers 長度、國碼、檢查碼任一錯誤都要拒絕
func TestValidate_InvalidNumbers(t *testing.T) {
	invalid := []string{
		"",
		"INVALID",
		"FR76",
		// 檢查碼錯誤
		"FR7730006000011234567890189",
		"DE92100000000123456789",
		// 長度錯誤
		"DE9110000000012345678",
		"FR76300060000112345678901890",
		// 未知國碼
		"XX7630006000011234567890189",
		// 檢查碼必須是數字
		"FRAB30006000011234567890189",
		// BBAN 非法字元
		"DE911000000001234567-9",
	}
	for _, number := range invalid {
		assert.False(t, Validate(number), "expected invalid: %s", number)
	}
}
