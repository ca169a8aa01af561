// Package iban 實作 ISO 13616 帳號格式檢查：
// 國碼 + 2 位檢查碼 + BBAN，重排展開後 mod 97 餘數必須為 1。
// 純函式、無 I/O，帳戶建立前必須先通過這裡。
package iban

import "strings"

// countryLength 各國 IBAN 總長度 (ISO 13616 registry)
var countryLength = map[string]int{
	"AD": 24, "AE": 23, "AT": 20, "BA": 20, "BE": 16,
	"BG": 22, "CH": 21, "CY": 28, "CZ": 24, "DE": 22,
	"DK": 18, "EE": 20, "ES": 24, "FI": 18, "FR": 27,
	"GB": 22, "GR": 27, "HR": 21, "HU": 28, "IE": 22,
	"IS": 26, "IT": 27, "LI": 21, "LT": 20, "LU": 20,
	"LV": 21, "MC": 27, "MT": 31, "NL": 18, "NO": 15,
	"PL": 28, "PT": 25, "RO": 24, "RS": 22, "SE": 24,
	"SI": 19, "SK": 24, "SM": 27, "TR": 26,
}

// Validate 檢查帳號是否為合法 IBAN
// 任何格式問題 (長度、未知國碼、非法字元、檢查碼錯誤) 都回傳 false
func Validate(number string) bool {
	// 允許慣用的空白分組與小寫輸入
	normalized := strings.ToUpper(strings.ReplaceAll(number, " ", ""))
	if len(normalized) < 4 {
		return false
	}

	country := normalized[:2]
	wantLen, ok := countryLength[country]
	if !ok || len(normalized) != wantLen {
		return false
	}
	for i := 0; i < 2; i++ {
		if normalized[i] < 'A' || normalized[i] > 'Z' {
			return false
		}
	}
	// 檢查碼必須是數字
	for i := 2; i < 4; i++ {
		if normalized[i] < '0' || normalized[i] > '9' {
			return false
		}
	}

	// 前四碼移到最後，再做 mod 97
	rearranged := normalized[4:] + normalized[:4]
	return mod97(rearranged) == 1
}

// mod97 將字母展開為兩位數 (A=10..Z=35) 後逐位取餘數，
// 避免把整串數字轉成大整數
func mod97(s string) int {
	remainder := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			remainder = (remainder*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			remainder = (remainder*100 + int(c-'A') + 10) % 97
		default:
			return -1
		}
	}
	return remainder
}
