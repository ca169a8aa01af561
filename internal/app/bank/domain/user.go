package domain

// Coordinates 使用者地址換算出的地理座標
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// User 使用者資料
// ID 由儲存層自動產生；Coordinates 依 Address 動態計算，可能為 nil (查無座標)
type User struct {
	ID          int64
	Firstname   string
	Lastname    string
	Address     string
	Coordinates *Coordinates
}
