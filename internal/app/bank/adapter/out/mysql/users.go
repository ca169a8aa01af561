package mysql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
	"github.com/JoeShih716/go-bank-ledger/pkg/mysql"
)

// sqlUser 對應資料庫的 users 表
// Coordinates 以 "lat lng" 字串儲存，NULL 表示查無座標
type sqlUser struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Firstname   string  `gorm:"column:firstname;size:128;not null"`
	Lastname    string  `gorm:"column:lastname;size:128;not null"`
	Address     string  `gorm:"column:address;size:512;not null"`
	Coordinates *string `gorm:"column:coordinates;size:64"`
}

func (*sqlUser) TableName() string {
	return "users"
}

// MySQLUsers 以 MySQL 為後端的使用者儲存層
type MySQLUsers struct {
	client *mysql.Client
}

func NewMySQLUsers(client *mysql.Client) *MySQLUsers {
	return &MySQLUsers{
		client: client,
	}
}

// Migrate 建立 users 表
func (repo *MySQLUsers) Migrate() error {
	return repo.client.DB().AutoMigrate(&sqlUser{})
}

// Insert 新增使用者並回傳自動產生的 ID
func (repo *MySQLUsers) Insert(ctx context.Context, user *domain.User) (int64, error) {
	row := toSQLUser(user)
	if err := repo.client.DB().WithContext(ctx).Create(row).Error; err != nil {
		return 0, storageErr(err)
	}
	return row.ID, nil
}

// FindByID 依 ID 查詢使用者
func (repo *MySQLUsers) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	var row sqlUser
	err := repo.client.DB().WithContext(ctx).Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnknownUser
		}
		return nil, storageErr(err)
	}
	return toDomainUser(&row)
}

// FindAll 查詢所有使用者
func (repo *MySQLUsers) FindAll(ctx context.Context) ([]*domain.User, error) {
	var rows []sqlUser
	if err := repo.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, storageErr(err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		user, err := toDomainUser(&rows[i])
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// Update 覆寫既有使用者資料
// 先確認該列存在再寫回，RowsAffected 在值未變動時會是 0，不能拿來判斷存在性
func (repo *MySQLUsers) Update(ctx context.Context, user *domain.User) error {
	return repo.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing sqlUser
		err := tx.Where("id = ?", user.ID).First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUnknownUser
			}
			return storageErr(err)
		}
		if err := tx.Save(toSQLUser(user)).Error; err != nil {
			return storageErr(err)
		}
		return nil
	})
}

// toSQLUser 領域物件轉資料列 (寫入前)
func toSQLUser(user *domain.User) *sqlUser {
	row := &sqlUser{
		ID:        user.ID,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		Address:   user.Address,
	}
	if user.Coordinates != nil {
		coordinates := fmt.Sprintf("%g %g", user.Coordinates.Latitude, user.Coordinates.Longitude)
		row.Coordinates = &coordinates
	}
	return row
}

// toDomainUser 資料列轉領域物件 (讀取後)
func toDomainUser(row *sqlUser) (*domain.User, error) {
	user := &domain.User{
		ID:        row.ID,
		Firstname: row.Firstname,
		Lastname:  row.Lastname,
		Address:   row.Address,
	}
	if row.Coordinates != nil {
		parts := strings.Fields(*row.Coordinates)
		if len(parts) != 2 {
			return nil, storageErr(fmt.Errorf("malformed coordinates %q for user %d", *row.Coordinates, row.ID))
		}
		latitude, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, storageErr(err)
		}
		longitude, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, storageErr(err)
		}
		user.Coordinates = &domain.Coordinates{Latitude: latitude, Longitude: longitude}
	}
	return user, nil
}

var _ usecase.UserRepository = (*MySQLUsers)(nil)
