package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
)

// UserService 使用者管理：建立與修改時依地址計算地理座標
type UserService struct {
	users    UserRepository
	geocoder Geocoder
	log      zerolog.Logger
}

func NewUserService(users UserRepository, geocoder Geocoder, log zerolog.Logger) *UserService {
	return &UserService{
		users:    users,
		geocoder: geocoder,
		log:      log,
	}
}

// CreateUser 建立使用者並回傳自動產生的 ID
// 查無座標不是錯誤，Coordinates 留空即可
func (s *UserService) CreateUser(ctx context.Context, firstname, lastname, address string) (int64, error) {
	coordinates, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		// 座標查詢失敗不阻擋開戶流程
		s.log.Warn().Err(err).Str("address", address).Msg("geocoding failed")
		coordinates = nil
	}

	user := &domain.User{
		Firstname:   firstname,
		Lastname:    lastname,
		Address:     address,
		Coordinates: coordinates,
	}
	userID, err := s.users.Insert(ctx, user)
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("user_id", userID).Msg("user created")
	return userID, nil
}

// GetUser 依 ID 查詢使用者
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// ListUsers 查詢所有使用者
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// ModifyUser 更新使用者資料；只在地址變更時重新計算座標
// 空欄位表示不修改該欄位
func (s *UserService) ModifyUser(ctx context.Context, userID int64, firstname, lastname, address string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if firstname != "" {
		user.Firstname = firstname
	}
	if lastname != "" {
		user.Lastname = lastname
	}
	if address != "" && address != user.Address {
		user.Address = address
		coordinates, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			s.log.Warn().Err(err).Str("address", address).Msg("geocoding failed")
			coordinates = nil
		}
		user.Coordinates = coordinates
	}

	return s.users.Update(ctx, user)
}

// Exists 實作 UserDirectory：帳本開戶時確認擁有者存在
func (s *UserService) Exists(ctx context.Context, userID int64) (bool, error) {
	_, err := s.users.FindByID(ctx, userID)
	if err == nil {
		return true, nil
	}
	if err == domain.ErrUnknownUser {
		return false, nil
	}
	return false, err
}

var _ UserDirectory = (*UserService)(nil)
