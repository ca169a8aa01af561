package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/adapter/out/memory"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// stubGeocoder 固定回傳設定好的座標，並記錄查詢過的地址
type stubGeocoder struct {
	coordinates *domain.Coordinates
	err         error
	queried     []string
}

func (g *stubGeocoder) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	g.queried = append(g.queried, address)
	return g.coordinates, g.err
}

func newUserService(geocoder *stubGeocoder) *usecase.UserService {
	return usecase.NewUserService(memory.NewMemoryUsers(), geocoder, zerolog.Nop())
}

func TestCreateUser_WithCoordinates(t *testing.T) {
	geocoder := &stubGeocoder{coordinates: &domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522}}
	svc := newUserService(geocoder)

	userID, err := svc.CreateUser(context.Background(), "Marie", "Curie", "Paris, France")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris, France"}, geocoder.queried)

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, user.Coordinates)
	assert.Equal(t, 48.8566, user.Coordinates.Latitude)
	assert.Equal(t, 2.3522, user.Coordinates.Longitude)
}

// TestCreateUser_NoGeocodingResult 查無座標不是錯誤，Coordinates 留空
func TestCreateUser_NoGeocodingResult(t *testing.T) {
	svc := newUserService(&stubGeocoder{})

	userID, err := svc.CreateUser(context.Background(), "John", "Doe", "Nowhere")
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, user.Coordinates)
}

// TestCreateUser_GeocoderFailure 座標服務掛掉不阻擋建立
func TestCreateUser_GeocoderFailure(t *testing.T) {
	svc := newUserService(&stubGeocoder{err: errors.New("connection refused")})

	userID, err := svc.CreateUser(context.Background(), "John", "Doe", "Paris")
	require.NoError(t, err)

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, user.Coordinates)
}

// TestModifyUser_AddressChange 只有地址變更時才重新查座標
func TestModifyUser_AddressChange(t *testing.T) {
	geocoder := &stubGeocoder{coordinates: &domain.Coordinates{Latitude: 1, Longitude: 2}}
	svc := newUserService(geocoder)

	userID, err := svc.CreateUser(context.Background(), "Marie", "Curie", "Paris")
	require.NoError(t, err)
	require.Len(t, geocoder.queried, 1)

	// 只改名字，不應重新查座標
	require.NoError(t, svc.ModifyUser(context.Background(), userID, "Maria", "", ""))
	assert.Len(t, geocoder.queried, 1)

	user, err := svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Maria", user.Firstname)
	assert.Equal(t, "Curie", user.Lastname)

	// 改地址才會重新查
	geocoder.coordinates = &domain.Coordinates{Latitude: 52.52, Longitude: 13.405}
	require.NoError(t, svc.ModifyUser(context.Background(), userID, "", "", "Berlin"))
	assert.Len(t, geocoder.queried, 2)

	user, err = svc.GetUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", user.Address)
	require.NotNil(t, user.Coordinates)
	assert.Equal(t, 52.52, user.Coordinates.Latitude)
}

func TestModifyUser_Unknown(t *testing.T) {
	svc := newUserService(&stubGeocoder{})
	err := svc.ModifyUser(context.Background(), 99, "A", "B", "C")
	assert.ErrorIs(t, err, domain.ErrUnknownUser)
}

// TestExists 帳本開戶用的存在性查詢
func TestExists(t *testing.T) {
	svc := newUserService(&stubGeocoder{})
	userID, err := svc.CreateUser(context.Background(), "John", "Doe", "Paris")
	require.NoError(t, err)

	exists, err := svc.Exists(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.Exists(context.Background(), userID+1)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListUsers(t *testing.T) {
	svc := newUserService(&stubGeocoder{})
	_, err := svc.CreateUser(context.Background(), "A", "A", "X")
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), "B", "B", "Y")
	require.NoError(t, err)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "A", users[0].Firstname)
	assert.Equal(t, "B", users[1].Firstname)
}
