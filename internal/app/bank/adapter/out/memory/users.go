package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

// MemoryUsers 記憶體使用者儲存層，供測試與本機開發使用
type MemoryUsers struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*domain.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		users: make(map[int64]*domain.User),
	}
}

// Insert 新增使用者並回傳自動產生的 ID
func (m *MemoryUsers) Insert(ctx context.Context, user *domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *user
	cp.ID = m.nextID
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

// FindByID 依 ID 查詢使用者，回傳拷貝
func (m *MemoryUsers) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[userID]
	if !ok {
		return nil, domain.ErrUnknownUser
	}
	cp := *user
	return &cp, nil
}

// FindAll 查詢所有使用者，依 ID 排序
func (m *MemoryUsers) FindAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		cp := *user
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Update 覆寫既有使用者資料
func (m *MemoryUsers) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUnknownUser
	}
	cp := *user
	m.users[cp.ID] = &cp
	return nil
}

var _ usecase.UserRepository = (*MemoryUsers)(nil)
