package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/kakeibo/internal/model"
)

// MemoryStore はStoreのインメモリ実装。
// サーバーなしでレポート機能を試すためのオフラインバックエンド。
type MemoryStore struct {
	mu       sync.RWMutex
	expenses map[string]*model.Expense
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		expenses: make(map[string]*model.Expense),
	}
}

// NewMemoryStoreWithSamples はサンプルデータ入りのMemoryStoreを生成する。
func NewMemoryStoreWithSamples() *MemoryStore {
	s := NewMemoryStore()
	ctx := context.Background()
	for _, input := range SampleExpenses() {
		// MemoryStoreのCreateはエラーを返さない
		s.Create(ctx, input)
	}
	return s
}

var _ Store = (*MemoryStore)(nil)

// List は支出一覧を作成日時降順で返す。
func (s *MemoryStore) List(ctx context.Context) ([]model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]model.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		results = append(results, *e)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

// Get は指定IDの支出を返す。見つからない場合はEXPENSE_NOT_FOUNDエラー。
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, model.NewExpenseNotFoundError()
	}
	copied := *e
	return &copied, nil
}

// Create は支出を登録する。
func (s *MemoryStore) Create(ctx context.Context, input ExpenseInput) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := &model.Expense{
		ID:          uuid.New().String(),
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
		Vendor:      input.Vendor,
		Amount:      input.Amount,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.expenses[e.ID] = e

	copied := *e
	return &copied, nil
}

// Update は指定IDの支出を上書きする。
func (s *MemoryStore) Update(ctx context.Context, id string, input ExpenseInput) (*model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, model.NewExpenseNotFoundError()
	}

	e.Category = input.Category
	e.Description = input.Description
	e.Date = input.Date
	e.Vendor = input.Vendor
	e.Amount = input.Amount
	e.UpdatedAt = time.Now()

	copied := *e
	return &copied, nil
}

// Delete は指定IDの支出を削除する。
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.expenses[id]; !ok {
		return model.NewExpenseNotFoundError()
	}
	delete(s.expenses, id)
	return nil
}
