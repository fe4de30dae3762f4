package memory

import (
	"context"
	"sync"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/pkg/common"
)

// Store 行程內記憶體儲存，開發模式與測試用。
// 對外取代 MongoDB 時行為必須一致：id 由 Insert 配發、
// FindAll 維持寫入順序、進出都是深拷貝。
type Store struct {
	mu    sync.RWMutex
	docs  map[string]recipe.StoredRecipe
	order []string // 寫入順序
}

var _ recipe.Store = (*Store)(nil)

// New 創建記憶體儲存
func New() *Store {
	return &Store{
		docs: make(map[string]recipe.StoredRecipe),
	}
}

// copyDoc 深拷貝文件，避免呼叫端持有內部切片
func copyDoc(doc recipe.StoredRecipe) recipe.StoredRecipe {
	out := doc
	out.Ingredients = append([]recipe.Ingredient(nil), doc.Ingredients...)
	out.Steps = append([]string(nil), doc.Steps...)
	out.Ratings = append([]recipe.Rating(nil), doc.Ratings...)
	return out
}

// Insert 寫入新文件並配發 id
func (s *Store) Insert(ctx context.Context, doc recipe.StoredRecipe) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := common.GenerateUUID()
	for {
		if _, exists := s.docs[id]; !exists {
			break
		}
		id = common.GenerateUUID()
	}

	doc.ID = id
	if doc.Ratings == nil {
		doc.Ratings = []recipe.Rating{}
	}

	s.docs[id] = copyDoc(doc)
	s.order = append(s.order, id)

	return id, nil
}

// FindByID 依 id 取出文件，不存在時回傳 (nil, nil)
func (s *Store) FindByID(ctx context.Context, id string) (*recipe.StoredRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[id]
	if !exists {
		return nil, nil
	}

	out := copyDoc(doc)
	return &out, nil
}

// FindAll 依寫入順序取出全部文件
func (s *Store) FindAll(ctx context.Context) ([]recipe.StoredRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recipe.StoredRecipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyDoc(s.docs[id]))
	}
	return out, nil
}

// Update 以 doc 完整取代 id 對應的文件，id 欄位不可變
func (s *Store) Update(ctx context.Context, id string, doc recipe.StoredRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[id]; !exists {
		return errNotStored(id)
	}

	doc.ID = id
	s.docs[id] = copyDoc(doc)
	return nil
}

// Ping 健康檢查，記憶體儲存永遠可用
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

type errNotStored string

func (e errNotStored) Error() string {
	return "no recipe stored with id " + string(e)
}
