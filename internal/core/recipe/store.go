package recipe

import "context"

// Store 食譜持久層介面（文件儲存）。
// 服務層不跨呼叫快取任何文件；過濾、計分、排序全在服務層完成，
// 儲存層只負責文件的存取。
type Store interface {
	// Insert 寫入新文件並回傳配發的 id，不覆蓋既有文件
	Insert(ctx context.Context, doc StoredRecipe) (string, error)

	// FindByID 依 id 取出文件，不存在時回傳 (nil, nil)
	FindByID(ctx context.Context, id string) (*StoredRecipe, error)

	// FindAll 依寫入順序取出全部文件
	FindAll(ctx context.Context) ([]StoredRecipe, error)

	// Update 以 doc 完整取代 id 對應文件的可變欄位
	Update(ctx context.Context, id string, doc StoredRecipe) error

	// Ping 健康檢查探針
	Ping(ctx context.Context) error
}
