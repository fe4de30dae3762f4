package recipe

// Ingredient 食材（值物件，內嵌於食譜，無獨立身份）
type Ingredient struct {
	Name     string  `json:"name" bson:"name"`
	Quantity float64 `json:"quantity" bson:"quantity"`
	Unit     string  `json:"unit" bson:"unit"`
}

// Recipe 建立食譜時的輸入。呼叫端附帶的 id 或 ratings 一律忽略。
type Recipe struct {
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
}

// Rating 單筆評分，只由 Rate 操作產生，之後不再修改或刪除
type Rating struct {
	Stars int   `json:"stars" bson:"stars"`
	Time  int64 `json:"time" bson:"time"` // 毫秒時間戳
}

// StoredRecipe 持久化形態。id 在文件生命週期內唯一且不可變，
// ratings 只增不減；score 不落地，一律由 ratings 重新計算。
type StoredRecipe struct {
	ID          string       `json:"id" bson:"_id"`
	Name        string       `json:"name" bson:"name"`
	Ingredients []Ingredient `json:"ingredients" bson:"ingredients"`
	Steps       []string     `json:"steps" bson:"steps"`
	Ratings     []Rating     `json:"ratings" bson:"ratings"`
}

// ResultRecipe API 對外的唯讀投影，不持久化。
// Score 只在至少有一筆合格評分時出現。
type ResultRecipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Score       *float64     `json:"score,omitempty"`
}
