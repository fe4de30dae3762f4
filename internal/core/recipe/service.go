package recipe

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"recipe-box/internal/pkg/common"

	"go.uber.org/zap"
)

const dayMillis = 24 * 60 * 60 * 1000

// Service 食譜服務
// 負責驗證、計分、搜尋與排名；持久層透過 Store 注入。
// --------------------------------------------------
type Service struct {
	store Store
	now   func() time.Time // 測試時可替換的時鐘
}

// NewService 創建新的食譜服務
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// toResult 把持久化文件投影成 API 形態，分數取 time >= since 的視窗
func toResult(doc *StoredRecipe, since int64) ResultRecipe {
	result := ResultRecipe{
		ID:          doc.ID,
		Name:        doc.Name,
		Ingredients: doc.Ingredients,
		Steps:       doc.Steps,
	}
	if score, ok := ScoreSince(doc.Ratings, since); ok {
		result.Score = &score
	}
	return result
}

// Create 建立新食譜。驗證失敗時不碰儲存層；
// 呼叫端附帶的 id 或 ratings 一律丟棄，評分歷史從空集合開始。
func (s *Service) Create(ctx context.Context, rec *Recipe) (*ResultRecipe, error) {
	if err := ValidateRecipe(rec); err != nil {
		return nil, common.NewInvalidArgument(err.Error())
	}

	id, err := s.store.Insert(ctx, StoredRecipe{
		Name:        rec.Name,
		Ingredients: rec.Ingredients,
		Steps:       rec.Steps,
		Ratings:     []Rating{},
	})
	if err != nil {
		return nil, common.NewInternal("failed to insert recipe", err)
	}

	common.LogDebug("食譜已建立",
		zap.String("recipe_id", id),
		zap.String("name", rec.Name),
	)

	// 新食譜沒有任何評分，不帶 score
	return &ResultRecipe{
		ID:          id,
		Name:        rec.Name,
		Ingredients: rec.Ingredients,
		Steps:       rec.Steps,
	}, nil
}

// basicRetrieve 共用的 id 檢查與取件流程
func (s *Service) basicRetrieve(ctx context.Context, id string) (*StoredRecipe, error) {
	if id == "" {
		return nil, common.NewInvalidArgument("A valid id must be provided")
	}

	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, common.NewInternal("failed to load recipe", err)
	}
	if doc == nil {
		return nil, common.NewNotFound("Cannot find recipe with id " + id)
	}

	return doc, nil
}

// Retrieve 取出單一食譜，分數為全部評分的平均（沒有評分則不帶 score）
func (s *Service) Retrieve(ctx context.Context, id string) (*ResultRecipe, error) {
	doc, err := s.basicRetrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toResult(doc, math.MinInt64)
	return &result, nil
}

// Rate 為食譜新增一筆評分並回傳它。stars 必須是 1 到 5 的整數，
// 以 float64 接收是為了把「2.5 不是整數」的判斷留在核心而不是交給 JSON 綁定。
//
// 讀出、前插、整份寫回不具隔離性：同一食譜的並發 Rate 可能以同一快照
// 各自計算而遺失其中一筆（lost update）。Store 介面只提供整份取代，
// 這裡如實保留原行為。
func (s *Service) Rate(ctx context.Context, id string, stars float64) (*Rating, error) {
	if math.IsNaN(stars) || math.Trunc(stars) != stars || stars < 1 || stars > 5 {
		return nil, common.NewInvalidArgument("Star rating must be an integer number from 1 to 5")
	}

	doc, err := s.basicRetrieve(ctx, id)
	if err != nil {
		return nil, err
	}

	newRating := Rating{
		Stars: int(stars),
		Time:  s.now().UnixMilli(),
	}

	doc.Ratings = append([]Rating{newRating}, doc.Ratings...)
	if err := s.store.Update(ctx, id, *doc); err != nil {
		return nil, common.NewInternal("failed to update recipe ratings", err)
	}

	common.LogDebug("食譜已評分",
		zap.String("recipe_id", id),
		zap.Int("stars", newRating.Stars),
	)

	return &newRating, nil
}

// Find 以名稱或食材內的文字搜尋食譜。text 為空時回傳全部；
// 否則把查詢字串與各食譜的搜尋鍵標準化後做子字串比對，
// 結果保持持久化順序，不重新排序。
func (s *Service) Find(ctx context.Context, text string) ([]ResultRecipe, error) {
	docs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, common.NewInternal("failed to load recipes", err)
	}

	term := ""
	if text != "" {
		term = NormalizeText(text)
	}

	results := make([]ResultRecipe, 0, len(docs))
	for i := range docs {
		if term != "" && !containsTerm(&docs[i], term) {
			continue
		}
		results = append(results, toResult(&docs[i], math.MinInt64))
	}

	return results, nil
}

func containsTerm(doc *StoredRecipe, term string) bool {
	return strings.Contains(searchKey(doc), term)
}

// Best 最近 days 天的最佳食譜，依視窗內平均分數由高至低取前 count 筆。
// 視窗內沒有評分的食譜直接剔除；同分時維持持久化順序（穩定排序）。
func (s *Service) Best(ctx context.Context, days, count int) ([]ResultRecipe, error) {
	if days <= 0 {
		return nil, common.NewInvalidArgument("Invalid period")
	}
	if count <= 0 {
		return nil, common.NewInvalidArgument("Invalid count")
	}

	since := s.now().UnixMilli() - int64(days)*dayMillis

	docs, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, common.NewInternal("failed to load recipes", err)
	}

	results := make([]ResultRecipe, 0, len(docs))
	for i := range docs {
		result := toResult(&docs[i], since)
		if result.Score == nil {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Score > *results[j].Score
	})

	if len(results) > count {
		results = results[:count]
	}

	return results, nil
}
