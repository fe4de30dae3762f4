package mongodb

import (
	"context"
	"errors"
	"fmt"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/config"
	"recipe-box/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store MongoDB 實作的食譜儲存層
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// 編譯期檢查介面實作
var _ recipe.Store = (*Store)(nil)

// New 連線 MongoDB 並建立儲存層。連線與 ping 都受 cfg.Timeout 限制。
func New(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	common.LogInfo("已連線 MongoDB",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Insert 寫入新文件，id 由這裡配發（UUID 字串作為 _id），不覆蓋既有文件
func (s *Store) Insert(ctx context.Context, doc recipe.StoredRecipe) (string, error) {
	doc.ID = common.GenerateUUID()
	if doc.Ratings == nil {
		doc.Ratings = []recipe.Rating{}
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("failed to insert recipe: %w", err)
	}

	return doc.ID, nil
}

// FindByID 依 id 取出文件，不存在時回傳 (nil, nil)
func (s *Store) FindByID(ctx context.Context, id string) (*recipe.StoredRecipe, error) {
	var doc recipe.StoredRecipe
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return &doc, nil
}

// FindAll 取出全部文件，不下推任何過濾或排序
func (s *Store) FindAll(ctx context.Context) ([]recipe.StoredRecipe, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []recipe.StoredRecipe
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	if docs == nil {
		docs = []recipe.StoredRecipe{}
	}
	return docs, nil
}

// Update 以 doc 完整取代 id 對應的文件
func (s *Store) Update(ctx context.Context, id string, doc recipe.StoredRecipe) error {
	doc.ID = id
	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no recipe matched id %s", id)
	}
	return nil
}

// Ping 健康檢查
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close 中斷 MongoDB 連線
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
