package recipe

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"recipe-box/internal/pkg/common"
)

// fakeStore 測試用儲存層：確定性 id、呼叫計數、可注入錯誤
type fakeStore struct {
	docs []StoredRecipe
	err  error // 注入的儲存層錯誤

	insertCalls  int
	findCalls    int
	findAllCalls int
	updateCalls  int
}

func (f *fakeStore) Insert(ctx context.Context, doc StoredRecipe) (string, error) {
	f.insertCalls++
	if f.err != nil {
		return "", f.err
	}
	doc.ID = fmt.Sprintf("r%d", len(f.docs)+1)
	f.docs = append(f.docs, doc)
	return doc.ID, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*StoredRecipe, error) {
	f.findCalls++
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.docs {
		if f.docs[i].ID == id {
			doc := f.docs[i]
			doc.Ratings = append([]Rating(nil), f.docs[i].Ratings...)
			return &doc, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FindAll(ctx context.Context) ([]StoredRecipe, error) {
	f.findAllCalls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]StoredRecipe(nil), f.docs...), nil
}

func (f *fakeStore) Update(ctx context.Context, id string, doc StoredRecipe) error {
	f.updateCalls++
	if f.err != nil {
		return f.err
	}
	for i := range f.docs {
		if f.docs[i].ID == id {
			doc.ID = id
			f.docs[i] = doc
			return nil
		}
	}
	return fmt.Errorf("no recipe stored with id %s", id)
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.err
}

// 固定時鐘，評分時間戳與視窗計算都以此為準
const fixedNow = int64(1_700_000_000_000)

func newTestService() (*Service, *fakeStore) {
	store := &fakeStore{}
	svc := NewService(store)
	svc.now = func() time.Time { return time.UnixMilli(fixedNow) }
	return svc, store
}

func ageMillis(days float64) int64 {
	return fixedNow - int64(days*float64(dayMillis))
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	ce, ok := common.AsCustomError(err)
	if !ok {
		t.Fatalf("expected CustomError, got %T: %v", err, err)
	}
	if ce.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, ce.Code, ce.Message)
	}
}

func mustCreate(t *testing.T, svc *Service, name string, ingredientNames ...string) string {
	t.Helper()
	ingredients := make([]Ingredient, len(ingredientNames))
	for i, n := range ingredientNames {
		ingredients[i] = Ingredient{Name: n, Quantity: 1, Unit: "unit"}
	}
	result, err := svc.Create(context.Background(), &Recipe{
		Name:        name,
		Ingredients: ingredients,
		Steps:       []string{"cook it"},
	})
	if err != nil {
		t.Fatalf("Create(%s) failed: %v", name, err)
	}
	return result.ID
}

func TestCreateValidRecipe(t *testing.T) {
	svc, store := newTestService()

	result, err := svc.Create(context.Background(), &Recipe{
		Name:        "Pasta",
		Ingredients: []Ingredient{{Name: "pasta", Quantity: 200, Unit: "g"}},
		Steps:       []string{"Boil"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if result.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if result.Score != nil {
		t.Fatal("a brand-new recipe must not carry a score")
	}
	if store.insertCalls != 1 {
		t.Fatalf("expected exactly one insert, got %d", store.insertCalls)
	}
	if got := store.docs[0].Ratings; got == nil || len(got) != 0 {
		t.Fatalf("expected persisted empty ratings, got %#v", got)
	}
}

func TestCreateInvalidNeverTouchesStore(t *testing.T) {
	invalid := []*Recipe{
		nil,
		{},
		{Name: "x", Steps: []string{"s"}},
		{Name: "x", Ingredients: []Ingredient{{Name: "a", Quantity: 0, Unit: "g"}}, Steps: []string{"s"}},
		{Name: "x", Ingredients: []Ingredient{{Name: "a", Quantity: 1, Unit: "g"}}},
	}

	for i, rec := range invalid {
		svc, store := newTestService()
		_, err := svc.Create(context.Background(), rec)
		wantCode(t, err, common.ErrCodeInvalidArgument)
		if store.insertCalls != 0 {
			t.Fatalf("case %d: insert called for invalid recipe", i)
		}
	}
}

func TestRetrieveEmptyID(t *testing.T) {
	svc, store := newTestService()
	_, err := svc.Retrieve(context.Background(), "")
	wantCode(t, err, common.ErrCodeInvalidArgument)
	if store.findCalls != 0 {
		t.Fatal("store queried for an invalid id")
	}
}

func TestRetrieveMissing(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Retrieve(context.Background(), "nope")
	wantCode(t, err, common.ErrCodeNotFound)
}

func TestRetrieveScore(t *testing.T) {
	svc, store := newTestService()
	id := mustCreate(t, svc, "Pasta", "pasta")

	// 沒有評分時不帶 score
	result, err := svc.Retrieve(context.Background(), id)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if result.Score != nil {
		t.Fatalf("expected absent score, got %v", *result.Score)
	}

	store.docs[0].Ratings = []Rating{
		{Stars: 2, Time: ageMillis(1)},
		{Stars: 3, Time: ageMillis(2)},
	}

	result, err = svc.Retrieve(context.Background(), id)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if result.Score == nil || *result.Score != 2.5 {
		t.Fatalf("expected score 2.5, got %v", result.Score)
	}
}

func TestRetrieveIdempotent(t *testing.T) {
	svc, _ := newTestService()
	id := mustCreate(t, svc, "Pasta", "pasta")
	if _, err := svc.Rate(context.Background(), id, 4); err != nil {
		t.Fatalf("Rate failed: %v", err)
	}

	first, err := svc.Retrieve(context.Background(), id)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	second, err := svc.Retrieve(context.Background(), id)
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("retrieve is not idempotent: %#v vs %#v", first, second)
	}
}

func TestRateInvalidStars(t *testing.T) {
	for _, stars := range []float64{0, 2.5, 7, -1} {
		svc, store := newTestService()
		id := mustCreate(t, svc, "Pasta", "pasta")

		_, err := svc.Rate(context.Background(), id, stars)
		wantCode(t, err, common.ErrCodeInvalidArgument)
		if store.updateCalls != 0 {
			t.Fatalf("stars=%v: storage mutated for invalid rating", stars)
		}
	}
}

func TestRateAppendsOneRating(t *testing.T) {
	svc, store := newTestService()
	id := mustCreate(t, svc, "Pasta", "pasta")

	for stars := 1; stars <= 5; stars++ {
		rating, err := svc.Rate(context.Background(), id, float64(stars))
		if err != nil {
			t.Fatalf("Rate(%d) failed: %v", stars, err)
		}
		if rating.Stars != stars {
			t.Fatalf("expected stars %d, got %d", stars, rating.Stars)
		}
		if rating.Time != fixedNow {
			t.Fatalf("expected rating time %d, got %d", fixedNow, rating.Time)
		}
		if len(store.docs[0].Ratings) != stars {
			t.Fatalf("expected %d persisted ratings, got %d", stars, len(store.docs[0].Ratings))
		}
		// 新評分插在最前面
		if store.docs[0].Ratings[0].Stars != stars {
			t.Fatalf("expected newest rating first, got %#v", store.docs[0].Ratings)
		}
	}
}

func TestRateMissingRecipe(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Rate(context.Background(), "nope", 3)
	wantCode(t, err, common.ErrCodeNotFound)
}

func TestFind(t *testing.T) {
	svc, _ := newTestService()
	saladID := mustCreate(t, svc, "Caesar Salad", "letuce", "croutons")
	pastaID := mustCreate(t, svc, "Pasta", "pasta", "tomato")

	// 空字串回傳全部，維持持久化順序
	all, err := svc.Find(context.Background(), "")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != saladID || all[1].ID != pastaID {
		t.Fatalf("expected all recipes in persisted order, got %#v", all)
	}

	// 大小寫與標點不影響比對
	matches, err := svc.Find(context.Background(), "LETUCE")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != saladID {
		t.Fatalf("expected only the salad, got %#v", matches)
	}

	// 找不到時回傳空集合
	none, err := svc.Find(context.Background(), "chocolate")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty result, got %#v", none)
	}
}

func TestBestValidation(t *testing.T) {
	svc, store := newTestService()

	_, err := svc.Best(context.Background(), 0, 3)
	wantCode(t, err, common.ErrCodeInvalidArgument)

	_, err = svc.Best(context.Background(), -2, 3)
	wantCode(t, err, common.ErrCodeInvalidArgument)

	_, err = svc.Best(context.Background(), 5, 0)
	wantCode(t, err, common.ErrCodeInvalidArgument)

	if store.findAllCalls != 0 {
		t.Fatal("store queried before argument validation")
	}
}

// 規格情境：5 天視窗、count=2。
// A 視窗內一筆 2 分；B 的 2、3 在視窗內、4 在視窗外（平均 2.5）；
// C 沒有評分；D 1 分被 count 截掉。
func TestBestRanking(t *testing.T) {
	svc, store := newTestService()
	aID := mustCreate(t, svc, "A", "a")
	bID := mustCreate(t, svc, "B", "b")
	mustCreate(t, svc, "C", "c")
	mustCreate(t, svc, "D", "d")

	store.docs[0].Ratings = []Rating{{Stars: 2, Time: ageMillis(4)}}
	store.docs[1].Ratings = []Rating{
		{Stars: 2, Time: ageMillis(2)},
		{Stars: 3, Time: ageMillis(3)},
		{Stars: 4, Time: ageMillis(6)},
	}
	store.docs[3].Ratings = []Rating{{Stars: 1, Time: ageMillis(1)}}

	best, err := svc.Best(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}

	if len(best) != 2 {
		t.Fatalf("expected 2 results, got %d", len(best))
	}
	if best[0].ID != bID || *best[0].Score != 2.5 {
		t.Fatalf("expected B(2.5) first, got %s(%v)", best[0].ID, best[0].Score)
	}
	if best[1].ID != aID || *best[1].Score != 2 {
		t.Fatalf("expected A(2) second, got %s(%v)", best[1].ID, best[1].Score)
	}
}

// 評分剛好落在視窗邊界（time == since）要算進去
func TestBestWindowBoundary(t *testing.T) {
	svc, store := newTestService()
	id := mustCreate(t, svc, "Boundary", "x")

	store.docs[0].Ratings = []Rating{{Stars: 5, Time: fixedNow - 3*dayMillis}}

	best, err := svc.Best(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if len(best) != 1 || best[0].ID != id {
		t.Fatalf("expected boundary rating to qualify, got %#v", best)
	}
}

// 同分時維持持久化順序（穩定排序）
func TestBestStableTies(t *testing.T) {
	svc, store := newTestService()
	firstID := mustCreate(t, svc, "First", "x")
	secondID := mustCreate(t, svc, "Second", "y")

	store.docs[0].Ratings = []Rating{{Stars: 3, Time: ageMillis(1)}}
	store.docs[1].Ratings = []Rating{{Stars: 3, Time: ageMillis(2)}}

	best, err := svc.Best(context.Background(), 7, 10)
	if err != nil {
		t.Fatalf("Best failed: %v", err)
	}
	if len(best) != 2 || best[0].ID != firstID || best[1].ID != secondID {
		t.Fatalf("expected tie to preserve persisted order, got %#v", best)
	}
}

func TestStoreFailureIsInternal(t *testing.T) {
	svc, store := newTestService()
	store.err = fmt.Errorf("disk on fire")

	_, err := svc.Find(context.Background(), "")
	wantCode(t, err, common.ErrCodeInternalError)

	_, err = svc.Retrieve(context.Background(), "some-id")
	wantCode(t, err, common.ErrCodeInternalError)
}
