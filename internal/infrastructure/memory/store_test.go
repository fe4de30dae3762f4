package memory_test

import (
	"context"
	"testing"

	"recipe-box/internal/core/recipe"
	"recipe-box/internal/infrastructure/memory"
)

func sampleDoc(name string) recipe.StoredRecipe {
	return recipe.StoredRecipe{
		Name: name,
		Ingredients: []recipe.Ingredient{
			{Name: "pasta", Quantity: 200, Unit: "g"},
		},
		Steps: []string{"Boil"},
	}
}

func TestInsertAssignsUniqueIDs(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := store.Insert(ctx, sampleDoc("Pasta"))
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if id == "" {
			t.Fatal("expected an assigned id")
		}
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestFindByIDAbsent(t *testing.T) {
	store := memory.New()

	doc, err := store.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil for missing id, got %#v", doc)
	}
}

func TestFindAllKeepsInsertionOrder(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	names := []string{"First", "Second", "Third"}
	for _, name := range names {
		if _, err := store.Insert(ctx, sampleDoc(name)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	docs, err := store.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(docs) != len(names) {
		t.Fatalf("expected %d docs, got %d", len(names), len(docs))
	}
	for i, name := range names {
		if docs[i].Name != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, docs[i].Name)
		}
	}
}

func TestUpdateReplacesDocument(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	id, err := store.Insert(ctx, sampleDoc("Pasta"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	updated := sampleDoc("Pasta")
	updated.Ratings = []recipe.Rating{{Stars: 5, Time: 1000}}
	if err := store.Update(ctx, id, updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	doc, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if doc.ID != id {
		t.Fatalf("id changed on update: %s", doc.ID)
	}
	if len(doc.Ratings) != 1 || doc.Ratings[0].Stars != 5 {
		t.Fatalf("expected updated ratings, got %#v", doc.Ratings)
	}
}

func TestUpdateMissingFails(t *testing.T) {
	store := memory.New()
	if err := store.Update(context.Background(), "missing", sampleDoc("Pasta")); err == nil {
		t.Fatal("expected error for missing id")
	}
}

// 取出的文件是拷貝，改動不能滲回儲存層
func TestCopiesAreIsolated(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	id, err := store.Insert(ctx, sampleDoc("Pasta"))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	doc, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	doc.Ingredients[0].Name = "mutated"
	doc.Steps[0] = "mutated"

	fresh, err := store.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if fresh.Ingredients[0].Name != "pasta" || fresh.Steps[0] != "Boil" {
		t.Fatalf("stored document was mutated through a returned copy: %#v", fresh)
	}
}
