package store

import (
	"testing"
	"time"

	"github.com/sunilvk/orderflow/internal/database"
	"github.com/sunilvk/orderflow/internal/model"
)

func setupDraftTestDB(t *testing.T) *DraftStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDraftStore(db)
}

func TestDraftSingleton(t *testing.T) {
	ds := setupDraftTestDB(t)

	draft, err := ds.Get()
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if draft.Status != model.StatusDraft {
		t.Errorf("status = %q, want %q", draft.Status, model.StatusDraft)
	}
	if len(draft.Items) != 0 {
		t.Errorf("fresh draft has %d items, want 0", len(draft.Items))
	}
	if draft.ApprovedBy != nil || draft.ApprovedAt != nil {
		t.Error("fresh draft should have no approval stamps")
	}
}

func TestAddItem(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	item, err := ds.AddItem("Milk", "2L", "Dairy & Milk Products", "Asha", now)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected item id to be set")
	}
	if item.Name != "Milk" || item.Quantity != "2L" || item.AddedBy != "Asha" {
		t.Errorf("unexpected item: %+v", item)
	}

	draft, _ := ds.Get()
	if len(draft.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(draft.Items))
	}
	if draft.Items[0].Category != "Dairy & Milk Products" {
		t.Errorf("category = %q", draft.Items[0].Category)
	}
}

func TestItemInsertionOrder(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	for _, name := range []string{"Milk", "Bread", "Onions"} {
		if _, err := ds.AddItem(name, "", "Uncategorized", "Asha", now); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	draft, _ := ds.Get()
	got := []string{draft.Items[0].Name, draft.Items[1].Name, draft.Items[2].Name}
	want := []string{"Milk", "Bread", "Onions"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRemoveItemAt(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	ds.AddItem("Milk", "", "Dairy & Milk Products", "Asha", now)
	ds.AddItem("Bread", "", "Bakery & Bread", "Asha", now)
	ds.AddItem("Onions", "", "Vegetables", "Ravi", now)

	removed, err := ds.RemoveItemAt(1)
	if err != nil {
		t.Fatalf("remove item: %v", err)
	}
	if removed == nil || removed.Name != "Bread" {
		t.Fatalf("removed = %+v, want Bread", removed)
	}

	draft, _ := ds.Get()
	if len(draft.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(draft.Items))
	}
	if draft.Items[0].Name != "Milk" || draft.Items[1].Name != "Onions" {
		t.Errorf("remaining items: %q, %q", draft.Items[0].Name, draft.Items[1].Name)
	}
}

func TestRemoveItemAtOutOfBounds(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	ds.AddItem("Milk", "", "Dairy & Milk Products", "Asha", now)

	for _, index := range []int{-1, 1, 99} {
		removed, err := ds.RemoveItemAt(index)
		if err != nil {
			t.Fatalf("remove at %d: %v", index, err)
		}
		if removed != nil {
			t.Errorf("remove at %d returned %+v, want nil", index, removed)
		}
	}

	draft, _ := ds.Get()
	if len(draft.Items) != 1 {
		t.Errorf("out-of-bounds remove changed item count: %d", len(draft.Items))
	}
}

func TestUpdateMatching(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	ds.AddItem("Milk", "1L", "Dairy & Milk Products", "Asha", now)
	ds.AddItem("Milk", "2L", "Dairy & Milk Products", "Ravi", now)
	ds.AddItem("Milk", "500ml", "Uncategorized", "Asha", now)

	count, err := ds.UpdateMatching("Milk", "Dairy & Milk Products", "3L", "Beverages & Drinks")
	if err != nil {
		t.Fatalf("update matching: %v", err)
	}
	if count != 2 {
		t.Fatalf("updated %d items, want 2", count)
	}

	draft, _ := ds.Get()
	for _, item := range draft.Items[:2] {
		if item.Quantity != "3L" || item.Category != "Beverages & Drinks" {
			t.Errorf("item not updated: %+v", item)
		}
	}
	if draft.Items[2].Quantity != "500ml" || draft.Items[2].Category != "Uncategorized" {
		t.Errorf("non-matching item changed: %+v", draft.Items[2])
	}
}

func TestUpdateMatchingNoMatch(t *testing.T) {
	ds := setupDraftTestDB(t)

	count, err := ds.UpdateMatching("Milk", "Dairy & Milk Products", "1L", "Dairy & Milk Products")
	if err != nil {
		t.Fatalf("update matching: %v", err)
	}
	if count != 0 {
		t.Errorf("updated %d items, want 0", count)
	}
}

func TestApproveAndReset(t *testing.T) {
	ds := setupDraftTestDB(t)

	now := time.Now().UTC()
	ds.AddItem("Milk", "2L", "Dairy & Milk Products", "Asha", now)

	approvedAt := time.Now().UTC().Truncate(time.Second)
	if err := ds.Approve("Ravi", approvedAt); err != nil {
		t.Fatalf("approve: %v", err)
	}

	draft, _ := ds.Get()
	if draft.Status != model.StatusApproved {
		t.Errorf("status = %q, want %q", draft.Status, model.StatusApproved)
	}
	if draft.ApprovedBy == nil || *draft.ApprovedBy != "Ravi" {
		t.Errorf("approved_by = %v, want Ravi", draft.ApprovedBy)
	}
	if draft.ApprovedAt == nil {
		t.Fatal("approved_at not set")
	}

	if err := ds.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	draft, _ = ds.Get()
	if draft.Status != model.StatusDraft {
		t.Errorf("status after reset = %q, want %q", draft.Status, model.StatusDraft)
	}
	if len(draft.Items) != 0 {
		t.Errorf("items after reset = %d, want 0", len(draft.Items))
	}
	if draft.ApprovedBy != nil || draft.ApprovedAt != nil {
		t.Error("approval stamps survived reset")
	}
}
