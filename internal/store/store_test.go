package store

import (
	"reflect"
	"testing"
)

func TestProfileRecordToProfile(t *testing.T) {
	rec := &ProfileRecord{
		UserID:           42,
		Gender:           "female",
		SkinTone:         "fair",
		FaceShape:        "oval",
		BodyShape:        "hourglass",
		ColorPreferences: []string{"navy", "cream"},
	}

	prof := rec.ToProfile()
	if prof.Gender != "female" || prof.SkinTone != "fair" {
		t.Errorf("unexpected profile: %+v", prof)
	}
	if prof.StylePreferences == nil || !reflect.DeepEqual(prof.StylePreferences.Colors, []string{"navy", "cream"}) {
		t.Errorf("color preferences not carried over: %+v", prof.StylePreferences)
	}

	bare := (&ProfileRecord{UserID: 42}).ToProfile()
	if bare.StylePreferences != nil {
		t.Error("empty preferences should leave StylePreferences nil")
	}
}

func TestWardrobeItemToDrawerProduct(t *testing.T) {
	item := &WardrobeItem{
		ID:          10,
		UserID:      42,
		Title:       "Blue blazer",
		Color:       "navy",
		Category:    "outerwear",
		Description: "Wool blend",
		ImageURL:    "https://bucket/key.jpg",
		Attributes:  map[string]any{"brand": "Acme", "season": "winter"},
	}

	p := item.ToDrawerProduct()
	if p.ID != 10 || p.Title != "Blue blazer" || p.Category != "outerwear" {
		t.Errorf("unexpected product: %+v", p)
	}
	if p.Extra["brand"] != "Acme" {
		t.Errorf("attributes not carried into Extra: %+v", p.Extra)
	}
}

func TestDrawerProductsPreservesCount(t *testing.T) {
	items := []WardrobeItem{{ID: 1, Category: "tops"}, {ID: 2, Category: "shoes"}}
	products := DrawerProducts(items)
	if len(products) != 2 || products[0].ID != 1 || products[1].ID != 2 {
		t.Errorf("unexpected conversion: %+v", products)
	}
}

func TestAttributesJSON(t *testing.T) {
	if got := attributesJSON(nil); got != "{}" {
		t.Errorf("nil attributes = %q, want {}", got)
	}
	got := attributesJSON(map[string]any{"fit": "slim"})
	if got != `{"fit":"slim"}` {
		t.Errorf("unexpected JSON: %q", got)
	}
}

func TestRecSKOrdersChronologically(t *testing.T) {
	early := recSK(1700000000, "a")
	late := recSK(1700000500, "b")
	if !(early < late) {
		t.Errorf("expected %q < %q", early, late)
	}
}
