package stylist

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func completeProfile() Profile {
	return Profile{
		Gender:    "female",
		SkinTone:  "fair",
		FaceShape: "oval",
		BodyShape: "hourglass",
	}
}

func sampleProducts() []DrawerProduct {
	return []DrawerProduct{
		{ID: 10, Title: "Blue blazer", Color: "blue", Category: "outerwear"},
		{ID: 11, Title: "White shirt", Color: "white", Category: "top"},
		{ID: 12, Title: "Black heels", Color: "black", Category: "footwear"},
	}
}

func TestBuildRequest_MissingProfileFields(t *testing.T) {
	p := completeProfile()
	p.SkinTone = ""

	_, err := BuildRequest(p, sampleProducts(), "Dhaka", "wedding", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.MissingFields) != 1 || verr.MissingFields[0] != "skin_tone" {
		t.Errorf("expected missing [skin_tone], got %v", verr.MissingFields)
	}
}

func TestBuildRequest_EmptyWardrobe(t *testing.T) {
	_, err := BuildRequest(completeProfile(), nil, "Dhaka", "wedding", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "no wardrobe items") {
		t.Errorf("expected message about no wardrobe items, got %q", verr.Error())
	}
}

func TestBuildRequest_DatetimeWithOffset(t *testing.T) {
	req, err := BuildRequest(completeProfile(), sampleProducts(), "Dhaka", "wedding", "2024-05-01T10:00:00+06:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.EventDatetime == nil {
		t.Fatal("expected event datetime to be set")
	}
	want, _ := time.Parse(time.RFC3339, "2024-05-01T10:00:00+06:00")
	if !req.EventDatetime.Equal(want) {
		t.Errorf("event datetime = %v, want %v", req.EventDatetime, want)
	}
}

func TestBuildRequest_MalformedDatetimeTolerated(t *testing.T) {
	req, err := BuildRequest(completeProfile(), sampleProducts(), "Dhaka", "wedding", "next tuesday-ish")
	if err != nil {
		t.Fatalf("request should succeed despite bad datetime, got %v", err)
	}
	if req.EventDatetime != nil {
		t.Errorf("expected no temporal context, got %v", req.EventDatetime)
	}
}

func TestBuildRequest_SkinToneNormalized(t *testing.T) {
	req, err := BuildRequest(completeProfile(), sampleProducts(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.UserInfo.SkinTone != "white" {
		t.Errorf("skin tone = %q, want white", req.UserInfo.SkinTone)
	}
}

func TestBuildRequest_ColorPreferencesDefaultEmpty(t *testing.T) {
	req, err := BuildRequest(completeProfile(), sampleProducts(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.UserInfo.ColorPreferences == nil || len(req.UserInfo.ColorPreferences) != 0 {
		t.Errorf("expected empty (not nil) color preferences, got %#v", req.UserInfo.ColorPreferences)
	}

	p := completeProfile()
	p.StylePreferences = &StylePreferences{Colors: []string{"navy", "beige"}}
	req, err = BuildRequest(p, sampleProducts(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.UserInfo.ColorPreferences) != 2 {
		t.Errorf("expected 2 color preferences, got %v", req.UserInfo.ColorPreferences)
	}
}

func TestDrawerProduct_MarshalInlinesExtra(t *testing.T) {
	p := DrawerProduct{
		ID:       7,
		Title:    "Linen shirt",
		Category: "top",
		Extra:    map[string]any{"fabric": "linen"},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["id"] != float64(7) || m["title"] != "Linen shirt" || m["fabric"] != "linen" {
		t.Errorf("unexpected marshaled shape: %v", m)
	}
	if desc, ok := m["description"]; !ok || desc != "" {
		t.Errorf("description should serialize as empty string, got %v (present=%v)", desc, ok)
	}
}

func TestDrawerProduct_UnmarshalSplitsExtra(t *testing.T) {
	raw := `{"id": 3, "name": "Silk scarf", "color": "red", "brand": "Acme", "season": "winter"}`
	var p DrawerProduct
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ID != 3 || p.Name != "Silk scarf" || p.Color != "red" {
		t.Errorf("named fields not populated: %+v", p)
	}
	if p.Extra["brand"] != "Acme" || p.Extra["season"] != "winter" {
		t.Errorf("extra keys not captured: %v", p.Extra)
	}
}
