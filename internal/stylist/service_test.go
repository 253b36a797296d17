package stylist

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fakeProfileStore serves a single user/profile pair from memory.
type fakeProfileStore struct {
	user    *User
	profile *Profile
}

func (f *fakeProfileStore) GetUser(_ context.Context, userID int64) (*User, error) {
	if f.user != nil && f.user.ID == userID {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeProfileStore) GetProfile(_ context.Context, userID int64) (*Profile, error) {
	if f.user != nil && f.user.ID == userID {
		return f.profile, nil
	}
	return nil, nil
}

// fakeWardrobeStore returns a fixed item list and records the requested limit.
type fakeWardrobeStore struct {
	items     []DrawerProduct
	lastLimit int
}

func (f *fakeWardrobeStore) ListDrawerProducts(_ context.Context, _ int64, limit int) ([]DrawerProduct, error) {
	f.lastLimit = limit
	return f.items, nil
}

// fakeEngine returns a canned response and records whether it was invoked.
type fakeEngine struct {
	result  *AIRecommendations
	err     error
	called  bool
	lastReq *Request
}

func (f *fakeEngine) Recommend(_ context.Context, req *Request, _ string) (*AIRecommendations, error) {
	f.called = true
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func fiveOutfits(ids ...int64) *AIRecommendations {
	recs := make([]Recommendation, 5)
	for i := range recs {
		recs[i] = Recommendation{
			Name:        "Look",
			Description: "Works with your shape and the occasion.",
			ProductIDs:  ids,
		}
	}
	return &AIRecommendations{Recommendations: recs}
}

func newTestService(profiles ProfileStore, wardrobe WardrobeStore, engine Engine) *Service {
	return NewService(profiles, wardrobe, engine, 0)
}

func TestRecommend_EndToEnd(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", SkinTone: "fair", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	wardrobe := &fakeWardrobeStore{items: []DrawerProduct{{ID: 10}, {ID: 11}, {ID: 12}}}
	engine := &fakeEngine{result: fiveOutfits(10, 12)}
	svc := newTestService(profiles, wardrobe, engine)

	recs, err := svc.Recommend(context.Background(), RecommendParams{
		UserID:      42,
		Destination: "Dhaka",
		Occasion:    "wedding",
		Datetime:    "2024-12-01T18:00:00+06:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs.Recommendations) != 5 {
		t.Errorf("expected 5 recommendations, got %d", len(recs.Recommendations))
	}

	allowed := map[int64]bool{10: true, 11: true, 12: true}
	for _, rec := range recs.Recommendations {
		for _, id := range rec.ProductIDs {
			if !allowed[id] {
				t.Errorf("recommendation references id %d outside wardrobe", id)
			}
		}
	}

	if engine.lastReq.EventDatetime == nil {
		t.Error("expected datetime to be threaded into the request")
	}
	if engine.lastReq.UserInfo.SkinTone != "white" {
		t.Errorf("expected normalized skin tone in request, got %q", engine.lastReq.UserInfo.SkinTone)
	}
	if wardrobe.lastLimit != maxWardrobeItems {
		t.Errorf("expected wardrobe fetch limited to %d, got %d", maxWardrobeItems, wardrobe.lastLimit)
	}
}

func TestRecommend_UserNotFound(t *testing.T) {
	engine := &fakeEngine{}
	svc := newTestService(&fakeProfileStore{}, &fakeWardrobeStore{}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 99})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %v", err)
	}
	if nf.Resource != "user" {
		t.Errorf("expected user not found, got %s", nf.Resource)
	}
	if engine.called {
		t.Error("engine must not be invoked when the user does not exist")
	}
}

func TestRecommend_ProfileNotFound(t *testing.T) {
	profiles := &fakeProfileStore{user: &User{ID: 7}} // user exists, profile nil
	engine := &fakeEngine{}
	svc := newTestService(profiles, &fakeWardrobeStore{}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 7})
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "profile" {
		t.Fatalf("expected profile *NotFoundError, got %v", err)
	}
	if engine.called {
		t.Error("engine must not be invoked when the profile does not exist")
	}
}

func TestRecommend_IncompleteProfileListsAllMissing(t *testing.T) {
	profiles := &fakeProfileStore{
		user:    &User{ID: 42},
		profile: &Profile{Gender: "female"}, // skin_tone, face_shape, body_shape missing
	}
	engine := &fakeEngine{}
	svc := newTestService(profiles, &fakeWardrobeStore{items: []DrawerProduct{{ID: 1}}}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 42})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{"skin_tone", "face_shape", "body_shape"}
	if !reflect.DeepEqual(verr.MissingFields, want) {
		t.Errorf("missing fields = %v, want %v", verr.MissingFields, want)
	}
	if engine.called {
		t.Error("engine must not be invoked for an incomplete profile")
	}
}

func TestRecommend_EmptySkinToneOnly(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	svc := newTestService(profiles, &fakeWardrobeStore{items: []DrawerProduct{{ID: 1}}}, &fakeEngine{})

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 42})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !reflect.DeepEqual(verr.MissingFields, []string{"skin_tone"}) {
		t.Errorf("missing fields = %v, want [skin_tone]", verr.MissingFields)
	}
}

func TestRecommend_NoWardrobeItems(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", SkinTone: "fair", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	engine := &fakeEngine{}
	svc := newTestService(profiles, &fakeWardrobeStore{}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 42})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "no wardrobe items") {
		t.Errorf("expected message mentioning no wardrobe items, got %q", verr.Error())
	}
	if engine.called {
		t.Error("engine must not be invoked when no wardrobe items exist")
	}
}

func TestRecommend_OverrideReplacesStoredWardrobe(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", SkinTone: "fair", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	engine := &fakeEngine{result: fiveOutfits(100)}
	svc := newTestService(profiles, &fakeWardrobeStore{items: []DrawerProduct{{ID: 1}}}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{
		UserID:                 42,
		DrawerProductsOverride: []DrawerProduct{{ID: 100, Title: "Borrowed tux"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(engine.lastReq.DrawerProducts) != 1 || engine.lastReq.DrawerProducts[0].ID != 100 {
		t.Errorf("expected override products in request, got %+v", engine.lastReq.DrawerProducts)
	}
}

func TestRecommend_NilWardrobeStoreDegrades(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", SkinTone: "fair", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	svc := newTestService(profiles, nil, &fakeEngine{})

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 42})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError from empty wardrobe, got %v", err)
	}
}

func TestRecommend_EngineErrorPropagates(t *testing.T) {
	profiles := &fakeProfileStore{
		user: &User{ID: 42},
		profile: &Profile{
			Gender: "female", SkinTone: "fair", FaceShape: "oval", BodyShape: "hourglass",
		},
	}
	engine := &fakeEngine{err: &EngineError{Message: "engine unavailable"}}
	svc := newTestService(profiles, &fakeWardrobeStore{items: []DrawerProduct{{ID: 1}}}, engine)

	_, err := svc.Recommend(context.Background(), RecommendParams{UserID: 42})
	var eerr *EngineError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected *EngineError, got %v", err)
	}
}
