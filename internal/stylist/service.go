package stylist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// maxWardrobeItems bounds the wardrobe slice sent to the engine: at most
// this many items, most recently created first.
const maxWardrobeItems = 20

// DefaultEngineTimeout bounds a single engine invocation. The external
// engine's latency is unbounded in principle; a timeout surfaces as an
// *EngineError.
const DefaultEngineTimeout = 60 * time.Second

// ProfileStore resolves users and their stored profiles by user id.
// Both methods return (nil, nil) when the record does not exist.
type ProfileStore interface {
	GetUser(ctx context.Context, userID int64) (*User, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
}

// WardrobeStore reads a bounded, most-recent projection of a user's
// wardrobe. Implementations must not mutate the underlying collection.
type WardrobeStore interface {
	ListDrawerProducts(ctx context.Context, userID int64, limit int) ([]DrawerProduct, error)
}

// RecommendParams are the inputs to one recommendation call.
type RecommendParams struct {
	UserID      int64
	Destination string
	Occasion    string
	Datetime    string // ISO-8601; malformed values are tolerated and dropped

	// DrawerProductsOverride, when non-empty, replaces the stored wardrobe.
	DrawerProductsOverride []DrawerProduct

	// SessionID threads downstream conversation continuity; optional.
	SessionID string
}

// Service is the public entry point of the recommendation pipeline. All
// state is per-call; a single Service is safe for concurrent use as long as
// its collaborators are.
type Service struct {
	profiles      ProfileStore
	wardrobe      WardrobeStore
	engine        Engine
	engineTimeout time.Duration
}

// NewService wires the orchestrator. wardrobe may be nil, in which case
// stored-wardrobe resolution degrades to an empty list and only overrides
// can satisfy a request. engineTimeout <= 0 uses DefaultEngineTimeout.
func NewService(profiles ProfileStore, wardrobe WardrobeStore, engine Engine, engineTimeout time.Duration) *Service {
	if engineTimeout <= 0 {
		engineTimeout = DefaultEngineTimeout
	}
	return &Service{
		profiles:      profiles,
		wardrobe:      wardrobe,
		engine:        engine,
		engineTimeout: engineTimeout,
	}
}

// Recommend resolves the user's profile and wardrobe, builds the engine
// request, and returns the engine's structured recommendations. Either a
// complete, schema-valid result is returned or the call fails outright with
// one of *NotFoundError, *ValidationError, or *EngineError. Validation and
// not-found conditions are detected before the engine is invoked.
func (s *Service) Recommend(ctx context.Context, params RecommendParams) (*AIRecommendations, error) {
	user, err := s.profiles.GetUser(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %d: %w", params.UserID, err)
	}
	if user == nil {
		return nil, &NotFoundError{Resource: "user", UserID: params.UserID}
	}

	profile, err := s.profiles.GetProfile(ctx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve profile for user %d: %w", params.UserID, err)
	}
	if profile == nil {
		return nil, &NotFoundError{Resource: "profile", UserID: params.UserID}
	}

	if missing := MissingProfileFields(*profile); len(missing) > 0 {
		return nil, &ValidationError{MissingFields: missing}
	}

	products := params.DrawerProductsOverride
	if len(products) == 0 {
		products, err = s.fetchWardrobe(ctx, params.UserID)
		if err != nil {
			return nil, err
		}
	}
	if len(products) == 0 {
		return nil, &ValidationError{Message: "no wardrobe items available; add at least one item"}
	}

	req, err := BuildRequest(*profile, products, params.Destination, params.Occasion, params.Datetime)
	if err != nil {
		return nil, err
	}

	engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
	defer cancel()

	recs, err := s.engine.Recommend(engineCtx, req, params.SessionID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &EngineError{Message: "recommendation engine timed out", Err: err}
		}
		return nil, err
	}
	return recs, nil
}

// fetchWardrobe reads the bounded, most-recent wardrobe projection. A nil
// store degrades to an empty list rather than failing.
func (s *Service) fetchWardrobe(ctx context.Context, userID int64) ([]DrawerProduct, error) {
	if s.wardrobe == nil {
		log.Warn().Int64("userId", userID).Msg("Wardrobe store not configured; treating wardrobe as empty")
		return nil, nil
	}
	products, err := s.wardrobe.ListDrawerProducts(ctx, userID, maxWardrobeItems)
	if err != nil {
		return nil, fmt.Errorf("fetch wardrobe for user %d: %w", userID, err)
	}
	return products, nil
}
