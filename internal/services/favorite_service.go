package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/EGS-Tourist-Guide/event-service/internal/models"
)

// FavoriteService keeps the invariant that an event's favorites counter
// equals the number of its favorite rows with status true. Transitions
// are decided by conditional store updates, never by reading first, and
// the row write and the counter move share one transaction so neither
// is ever observable without the other.
type FavoriteService struct {
	favorites models.FavoriteRepo
}

func NewFavoriteService(favorites models.FavoriteRepo) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
	}
}

// Toggle moves the (event, user) favorite to the desired status.
// Repeating a toggle with the same status is a no-op; the counter moves
// only when a row actually transitions.
func (fs *FavoriteService) Toggle(ctx context.Context, eventID, userID string, status bool) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("event ID cannot be empty")
	}
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("user ID cannot be empty")
	}

	return fs.favorites.WithTransaction(ctx, "favorites.toggle", func(ctx context.Context) error {
		delta, err := fs.transition(ctx, eventID, userID, status)
		if err != nil {
			return err
		}
		if delta == 0 {
			return nil
		}
		return fs.favorites.AdjustFavorites(ctx, eventID, delta)
	})
}

// transition flips the favorite row if needed and returns the counter
// delta the flip earned.
func (fs *FavoriteService) transition(ctx context.Context, eventID, userID string, status bool) (int, error) {
	if !status {
		// Unfavoriting transitions only rows currently set to true;
		// absent and already-false rows are no-ops and never upsert.
		flipped, err := fs.favorites.SetFavoriteStatus(ctx, eventID, userID, true, false)
		if err != nil {
			return 0, err
		}
		if flipped {
			return -1, nil
		}
		return 0, nil
	}

	// Favoriting: flip an existing false row first.
	flipped, err := fs.favorites.SetFavoriteStatus(ctx, eventID, userID, false, true)
	if err != nil {
		return 0, err
	}
	if flipped {
		return 1, nil
	}

	// No false row: insert unless a row already exists. A lost insert
	// race or an existing true row means the transition belongs to
	// someone else (or already happened) and counts nothing here.
	inserted, err := fs.favorites.InsertFavorite(ctx, eventID, userID, true)
	if err != nil {
		return 0, err
	}
	if inserted {
		return 1, nil
	}
	return 0, nil
}

// IsFavorite reports the stored status for the pair; an absent row
// counts as false.
func (fs *FavoriteService) IsFavorite(ctx context.Context, eventID, userID string) (bool, error) {
	favorite, err := fs.favorites.GetFavorite(ctx, eventID, userID)
	if err != nil {
		return false, localInternal(err)
	}
	return favorite != nil && favorite.FavoriteStatus, nil
}
