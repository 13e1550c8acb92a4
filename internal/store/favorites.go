package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	apperrors "candle-analyzer/internal/errors"
	"candle-analyzer/internal/models"
)

// Favorites is the persisted list of (pattern, currency) favorites. It is
// loaded once and rewritten in full on every mutation.
type Favorites struct {
	mu    sync.RWMutex
	kv    KeyValue
	key   string
	items []models.Favorite
}

// LoadFavorites reads the favorites list stored under key. A missing key
// yields an empty list.
func LoadFavorites(ctx context.Context, kv KeyValue, key string) (*Favorites, error) {
	if key == "" {
		key = DefaultFavoritesKey
	}

	f := &Favorites{kv: kv, key: key}

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, apperrors.NewDataError("favorites", key, "load failed", err)
	}
	if !ok || len(raw) == 0 {
		return f, nil
	}

	var stored []models.Favorite
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, apperrors.NewDataError("favorites", key, "corrupt payload", err)
	}

	seen := make(map[models.Favorite]bool, len(stored))
	for _, fav := range stored {
		if fav.Pattern == "" || fav.Currency == "" || seen[fav] {
			continue
		}
		seen[fav] = true
		f.items = append(f.items, fav)
	}

	return f, nil
}

// Key returns the storage key.
func (f *Favorites) Key() string {
	return f.key
}

// Toggle adds the favorite if absent and removes it otherwise. It reports
// whether the favorite is present after the call. If persisting fails the
// in-memory list is left unchanged.
func (f *Favorites) Toggle(ctx context.Context, pattern, currency string) (bool, error) {
	fav, err := newFavorite(pattern, currency)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	next := make([]models.Favorite, 0, len(f.items)+1)
	added := true
	for _, item := range f.items {
		if item == fav {
			added = false
			continue
		}
		next = append(next, item)
	}
	if added {
		next = append(next, fav)
	}

	if err := f.save(ctx, next); err != nil {
		return !added, err
	}
	f.items = next
	return added, nil
}

// Remove deletes the favorite if present.
func (f *Favorites) Remove(ctx context.Context, pattern, currency string) error {
	if f.IsFavorite(pattern, currency) {
		_, err := f.Toggle(ctx, pattern, currency)
		return err
	}
	return nil
}

// Clear removes every favorite.
func (f *Favorites) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.save(ctx, nil); err != nil {
		return err
	}
	f.items = nil
	return nil
}

// IsFavorite reports whether pattern is a favorite for currency.
func (f *Favorites) IsFavorite(pattern, currency string) bool {
	pattern, currency = strings.TrimSpace(pattern), strings.TrimSpace(currency)

	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, item := range f.items {
		if item.Pattern == pattern && item.Currency == currency {
			return true
		}
	}
	return false
}

// List returns every favorite in insertion order.
func (f *Favorites) List() []models.Favorite {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]models.Favorite(nil), f.items...)
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.items)
}

// ForCurrency returns the pattern names favorited for currency.
func (f *Favorites) ForCurrency(currency string) []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var names []string
	for _, item := range f.items {
		if item.Currency == currency {
			names = append(names, item.Pattern)
		}
	}
	return names
}

// Grouped returns favorites grouped by pattern, in the order each pattern
// was first favorited.
func (f *Favorites) Grouped() []models.FavoriteGroup {
	f.mu.RLock()
	defer f.mu.RUnlock()

	index := make(map[string]int)
	var groups []models.FavoriteGroup
	for _, item := range f.items {
		i, ok := index[item.Pattern]
		if !ok {
			i = len(groups)
			index[item.Pattern] = i
			groups = append(groups, models.FavoriteGroup{Pattern: item.Pattern})
		}
		groups[i].Currencies = append(groups[i].Currencies, item.Currency)
	}
	return groups
}

func (f *Favorites) save(ctx context.Context, items []models.Favorite) error {
	if items == nil {
		items = []models.Favorite{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewDataError("favorites", f.key, "encode failed", err)
	}
	if err := f.kv.Put(ctx, f.key, raw); err != nil {
		return apperrors.NewDataError("favorites", f.key, "save failed", err)
	}
	return nil
}

func newFavorite(pattern, currency string) (models.Favorite, error) {
	fav := models.Favorite{
		Pattern:  strings.TrimSpace(pattern),
		Currency: strings.TrimSpace(currency),
	}
	if fav.Pattern == "" {
		return fav, apperrors.NewValidationError("pattern", pattern, "must not be empty")
	}
	if fav.Currency == "" {
		return fav, apperrors.NewValidationError("currency", currency, "must not be empty")
	}
	return fav, nil
}
