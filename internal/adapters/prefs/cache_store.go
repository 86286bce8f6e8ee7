package prefs

import (
	"context"
	"strings"

	"github.com/smileops/dentaldesk/internal/domain/providers"
)

const languageKey = "kiosk:lang"

// CacheStore persists kiosk preferences through the cache provider, so
// the language selection survives kiosk restarts. Preferences have no
// expiry.
type CacheStore struct {
	cache providers.CacheProvider
}

// NewCacheStore creates a cache-backed preference store
func NewCacheStore(cache providers.CacheProvider) *CacheStore {
	return &CacheStore{cache: cache}
}

// Language returns the persisted two-letter language tag, or "" when
// none has been saved.
func (s *CacheStore) Language(ctx context.Context) (string, error) {
	data, err := s.cache.Get(ctx, languageKey)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SetLanguage persists the language tag.
func (s *CacheStore) SetLanguage(ctx context.Context, tag string) error {
	return s.cache.Set(ctx, languageKey, []byte(tag), 0)
}
