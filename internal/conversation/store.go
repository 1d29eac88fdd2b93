package conversation

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store keeps conversation contexts by session key.
type Store interface {
	Get(key string) (*Context, bool)
	Put(key string, c *Context)
	Delete(key string)
	Keys() []string
}

// SessionKey derives the context key for a user and chat pair. A
// session is identified only when both ids are present; partial
// identity falls back to the shared anonymous session.
func SessionKey(userID, chatID string) string {
	if userID == "" || chatID == "" {
		return "anonymous"
	}

	return userID + "_" + chatID
}

type cacheStore struct {
	cache *gocache.Cache
}

// NewCacheStore returns a Store backed by an in-process cache with
// the given idle expiration. Zero ttl keeps contexts forever.
func NewCacheStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	return &cacheStore{cache: gocache.New(ttl, 10*time.Minute)}
}

func (s *cacheStore) Get(key string) (*Context, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}

	c, ok := v.(*Context)

	return c, ok
}

func (s *cacheStore) Put(key string, c *Context) {
	s.cache.SetDefault(key, c)
}

func (s *cacheStore) Delete(key string) {
	s.cache.Delete(key)
}

func (s *cacheStore) Keys() []string {
	items := s.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}

	return keys
}
