package tilemapping

import (
	"errors"
	"strings"

	"github.com/ennecoded/enneagrams/cache"
	"github.com/ennecoded/enneagrams/config"
)

var CacheKeyPrefix = "letterdist:"

// CacheLoadFunc is the function that loads a distribution into the global
// cache.
func CacheLoadFunc(cfg *config.Config, key string) (any, error) {
	dist := strings.TrimPrefix(key, CacheKeyPrefix)
	return NamedLetterDistribution(cfg, dist)
}

// Get loads a named letter distribution from the cache or from a file.
func Get(cfg *config.Config, name string) (*LetterDistribution, error) {
	key := CacheKeyPrefix + strings.ToLower(name)
	obj, err := cache.Load(cfg, key, CacheLoadFunc)
	if err != nil {
		return nil, err
	}
	ret, ok := obj.(*LetterDistribution)
	if !ok {
		return nil, errors.New("could not read letter distribution from cache")
	}
	return ret, nil
}
