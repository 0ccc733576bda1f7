package cache

import (
	"sync"

	"github.com/ennecoded/enneagrams/config"
	"github.com/rs/zerolog/log"
)

// The cache holds objects that are expensive to build and immutable once
// built, such as parsed letter distributions. Many sessions (for example
// the self-play runner) share them.

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is the process-wide object cache.
var GlobalObjectCache *cache

func (c *cache) load(cfg *config.Config, key string, loadFunc loadFunc) error {
	log.Debug().Str("key", key).Msg("loading into cache")

	obj, err := loadFunc(cfg, key)
	if err != nil {
		return err
	}
	c.objects[key] = obj

	return nil
}

func (c *cache) get(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	obj, ok := c.objects[key]
	if !ok {
		err := c.load(cfg, key, loadFunc)
		if err != nil {
			return nil, err
		}
		return c.objects[key], nil
	}
	log.Debug().Str("key", key).Msg("getting obj from cache")

	return obj, nil
}

func (c *cache) populate(key string, obj any) {
	c.Lock()
	defer c.Unlock()
	c.objects[key] = obj
}

var createOnce sync.Once

func CreateGlobalObjectCache() {
	createOnce.Do(func() {
		GlobalObjectCache = &cache{objects: make(map[string]any)}
	})
}

// Load returns the object stored under key, calling loadFunc to build it
// the first time it is asked for.
func Load(cfg *config.Config, key string, loadFunc loadFunc) (any, error) {
	CreateGlobalObjectCache()
	return GlobalObjectCache.get(cfg, key, loadFunc)
}

// Populate stores obj under key, replacing whatever was there.
func Populate(key string, obj any) {
	CreateGlobalObjectCache()
	GlobalObjectCache.populate(key, obj)
}
