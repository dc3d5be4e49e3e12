package cache

import (
	"log"
	"os"
)

// Processor is the pipeline surface the decorator wraps; it matches
// receipt.Processor without importing it.
type Processor interface {
	Process(path string) (map[string]any, error)
}

// CachedProcessor short-circuits repeat scans of identical image content.
// Failed extractions are not cached: a retry may follow a manual fix such as
// swapping tessdata models.
type CachedProcessor struct {
	inner Processor
	store *Store
}

func NewCachedProcessor(inner Processor, store *Store) *CachedProcessor {
	return &CachedProcessor{inner: inner, store: store}
}

func (c *CachedProcessor) Process(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key := Key(content)
	if v, ok := c.store.Get(key); ok {
		log.Printf("cache: hit for %s", path)
		return v, nil
	}
	out, err := c.inner.Process(path)
	if err != nil {
		return out, err
	}
	c.store.Set(key, out)
	return out, nil
}
