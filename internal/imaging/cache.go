package imaging

import (
	"image"
	"sync"
)

// TileKey identifies one XYZ tile of one published layer.
type TileKey struct {
	// Source is the layer's tile URL template, which is unique per published map.
	Source string
	Z      int
	X      int
	Y      int
}

// TileCache provides thread-safe caching of decoded tiles so that re-rendering
// a preview of the same viewport does not fetch the same tiles again.
//
// The cache holds decoded images for the lifetime of the process. When a
// limit is set, the oldest entries are dropped first once it is reached.
//
// # Example Usage
//
//	cache := imaging.NewTileCache(512)
//	key := imaging.TileKey{Source: tileURL, Z: 18, X: 46230, Y: 102453}
//	if tile, ok := cache.Get(key); ok {
//	    // use tile
//	}
type TileCache struct {
	mu    sync.RWMutex
	tiles map[TileKey]image.Image
	order []TileKey
	limit int
}

// NewTileCache creates an empty cache holding at most limit tiles.
// A limit of zero or less means unbounded.
func NewTileCache(limit int) *TileCache {
	return &TileCache{
		tiles: make(map[TileKey]image.Image),
		limit: limit,
	}
}

// Get returns the cached tile for key.
func (c *TileCache) Get(key TileKey) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.tiles[key]
	return img, ok
}

// Put stores a tile, replacing any previous entry for the same key.
func (c *TileCache) Put(key TileKey, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tiles[key]; !ok {
		c.order = append(c.order, key)
	}
	c.tiles[key] = img

	for c.limit > 0 && len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.tiles, oldest)
	}
}

// Evict removes a single tile. Missing keys are ignored.
func (c *TileCache) Evict(key TileKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tiles[key]; !ok {
		return
	}
	delete(c.tiles, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear removes all tiles.
func (c *TileCache) Clear() {
	c.mu.Lock()
	c.tiles = make(map[TileKey]image.Image)
	c.order = nil
	c.mu.Unlock()
}

// Len returns the number of cached tiles.
func (c *TileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tiles)
}
