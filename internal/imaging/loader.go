package imaging

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// DefaultCacheSize is the number of decoded frames the server keeps.
const DefaultCacheSize = 16

// ImageCache keeps recently decoded images keyed by file path.
//
// Successive tool calls on the same frame (estimate, then align, then read)
// decode it once. The cache holds at most limit images and drops the oldest
// insertion when full.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
	order  []string
	limit  int
}

// NewImageCache creates an empty cache holding up to limit images.
// A limit below one means DefaultCacheSize.
func NewImageCache(limit int) *ImageCache {
	if limit < 1 {
		limit = DefaultCacheSize
	}
	return &ImageCache{
		images: make(map[string]image.Image),
		limit:  limit,
	}
}

// Load returns the cached image for path, decoding it on a miss.
//
// Supported formats are those registered by the imaging library (PNG, JPEG,
// GIF, BMP, TIFF). EXIF orientation is applied on load so that camera stills
// come out upright.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.images[path]; ok {
		// Another goroutine decoded it first.
		return cached, nil
	}
	for len(c.order) >= c.limit {
		delete(c.images, c.order[0])
		c.order = c.order[1:]
	}
	c.images[path] = img
	c.order = append(c.order, path)

	return img, nil
}

// Evict removes path from the cache. Unknown paths are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[path]; !ok {
		return
	}
	delete(c.images, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}
