// Package memimg keeps the board sprites in memory, scaled to one grid block,
// and reloads them when the sprite directory changes.
package memimg

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Sprite names looked up by the renderer.
const (
	SpriteHead = "head"
	SpriteBody = "body"
	SpriteFood = "food"
)

var supported = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true}

// Cache holds decoded sprites keyed by file name without extension.
type Cache struct {
	blockSize int
	log       zerolog.Logger

	mu     sync.RWMutex
	images map[string]image.Image
}

func New(blockSize int, logger zerolog.Logger) *Cache {
	return &Cache{
		blockSize: blockSize,
		log:       logger,
		images:    make(map[string]image.Image),
	}
}

// Load reads every supported image under directory.
func (c *Cache) Load(directory string) error {
	return filepath.Walk(directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !supported[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		return c.loadFile(path)
	})
}

func (c *Cache) loadFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	c.Put(spriteName(path), img)
	c.log.Debug().Str("path", path).Msg("sprite loaded")
	return nil
}

// Put scales img to one block and stores it under name.
func (c *Cache) Put(name string, img image.Image) {
	// 缩放到一个格子的大小
	scaled := imaging.Resize(img, c.blockSize, c.blockSize, imaging.Lanczos)
	c.mu.Lock()
	c.images[name] = scaled
	c.mu.Unlock()
}

// Get returns the sprite stored under name.
func (c *Cache) Get(name string) (image.Image, bool) {
	c.mu.RLock()
	img, exists := c.images[name]
	c.mu.RUnlock()
	return img, exists
}

func (c *Cache) remove(name string) {
	c.mu.Lock()
	delete(c.images, name)
	c.mu.Unlock()
}

// Watch reloads sprites written or created in directory and drops removed
// ones, until ctx is cancelled.
func (c *Cache) Watch(ctx context.Context, directory string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(directory); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !supported[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				// 文件可能还没写完，解码失败就等下一次写事件
				if err := c.loadFile(event.Name); err != nil {
					c.log.Debug().Err(err).Str("path", event.Name).Msg("sprite not ready")
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				c.remove(spriteName(event.Name))
				c.log.Debug().Str("path", event.Name).Msg("sprite removed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn().Err(err).Msg("sprite watcher error")
		}
	}
}

func spriteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
