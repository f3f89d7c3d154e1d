package memimg

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writePNG(t *testing.T, path string, size int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	// 先写临时文件再改名，避免监听到半个文件
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatal(err)
	}
	f.Close()
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadScalesToBlock(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "head.png"), 64, color.RGBA{G: 200, A: 255})
	writePNG(t, filepath.Join(dir, "food.png"), 8, color.RGBA{R: 200, A: 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(20, zerolog.Nop())
	if err := c.Load(dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{SpriteHead, SpriteFood} {
		img, ok := c.Get(name)
		if !ok {
			t.Fatalf("%s not loaded", name)
		}
		if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
			t.Errorf("%s scaled to %v, want 20x20", name, b)
		}
	}
	if _, ok := c.Get("notes"); ok {
		t.Error("non-image file loaded")
	}
	if _, ok := c.Get(SpriteBody); ok {
		t.Error("missing sprite reported present")
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	c := New(10, zerolog.Nop())
	if err := c.Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatchPicksUpNewSprites(t *testing.T) {
	dir := t.TempDir()
	c := New(16, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- c.Watch(ctx, dir) }()

	// 等待监听器就绪后再写文件
	deadline := time.Now().Add(3 * time.Second)
	for {
		writePNG(t, filepath.Join(dir, "body.png"), 32, color.RGBA{B: 255, A: 255})
		if _, ok := c.Get(SpriteBody); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never loaded body.png")
		}
		time.Sleep(50 * time.Millisecond)
	}

	if err := os.Remove(filepath.Join(dir, "body.png")); err != nil {
		t.Fatal(err)
	}
	deadline = time.Now().Add(3 * time.Second)
	for {
		if _, ok := c.Get(SpriteBody); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never dropped body.png")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Watch returned %v", err)
	}
}
