package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/rs/zerolog"

	"github.com/hoshinonyaruko/snake-grid/memimg"
	"github.com/hoshinonyaruko/snake-grid/structs"
)

var (
	colorHead = color.RGBA{R: 0x1b, G: 0x5e, B: 0x20, A: 0xff}
	colorBody = color.RGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	colorFood = color.RGBA{R: 0xe5, G: 0x39, B: 0x35, A: 0xff}
)

// PNG rasterises snapshots with gg and keeps the encoded latest frame. When
// a path is set the frame is also written there for static serving.
type PNG struct {
	sprites   *memimg.Cache
	blockSize int
	path      string
	log       zerolog.Logger

	// 网格背景只和尺寸有关，缓存起来
	bgMu   sync.Mutex
	bgKey  [2]int
	bgDone image.Image

	mu    sync.RWMutex
	frame []byte
}

func NewPNG(sprites *memimg.Cache, blockSize int, path string, logger zerolog.Logger) *PNG {
	return &PNG{
		sprites:   sprites,
		blockSize: blockSize,
		path:      path,
		log:       logger,
	}
}

// Render draws s and replaces the stored frame.
func (p *PNG) Render(s structs.Snapshot) {
	img := p.Draw(s)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		p.log.Error().Err(err).Msg("encode frame")
		return
	}
	data := buf.Bytes()

	p.mu.Lock()
	p.frame = data
	p.mu.Unlock()

	if p.path != "" {
		if err := writeAtomic(p.path, data); err != nil {
			p.log.Error().Err(err).Str("path", p.path).Msg("save frame")
		}
	}
}

// Frame returns the PNG bytes of the last rendered snapshot.
func (p *PNG) Frame() ([]byte, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame, p.frame != nil
}

// Draw renders s into a new image of Cols×Rows blocks.
func (p *PNG) Draw(s structs.Snapshot) image.Image {
	bs := p.blockSize
	width, height := s.Cols*bs, s.Rows*bs

	dc := gg.NewContext(width, height)
	dc.DrawImage(p.background(s.Cols, s.Rows), 0, 0)

	if s.Food != nil {
		p.drawCell(dc, *s.Food, memimg.SpriteFood, colorFood)
	}
	for i := len(s.Body) - 1; i >= 0; i-- {
		if i == 0 {
			p.drawCell(dc, s.Body[i], memimg.SpriteHead, colorHead)
		} else {
			p.drawCell(dc, s.Body[i], memimg.SpriteBody, colorBody)
		}
	}

	if banner := Banner(s); banner != "" {
		return p.drawGameOver(dc.Image(), banner)
	}
	return dc.Image()
}

func (p *PNG) drawCell(dc *gg.Context, pos structs.Position, sprite string, fallback color.Color) {
	bs := p.blockSize
	if p.sprites != nil {
		if img, found := p.sprites.Get(sprite); found {
			dc.DrawImage(img, pos.X*bs, pos.Y*bs)
			return
		}
	}
	// 没有贴图时用纯色方块
	dc.SetColor(fallback)
	dc.DrawRectangle(float64(pos.X*bs), float64(pos.Y*bs), float64(bs), float64(bs))
	dc.Fill()
}

func (p *PNG) drawGameOver(board image.Image, banner string) image.Image {
	b := board.Bounds()
	blurred := imaging.Blur(board, 2.5)

	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(blurred, 0, 0)
	dc.SetRGBA(0, 0, 0, 0.45)
	dc.DrawRectangle(0, 0, float64(b.Dx()), float64(b.Dy()))
	dc.Fill()
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(banner, float64(b.Dx())/2, float64(b.Dy())/2, 0.5, 0.5)
	return dc.Image()
}

func (p *PNG) background(cols, rows int) image.Image {
	p.bgMu.Lock()
	defer p.bgMu.Unlock()
	if p.bgDone != nil && p.bgKey == [2]int{cols, rows} {
		return p.bgDone
	}

	bs := p.blockSize
	width, height := cols*bs, rows*bs
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	renderGrid(dc, width, height, bs)

	p.bgKey = [2]int{cols, rows}
	p.bgDone = dc.Image()
	return p.bgDone
}

func renderGrid(dc *gg.Context, width, height, blockSize int) {
	dc.SetRGB(0.9, 0.9, 0.9)
	for x := 0; x <= width; x += blockSize {
		dc.DrawLine(float64(x), 0, float64(x), float64(height))
		dc.Stroke()
	}
	for y := 0; y <= height; y += blockSize {
		dc.DrawLine(0, float64(y), float64(width), float64(y))
		dc.Stroke()
	}
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
