// Package window presents viewer frames in an SDL2 window.
package window

import (
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/sub-viewer/internal/overlay"
)

func init() {
	// SDL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
}

// Window wraps an SDL2 window and its 2D renderer.
type Window struct {
	config   Config
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texSize  image.Point
	log      *zap.Logger
}

// New creates a resizable window with an accelerated renderer.
func New(cfg Config, log *zap.Logger) (*Window, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w := &Window{config: cfg, log: log}

	log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	var err error
	w.window, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.renderer, err = sdl.CreateRenderer(w.window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		w.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}

	log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)

	return w, nil
}

// Show uploads img and presents it scaled to fit the window.
func (w *Window) Show(img image.Image) error {
	rgba := overlay.Copy(img)
	size := rgba.Bounds().Size()
	if size.X == 0 || size.Y == 0 {
		return nil
	}

	if w.texture == nil || w.texSize != size {
		if w.texture != nil {
			w.texture.Destroy()
		}
		tex, err := w.renderer.CreateTexture(
			uint32(sdl.PIXELFORMAT_ABGR8888),
			sdl.TEXTUREACCESS_STATIC,
			int32(size.X), int32(size.Y),
		)
		if err != nil {
			w.texture = nil
			return fmt.Errorf("creating texture: %w", err)
		}
		w.texture = tex
		w.texSize = size
	}

	if err := w.texture.Update(nil, unsafe.Pointer(&rgba.Pix[0]), rgba.Stride); err != nil {
		return fmt.Errorf("uploading frame: %w", err)
	}

	return w.Present()
}

// Present redraws the last uploaded frame, letterboxed.
func (w *Window) Present() error {
	w.renderer.SetDrawColor(32, 32, 32, 255)
	w.renderer.Clear()

	if w.texture != nil {
		ww, wh, err := w.renderer.GetOutputSize()
		if err != nil {
			return fmt.Errorf("querying output size: %w", err)
		}
		dst := fit(w.texSize, image.Pt(int(ww), int(wh)))
		if err := w.renderer.Copy(w.texture, nil, &sdl.Rect{
			X: int32(dst.Min.X), Y: int32(dst.Min.Y),
			W: int32(dst.Dx()), H: int32(dst.Dy()),
		}); err != nil {
			return fmt.Errorf("drawing frame: %w", err)
		}
	}

	w.renderer.Present()
	return nil
}

// fit returns the largest rectangle with img's aspect ratio centred in
// area. Images smaller than area are not enlarged.
func fit(img, area image.Point) image.Rectangle {
	if img.X <= 0 || img.Y <= 0 || area.X <= 0 || area.Y <= 0 {
		return image.Rectangle{}
	}
	w, h := img.X, img.Y
	if w > area.X || h > area.Y {
		if w*area.Y > h*area.X {
			h = h * area.X / w
			w = area.X
		} else {
			w = w * area.Y / h
			h = area.Y
		}
	}
	x := (area.X - w) / 2
	y := (area.Y - h) / 2
	return image.Rect(x, y, x+w, y+h)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.window.SetTitle(title)
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}

	sdl.Quit()
}
