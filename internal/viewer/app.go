// Package viewer ties the window, renderer and scene together into the
// interactive point-cloud viewer.
package viewer

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pcviz/internal/config"
	"github.com/Faultbox/pcviz/internal/engine/camera"
	"github.com/Faultbox/pcviz/internal/engine/debug"
	"github.com/Faultbox/pcviz/internal/engine/input"
	"github.com/Faultbox/pcviz/internal/engine/renderer"
	"github.com/Faultbox/pcviz/internal/engine/scene"
	"github.com/Faultbox/pcviz/internal/engine/window"
	"github.com/Faultbox/pcviz/internal/logger"
	"github.com/Faultbox/pcviz/internal/viewer/clouds"
	"github.com/Faultbox/pcviz/internal/viewer/state"
	"github.com/Faultbox/pcviz/internal/viewer/watch"
	"github.com/Faultbox/pcviz/pkg/math"
)

var boundsColor = [3]float32{1, 0.8, 0.2}

// App is the viewer main loop.
type App struct {
	config *config.Config

	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	scene      *scene.Scene
	clouds     *clouds.Set
	ctx        *state.Context
	controls   state.Controls
	screenshot *debug.ScreenshotCapture
	watcher    *watch.Watcher

	showBounds bool
	running    bool
}

// New opens the window and loads cfg.Files into the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config:     cfg,
		input:      input.New(),
		showBounds: cfg.Render.ShowBounds,
	}

	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}
	a.window = win

	width, height := win.DrawableSize()
	rend, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Render.ClearColor,
		Wireframe:  cfg.Render.Wireframe,
	})
	if err != nil {
		win.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}
	a.renderer = rend

	a.scene = scene.New(rend)
	a.clouds = clouds.New(a.scene, nil)
	if err := a.clouds.Open(cfg.Files, cfg.Mesh); err != nil && a.scene.Len() == 0 {
		a.Close()
		return nil, fmt.Errorf("no point cloud could be loaded: %w", err)
	}

	a.ctx = state.NewContext(newCamera(cfg, a.scene), math.Vec3FromArray(cfg.Light.Position),
		width, height, cfg.Render.Near, cfg.Render.Far)

	a.screenshot = debug.NewScreenshotCapture(cfg.Screenshot.Dir, cfg.Screenshot.Format, cfg.Screenshot.Limit)

	if cfg.Watch.Enabled && len(a.clouds.Paths()) > 0 {
		w, err := watch.New(a.clouds.Paths())
		if err != nil {
			logger.Warn("live reload disabled", zap.Error(err))
		} else {
			a.watcher = w
		}
	}

	win.CaptureMouse(true)
	return a, nil
}

// newCamera builds the fly camera from cfg, framing the scene when asked.
// The resulting pose is what HOME returns to.
func newCamera(cfg *config.Config, sc *scene.Scene) *camera.FlyCamera {
	c := cfg.Camera
	cam := camera.NewFlyCamera(math.Vec3FromArray(c.Position), c.Yaw, c.Pitch)
	cam.MoveSpeed = c.MoveSpeed
	cam.MouseSensitivity = c.MouseSensitivity
	cam.MaxZoom = cfg.Render.FOV
	cam.Zoom = c.Zoom
	if c.AutoFrame {
		if b := sc.Bounds(); b.Valid() {
			cam.FitToBounds(b)
		}
	}
	cam.MarkHome()
	return cam
}

// Run drives the viewer until the window closes or quit is pressed.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop", zap.Int("meshes", a.scene.Len()))

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		a.controls.CloseRequested = a.input.Update()
		a.translateEvents()

		act := a.ctx.Update(&a.controls, float32(dt))
		a.controls.EndFrame()
		if act.Quit {
			a.running = false
			break
		}
		if act.ToggleWireframe {
			a.renderer.SetWireframe(!a.renderer.Wireframe())
		}
		if act.ToggleBounds {
			a.showBounds = !a.showBounds
		}

		a.reloadChanged()
		a.render()

		if act.Screenshot {
			a.takeScreenshot()
		}

		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) translateEvents() {
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			w, h := a.window.DrawableSize()
			a.renderer.Resize(w, h)
			a.ctx.Resize(w, h)
		case input.EventKeyDown:
			if k, ok := keymap[ev.Key]; ok && !ev.Repeat {
				a.controls.KeyDown(k)
			}
		case input.EventKeyUp:
			if k, ok := keymap[ev.Key]; ok {
				a.controls.KeyUp(k)
			}
		case input.EventMouseMove:
			a.controls.MouseMove(float32(ev.RelX), float32(ev.RelY))
		case input.EventMouseWheel:
			a.controls.Wheel(ev.WheelY)
		}
	}
}

func (a *App) reloadChanged() {
	if a.watcher == nil {
		return
	}
	for _, path := range watch.Drain(a.watcher.Changes()) {
		if err := a.clouds.Reload(path); err != nil {
			logger.Warn("reload failed, keeping previous mesh", zap.String("path", path), zap.Error(err))
		}
	}
}

func (a *App) render() {
	a.renderer.Begin()
	// Failures are logged by the scene; the frame still shows what drew.
	_ = a.scene.Draw(a.ctx.Frame())
	if a.showBounds {
		for _, m := range a.scene.Meshes() {
			a.renderer.DrawBounds(m.Bounds(), m.ModelMatrix(), boundsColor)
		}
	}
	a.renderer.End()
}

func (a *App) takeScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshot.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			logger.Warn("closing watcher", zap.Error(err))
		}
		a.watcher = nil
	}
	if a.scene != nil {
		a.scene.Release()
	}
	if a.renderer != nil {
		a.renderer.Close()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Close()
		a.window = nil
	}
}
