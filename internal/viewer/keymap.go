package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/pcviz/internal/viewer/state"
)

// keymap binds physical keys to viewer controls.
var keymap = map[sdl.Scancode]state.Key{
	sdl.SCANCODE_W:      state.KeyForward,
	sdl.SCANCODE_S:      state.KeyBackward,
	sdl.SCANCODE_A:      state.KeyLeft,
	sdl.SCANCODE_D:      state.KeyRight,
	sdl.SCANCODE_HOME:   state.KeyHome,
	sdl.SCANCODE_END:    state.KeyScreenshot,
	sdl.SCANCODE_ESCAPE: state.KeyQuit,
	sdl.SCANCODE_F1:     state.KeyWireframe,
	sdl.SCANCODE_B:      state.KeyBounds,
}
