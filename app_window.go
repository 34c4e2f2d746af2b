package main

import (
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ToggleFullscreen switches the window between fullscreen and windowed
func (a *App) ToggleFullscreen() {
	a.windowMu.Lock()
	defer a.windowMu.Unlock()
	a.setFullscreen(!a.fullscreen)
}

// ExitFullscreen returns the window to windowed mode
func (a *App) ExitFullscreen() {
	a.windowMu.Lock()
	defer a.windowMu.Unlock()
	a.setFullscreen(false)
}

// setFullscreen applies the window state; callers hold windowMu
func (a *App) setFullscreen(on bool) {
	if a.fullscreen == on {
		return
	}
	a.fullscreen = on
	if on {
		a.log.Debug().Msg("Entering fullscreen")
		if a.ctx != nil {
			runtime.WindowFullscreen(a.ctx)
		}
		return
	}
	a.log.Debug().Msg("Leaving fullscreen")
	if a.ctx != nil {
		runtime.WindowUnfullscreen(a.ctx)
	}
}

// IsFullscreen reports whether the window is fullscreen
func (a *App) IsFullscreen() bool {
	a.windowMu.Lock()
	defer a.windowMu.Unlock()
	return a.fullscreen
}
