//go:build !windows

package main

// RegisterFullscreenHotkey is a no-op outside Windows; the frontend handles F11 and Escape
func (a *App) RegisterFullscreenHotkey() {}
