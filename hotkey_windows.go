package main

import (
	"os"
	"syscall"
	"unsafe"
)

var (
	user32                       = syscall.NewLazyDLL("user32.dll")
	procSetWindowsHookEx         = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx           = user32.NewProc("CallNextHookEx")
	procGetMessage               = user32.NewProc("GetMessageW")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	WH_KEYBOARD_LL = 13
	WM_KEYDOWN     = 0x0100
	VK_ESCAPE      = 0x1B
	VK_F11         = 0x7A
)

// KBDLLHOOKSTRUCT contains information about a low-level keyboard input event
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type MSG struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

var appInstance *App
var keyboardHook uintptr

// isForeground reports whether the focused window belongs to this process
func isForeground() bool {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return false
	}
	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	return int(pid) == os.Getpid()
}

// keyboardProc is the low-level keyboard hook callback
func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 && wParam == WM_KEYDOWN && appInstance != nil && isForeground() {
		kbStruct := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		switch kbStruct.VkCode {
		case VK_F11:
			go appInstance.ToggleFullscreen()
		case VK_ESCAPE:
			go appInstance.ExitFullscreen()
		}
	}
	ret, _, _ := procCallNextHookEx.Call(keyboardHook, uintptr(nCode), wParam, lParam)
	return ret
}

// RegisterFullscreenHotkey binds F11 and Escape using a low-level keyboard hook
func (a *App) RegisterFullscreenHotkey() {
	appInstance = a

	go func() {
		callback := syscall.NewCallback(keyboardProc)

		// Install the low-level keyboard hook
		ret, _, err := procSetWindowsHookEx.Call(
			WH_KEYBOARD_LL,
			callback,
			0,
			0,
		)
		if ret == 0 {
			a.log.Warn().Err(err).Msg("Failed to install keyboard hook")
			return
		}
		keyboardHook = ret
		a.log.Debug().Msg("Installed low-level keyboard hook for F11/Escape")

		// Message loop to keep the hook alive
		var msg MSG
		for {
			ret, _, _ := procGetMessage.Call(
				uintptr(unsafe.Pointer(&msg)),
				0, 0, 0,
			)
			if ret == 0 {
				break
			}
		}
	}()
}
