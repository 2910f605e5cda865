//go:build windows

package config

import (
	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var procSetProcessDPIAware = windows.NewLazySystemDLL("user32.dll").NewProc("SetProcessDPIAware")

// SetDPIAware makes capture and cursor coordinates physical pixels, the unit regions are
// calibrated in.
func SetDPIAware() {
	_, _, _ = procSetProcessDPIAware.Call()
}

func GetCurrentDisplayScale() float64 {
	hDC := win.GetDC(0)
	defer win.ReleaseDC(0, hDC)
	dpiX := win.GetDeviceCaps(hDC, win.LOGPIXELSX)

	return float64(dpiX) / 96.0
}
