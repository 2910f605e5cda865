//go:build !windows

package config

func SetDPIAware() {}

func GetCurrentDisplayScale() float64 {
	return 1.0
}
