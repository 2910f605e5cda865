//go:build !windows

package config

import "errors"

var errNoDPAPI = errors.New("dpapi secrets are only supported on windows")

func decrypt(string) (string, error) { return "", errNoDPAPI }

func encrypt(string) (string, error) { return "", errNoDPAPI }
