//go:build windows

package config

import (
	"fmt"

	"github.com/billgraziano/dpapi"
)

func decrypt(value string) (string, error) {
	plain, err := dpapi.Decrypt(value)
	if err != nil {
		return "", fmt.Errorf("error decrypting secret: %w", err)
	}
	return plain, nil
}

func encrypt(value string) (string, error) {
	enc, err := dpapi.Encrypt(value)
	if err != nil {
		return "", fmt.Errorf("error encrypting secret: %w", err)
	}
	return enc, nil
}
