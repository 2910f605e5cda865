package config

import "strings"

// encryptedPrefix marks a value protected with the Windows data protection API.
const encryptedPrefix = "dpapi:"

// ResolveSecret returns the plain text of a configured secret, decrypting it when it carries
// the dpapi: prefix.
func ResolveSecret(value string) (string, error) {
	if !strings.HasPrefix(value, encryptedPrefix) {
		return value, nil
	}
	return decrypt(strings.TrimPrefix(value, encryptedPrefix))
}

// ProtectSecret encrypts value for the current user and returns it with the dpapi: prefix.
func ProtectSecret(value string) (string, error) {
	enc, err := encrypt(value)
	if err != nil {
		return "", err
	}
	return encryptedPrefix + enc, nil
}
