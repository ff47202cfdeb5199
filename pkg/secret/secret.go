// Package secret implements the ENC:-prefixed base64 credential obfuscation
// described in spec design note §9. This is explicitly NOT cryptographic
// security — it only keeps a password from being trivially grep-able in a
// config file on disk.
package secret

import (
	"encoding/base64"
	"strings"
)

const prefix = "ENC:"

// Obfuscate base64-encodes a secret and prefixes it with ENC:.
func Obfuscate(plain string) string {
	return prefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

// Reveal decodes an ENC:-prefixed value. A value without the prefix is
// returned unchanged, so plaintext values in config files during migration
// still work.
func Reveal(value string) (string, error) {
	if !strings.HasPrefix(value, prefix) {
		return value, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}

// IsObfuscated reports whether value carries the ENC: prefix.
func IsObfuscated(value string) bool {
	return strings.HasPrefix(value, prefix)
}
