package secret_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/secret"
)

func TestObfuscateReveal(t *testing.T) {
	obf := secret.Obfuscate("hunter2")
	assert.True(t, secret.IsObfuscated(obf))

	plain, err := secret.Reveal(obf)
	assert.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestRevealPassesThroughPlaintext(t *testing.T) {
	plain, err := secret.Reveal("not-obfuscated")
	assert.NoError(t, err)
	assert.Equal(t, "not-obfuscated", plain)
}
