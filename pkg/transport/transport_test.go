package transport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySSHError(t *testing.T) {
	assert.ErrorIs(t, classifySSHError(errors.New("ssh: handshake failed: ssh: unable to authenticate")), ErrAuthFailed)
	assert.ErrorIs(t, classifySSHError(errors.New("dial tcp 10.0.0.1:22: connect: connection refused")), ErrConnectRefused)

	other := errors.New("something else entirely")
	assert.Equal(t, other, classifySSHError(other))
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("connection refused by host", "connection refused"))
	assert.False(t, containsAny("all good", "connection refused"))
}
