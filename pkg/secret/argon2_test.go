package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRoundTrip(t *testing.T) {
	encoded, err := Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=1,p=4$"))
	assert.True(t, IsHash(encoded))

	assert.True(t, Matches("s3cret", encoded))
	assert.False(t, Matches("wrong", encoded))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("s3cret")
	require.NoError(t, err)
	b, err := Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestMatchesPlaintext(t *testing.T) {
	assert.True(t, Matches("token", "token"))
	assert.True(t, Matches("token", "  token "))
	assert.False(t, Matches("token", "other"))
	assert.False(t, Matches("", ""))
	assert.False(t, Matches("token", ""))
}

func TestMatchesMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"$argon2id$v=19$m=65536,t=1,p=4$onlysalt",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$aGFzaA",
	} {
		_, err := decode(encoded)
		assert.ErrorIs(t, err, ErrMalformedHash, encoded)
		assert.False(t, Matches("anything", encoded), encoded)
	}
}
