package jwt

import (
	"testing"
	"time"

	"github.com/mdrrmo/bantay-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	j := New("test-secret", time.Hour)

	token, err := j.NewToken(domain.User{Id: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	uid, err := j.UserIdFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserId(42), uid)
}

func TestExpiredToken(t *testing.T) {
	j := New("test-secret", -time.Minute)

	token, err := j.NewToken(domain.User{Id: 42})
	require.NoError(t, err)

	_, err = j.UserIdFromToken(token)
	assert.Error(t, err)
}

func TestWrongKey(t *testing.T) {
	token, err := New("key-one", time.Hour).NewToken(domain.User{Id: 42})
	require.NoError(t, err)

	_, err = New("key-two", time.Hour).UserIdFromToken(token)
	assert.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	j := New("test-secret", time.Hour)

	_, err := j.UserIdFromToken("not-a-token")
	assert.Error(t, err)
}
