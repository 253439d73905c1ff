package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"itshere/errors"
)

var testSecret = []byte("test_secret_key_for_unit_tests_only")

func TestCodec_RoundTrip(t *testing.T) {
	req := require.New(t)
	codec := NewCodec(testSecret, 24*time.Hour)

	for _, username := range []string{"alice", "bob", "user_with_underscores"} {
		token, err := codec.Issue(username)
		req.NoError(err)
		req.NotEmpty(token)

		claims, err := codec.Verify(token)
		req.NoError(err)
		req.Equal(username, claims.Username())
	}
}

func TestCodec_ExpiredToken(t *testing.T) {
	req := require.New(t)

	// A negative duration issues a token that is already expired.
	codec := NewCodec(testSecret, -time.Hour)
	token, err := codec.Issue("alice")
	req.NoError(err)

	_, err = codec.Verify(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestCodec_WrongSecret(t *testing.T) {
	req := require.New(t)

	issuer := NewCodec(testSecret, time.Hour)
	verifier := NewCodec([]byte("a_completely_different_secret"), time.Hour)

	token, err := issuer.Issue("alice")
	req.NoError(err)

	_, err = verifier.Verify(token)
	req.ErrorIs(err, errors.ErrInvalidToken)
}

func TestCodec_MalformedToken(t *testing.T) {
	req := require.New(t)
	codec := NewCodec(testSecret, time.Hour)

	for _, garbage := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := codec.Verify(garbage)
		req.ErrorIs(err, errors.ErrInvalidToken)
	}
}
