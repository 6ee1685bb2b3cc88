package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentdesk/internal/domain"
)

func TestJWTRoundTrip(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "talentdesk", TTL: time.Hour}
	tok, err := j.Issue(Principal{ID: "u1", Role: domain.RoleClient, Email: "x@y.io", Name: "X"})
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	p := PrincipalFromClaims(c)
	assert.Equal(t, Principal{ID: "u1", Role: domain.RoleClient, Email: "x@y.io", Name: "X"}, p)
}

func TestJWTRejectsForeignIssuerAndSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "talentdesk", TTL: time.Hour}
	tok, err := (&JWTer{Secret: []byte("other"), Issuer: "talentdesk", TTL: time.Hour}).Issue(Principal{ID: "u1"})
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.Error(t, err)

	tok, err = (&JWTer{Secret: []byte("s3cret"), Issuer: "elsewhere", TTL: time.Hour}).Issue(Principal{ID: "u1"})
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("s3cret"), Issuer: "talentdesk", TTL: -2 * time.Minute}
	tok, err := j.Issue(Principal{ID: "u1"})
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.Error(t, err)
}
