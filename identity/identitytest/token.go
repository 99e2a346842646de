package identitytest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
)

// SigningKey is an RSA keypair for minting provider-style ID tokens in
// tests, together with the JWKS document that verifies them.
type SigningKey struct {
	Kid string
	Key *rsa.PrivateKey
}

// NewSigningKey generates a fresh 2048-bit RSA signing key.
func NewSigningKey(kid string) (*SigningKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	return &SigningKey{Kid: kid, Key: key}, nil
}

// Sign mints a token with the given claims, signed RS256 under this key.
func (k *SigningKey) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = k.Kid
	return token.SignedString(k.Key)
}

// JWKSJSON renders the JWKS document publishing this key.
func (k *SigningKey) JWKSJSON() ([]byte, error) {
	pub := k.Key.Public().(*rsa.PublicKey)

	jwks := map[string]interface{}{
		"keys": []map[string]string{
			{
				"kid": k.Kid,
				"kty": "RSA",
				"alg": "RS256",
				"use": "sig",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}
	return json.Marshal(jwks)
}
