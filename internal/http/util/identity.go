package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired advisor token")
	ErrMissingSecret = errors.New("identity secret is not configured")
)

// AdvisorTokenSigner mints and validates the opaque advisor tokens the HTTP
// layer trades for an advisor id. The core never authenticates; it trusts the
// id this signer extracts. The token embeds expiry and advisor id, signed
// with HMAC-SHA256.
type AdvisorTokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewAdvisorTokenSigner returns a signer that issues compact HMAC tokens.
func NewAdvisorTokenSigner(secret []byte, ttl time.Duration) *AdvisorTokenSigner {
	return &AdvisorTokenSigner{
		secret: secret,
		ttl:    ttl,
	}
}

// Issue mints a token carrying the advisor id.
func (s *AdvisorTokenSigner) Issue(advisorID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrMissingSecret
	}

	payload := make([]byte, 20) // 4 bytes expiry + 8 bytes advisor id + 8 random bytes
	expires := uint32(time.Now().Add(s.ttl).Unix())
	binary.BigEndian.PutUint32(payload[:4], expires)
	binary.BigEndian.PutUint64(payload[4:12], uint64(advisorID))
	if _, err := rand.Read(payload[12:]); err != nil {
		return "", err
	}

	payloadEnc := base64.RawURLEncoding.EncodeToString(payload)
	signature := s.sign(payload)
	sigEnc := base64.RawURLEncoding.EncodeToString(signature[:16])
	return fmt.Sprintf("%s.%s", payloadEnc, sigEnc), nil
}

// Validate checks signature integrity and TTL and returns the advisor id the
// token carries.
func (s *AdvisorTokenSigner) Validate(token string) (int64, error) {
	if len(s.secret) == 0 {
		return 0, ErrMissingSecret
	}

	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil || len(payload) != 20 {
		return 0, ErrInvalidToken
	}

	sigProvided, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(sigProvided) != 16 {
		return 0, ErrInvalidToken
	}

	expected := s.sign(payload)
	if !hmac.Equal(sigProvided, expected[:16]) {
		return 0, ErrInvalidToken
	}

	expires := binary.BigEndian.Uint32(payload[:4])
	if time.Now().Unix() > int64(expires) {
		return 0, ErrInvalidToken
	}

	return int64(binary.BigEndian.Uint64(payload[4:12])), nil
}

func (s *AdvisorTokenSigner) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return mac.Sum(nil)
}
