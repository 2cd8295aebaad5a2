// Package grant issues and verifies signed RSVP grants: short-lived EdDSA
// JWTs that let an invitee answer an invite from a shared link, without any
// session construct.
package grant

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"
)

// Grant verification errors.
var (
	ErrGrantInvalid = errors.New("rsvp grant is invalid")
	ErrGrantExpired = errors.New("rsvp grant is expired")
)

// Grant is the validated identity carried by an RSVP grant token.
type Grant struct {
	EventID  string
	PlayerID string
	JWTID    string
}

// grantClaims is the internal claims type used for JWT signing and parsing.
type grantClaims struct {
	jwt.RegisteredClaims
	EventID  string `json:"event_id"`
	PlayerID string `json:"player_id"`
}

// grantEnv holds raw env values before post-parse validation.
type grantEnv struct {
	Issuer     string        `env:"COURTSIDE_RSVP_GRANT_ISSUER"`
	Audience   string        `env:"COURTSIDE_RSVP_GRANT_AUDIENCE"`
	PrivateKey string        `env:"COURTSIDE_RSVP_GRANT_PRIVATE_KEY"`
	PublicKey  string        `env:"COURTSIDE_RSVP_GRANT_PUBLIC_KEY"`
	TTL        time.Duration `env:"COURTSIDE_RSVP_GRANT_TTL" envDefault:"72h"`
}

// Config carries keys and claim expectations for grant operations. The
// private key is only required for minting; verification needs just the
// public half.
type Config struct {
	Issuer     string
	Audience   string
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	TTL        time.Duration
	Now        func() time.Time
	NewID      func() (string, error)
}

// LoadConfigFromEnv reads grant configuration from COURTSIDE_RSVP_GRANT_*
// variables. The boolean reports whether grants are configured at all; a
// deployment without keys simply runs with grants disabled.
func LoadConfigFromEnv(now func() time.Time, newID func() (string, error)) (Config, bool, error) {
	var raw grantEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, false, fmt.Errorf("parse rsvp grant env: %w", err)
	}

	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	private := strings.TrimSpace(raw.PrivateKey)
	public := strings.TrimSpace(raw.PublicKey)
	if issuer == "" && audience == "" && private == "" && public == "" {
		return Config{}, false, nil
	}
	if issuer == "" {
		return Config{}, false, fmt.Errorf("COURTSIDE_RSVP_GRANT_ISSUER is required")
	}
	if audience == "" {
		return Config{}, false, fmt.Errorf("COURTSIDE_RSVP_GRANT_AUDIENCE is required")
	}
	if public == "" {
		return Config{}, false, fmt.Errorf("COURTSIDE_RSVP_GRANT_PUBLIC_KEY is required")
	}

	cfg := Config{
		Issuer:   issuer,
		Audience: audience,
		TTL:      raw.TTL,
		Now:      now,
		NewID:    newID,
	}

	publicBytes, err := decodeBase64(public)
	if err != nil {
		return Config{}, false, fmt.Errorf("decode rsvp grant public key: %w", err)
	}
	if len(publicBytes) != ed25519.PublicKeySize {
		return Config{}, false, fmt.Errorf("rsvp grant public key must be %d bytes", ed25519.PublicKeySize)
	}
	cfg.PublicKey = ed25519.PublicKey(publicBytes)

	if private != "" {
		privateBytes, err := decodeBase64(private)
		if err != nil {
			return Config{}, false, fmt.Errorf("decode rsvp grant private key: %w", err)
		}
		if len(privateBytes) != ed25519.PrivateKeySize {
			return Config{}, false, fmt.Errorf("rsvp grant private key must be %d bytes", ed25519.PrivateKeySize)
		}
		cfg.PrivateKey = ed25519.PrivateKey(privateBytes)
	}

	return cfg, true, nil
}

// Mint signs a grant identifying one pending invite.
func Mint(eventID, playerID string, cfg Config) (string, error) {
	eventID = strings.TrimSpace(eventID)
	playerID = strings.TrimSpace(playerID)
	if eventID == "" {
		return "", errors.New("event id is required")
	}
	if playerID == "" {
		return "", errors.New("player id is required")
	}
	if len(cfg.PrivateKey) != ed25519.PrivateKeySize {
		return "", errors.New("rsvp grant signer is not configured")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return "", errors.New("rsvp grant issuer and audience are required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		return "", errors.New("rsvp grant id generator is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 72 * time.Hour
	}

	jti, err := cfg.NewID()
	if err != nil {
		return "", fmt.Errorf("generate rsvp grant id: %w", err)
	}

	now := cfg.Now().UTC()
	claims := grantClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			ID:        jti,
		},
		EventID:  eventID,
		PlayerID: playerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	signed, err := token.SignedString(cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("sign rsvp grant: %w", err)
	}
	return signed, nil
}

// Validate verifies a grant token's signature and claims and returns the
// invite identity it names.
func Validate(token string, cfg Config) (Grant, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Grant{}, fmt.Errorf("%w: token is required", ErrGrantInvalid)
	}
	if len(cfg.PublicKey) != ed25519.PublicKeySize {
		return Grant{}, errors.New("rsvp grant verifier is not configured")
	}
	if cfg.Issuer == "" || cfg.Audience == "" {
		return Grant{}, errors.New("rsvp grant issuer and audience are required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	var parsed grantClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.PublicKey, nil
	},
		jwt.WithValidMethods([]string{"EdDSA"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Grant{}, fmt.Errorf("%w: %v", ErrGrantInvalid, err)
	}

	if parsed.Issuer != cfg.Issuer {
		return Grant{}, fmt.Errorf("%w: issuer mismatch", ErrGrantInvalid)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return Grant{}, fmt.Errorf("%w: audience mismatch", ErrGrantInvalid)
	}
	if parsed.ID == "" {
		return Grant{}, fmt.Errorf("%w: jti is required", ErrGrantInvalid)
	}
	if parsed.ExpiresAt == nil {
		return Grant{}, fmt.Errorf("%w: exp is required", ErrGrantInvalid)
	}

	now := cfg.Now().UTC()
	if !parsed.ExpiresAt.Time.UTC().After(now) {
		return Grant{}, ErrGrantExpired
	}
	if parsed.NotBefore != nil && now.Before(parsed.NotBefore.Time.UTC()) {
		return Grant{}, fmt.Errorf("%w: not active yet", ErrGrantInvalid)
	}

	if strings.TrimSpace(parsed.EventID) == "" {
		return Grant{}, fmt.Errorf("%w: event_id is required", ErrGrantInvalid)
	}
	if strings.TrimSpace(parsed.PlayerID) == "" {
		return Grant{}, fmt.Errorf("%w: player_id is required", ErrGrantInvalid)
	}

	return Grant{
		EventID:  parsed.EventID,
		PlayerID: parsed.PlayerID,
		JWTID:    parsed.ID,
	}, nil
}

// audienceContains reports whether the audience list contains the value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func decodeBase64(value string) ([]byte, error) {
	if value == "" {
		return nil, errors.New("empty base64 value")
	}
	decoded, err := base64.RawStdEncoding.DecodeString(value)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(value)
}
