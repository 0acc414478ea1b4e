package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"forumhub/internal/app"
	"forumhub/internal/models"
)

// Claims is the profile carried by an identity token. The subject is the
// stable user id at the provider and becomes the local user id.
type Claims struct {
	Email           string `json:"email,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	jwt.RegisteredClaims
}

// Upsert maps the claims onto the account fields the provider owns. Empty
// claims become nil so they do not clear what is already stored.
func (c Claims) Upsert() models.UpsertUser {
	return models.UpsertUser{
		ID:              c.Subject,
		Email:           optional(c.Email),
		FirstName:       optional(c.FirstName),
		LastName:        optional(c.LastName),
		ProfileImageURL: optional(c.ProfileImageURL),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

func NewVerifier(cfg app.AuthConfig) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{secret: []byte(cfg.Secret), opts: opts}
}

// VerifyIdentityToken checks signature, expiry, issuer and audience and
// returns the claims. Every failure wraps ErrInvalidToken. Without a secret
// no token is accepted.
func (v *Verifier) VerifyIdentityToken(raw string) (Claims, error) {
	if len(v.secret) == 0 {
		return Claims{}, errors.Wrap(ErrInvalidToken, "no verification secret configured")
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.Subject == "" {
		return Claims{}, errors.Wrap(ErrInvalidToken, "missing subject")
	}
	return claims, nil
}
