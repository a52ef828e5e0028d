package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fitcircle/fitcircle-client/internal/session/app/token"
	"github.com/fitcircle/fitcircle-client/internal/session/domain"
)

type decoder struct {
	parser *jwt.Parser
}

// NewDecoder returns a decoder that reads the payload segment only. Signatures are never verified.
func NewDecoder() token.Decoder {
	return &decoder{parser: jwt.NewParser()}
}

func (d *decoder) Decode(raw string) (*token.Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenDecode, err)
	}

	result := &token.Claims{}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: exp: %w", domain.ErrTokenDecode, err)
	}
	result.ExpiresAt = timePtr(exp)

	iat, err := claims.GetIssuedAt()
	if err != nil {
		return nil, fmt.Errorf("%w: iat: %w", domain.ErrTokenDecode, err)
	}
	result.IssuedAt = timePtr(iat)

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("%w: sub: %w", domain.ErrTokenDecode, err)
	}
	result.Subject = sub

	return result, nil
}

func timePtr(date *jwt.NumericDate) *time.Time {
	if date == nil {
		return nil
	}

	t := date.Time
	return &t
}
