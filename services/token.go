package services

import (
	"fmt"
	"strings"

	"accommodation/constants"
	"accommodation/errors"
	"accommodation/types"

	"github.com/dgrijalva/jwt-go"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// TokenService turns bearer tokens issued by the profile service into an Identity.
// With an empty secret the signature is not checked, the gateway already did that.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) claims(tokenString string) (jwt.MapClaims, error) {
	if len(s.secret) > 0 {
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid token", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "cannot read token claims", nil)
		}
		return claims, nil
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "invalid token", nil)
	}
	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "cannot decode token", err)
	}
	claims := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "cannot parse token", err)
	}
	if err := claims.Valid(); err != nil {
		return nil, errors.NewAppError(errors.ErrCodeInvalidToken, "token expired", err)
	}
	return claims, nil
}

func claimString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := claims[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// IdentityFromToken reads userId (or sub), role, name, email and phone. The role is
// normalized to one of the constants.Role values.
func (s *TokenService) IdentityFromToken(tokenString string) (types.Identity, error) {
	claims, err := s.claims(tokenString)
	if err != nil {
		return types.Identity{}, err
	}

	rawID := claimString(claims, "userId", "id", "sub")
	if rawID == "" {
		return types.Identity{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no user id", nil)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return types.Identity{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token user id is not a UUID", err)
	}
	role := constants.NormalizeRole(claimString(claims, "role"))
	if role == "" {
		return types.Identity{}, errors.NewAppError(errors.ErrCodeInvalidToken, "token has no role", nil)
	}

	return types.Identity{
		UserID: userID,
		Role:   role,
		Name:   claimString(claims, "name", "username"),
		Email:  claimString(claims, "email"),
		Phone:  claimString(claims, "phone"),
	}, nil
}
