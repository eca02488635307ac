package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"foodgram/domain"
	"foodgram/internal/utils/cache"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const revokedKeyPrefix = "jwt:revoked:"

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		RevokeToken(ctx context.Context, token string) error
		IsTokenRevoked(ctx context.Context, token string) bool
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		cache     cache.Cache
	}
)

func NewJWTService(secretKey string, ttl time.Duration, c cache.Cache) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "FOODGRAM",
		ttl:       ttl,
		cache:     c,
	}
}

func (j *jwtService) GenerateTokenUser(userId string, role string) (string, error) {
	now := time.Now()
	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	return claims.UserID, claims.Role, nil
}

// RevokeToken blacklists token until it would have expired anyway.
func (j *jwtService) RevokeToken(ctx context.Context, token string) error {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil || !t_Token.Valid {
		return domain.ErrTokenInvalid
	}
	claims := t_Token.Claims.(*jwtUserClaim)

	ttl := j.ttl
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return j.cache.Set(ctx, revokedKey(token), true, ttl)
}

func (j *jwtService) IsTokenRevoked(ctx context.Context, token string) bool {
	var revoked bool
	ok, err := j.cache.Get(ctx, revokedKey(token), &revoked)
	return err == nil && ok && revoked
}

func revokedKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return revokedKeyPrefix + hex.EncodeToString(sum[:])
}
