package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hitoshi/cinelog/internal/model"
)

// DefaultTokenTTL はセッショントークンの既定の有効期間。
const DefaultTokenTTL = time.Hour

var (
	// ErrTokenExpired は有効期限切れのトークンを表す。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid は署名不正・形式不正・必須クレーム欠落のトークンを表す。
	ErrTokenInvalid = errors.New("token invalid")
)

// sessionClaims はトークンに埋め込むクレーム。
// email、userIdに加えてiatとexpを必ず持つ。
type sessionClaims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenConfig はトークン発行の設定。
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration // 0以下の場合はDefaultTokenTTL
}

// TokenIssuer はHS256署名のセッショントークンを発行・検証する。
// サーバー側に状態を持たず、失効は有効期限のみで行う。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(config TokenConfig) *TokenIssuer {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenIssuer{
		secret: config.Secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue はユーザーのトークンを発行する。
// 発行時刻は秒単位に切り捨て、有効期限は発行時刻+TTLとする。
func (i *TokenIssuer) Issue(user *model.User) (string, error) {
	issuedAt := i.now().Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email:  user.Email,
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、埋め込まれたユーザー情報を返す。
// 現在時刻が有効期限と等しい時点で期限切れとみなす。
func (i *TokenIssuer) Verify(tokenString string) (*model.Claims, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	result := &model.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}
