package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// パスワードハッシャーの種類
const (
	HasherPlain  = "plain"
	HasherBcrypt = "bcrypt"
)

// PasswordHasher はパスワードの保存形式と照合方法を抽象化する。
type PasswordHasher interface {
	// Hash は保存用の文字列を返す。
	Hash(password string) (string, error)
	// Matches は保存済みの値と入力されたパスワードが一致するかを返す。
	Matches(stored, supplied string) bool
}

// PlainHasher はパスワードを入力のまま保存し、文字列比較で照合する。
// 既存データとの互換のための既定値で、ハッシュ化は行わない。
type PlainHasher struct{}

// Hash は入力をそのまま返す。
func (PlainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Matches は文字列として一致するかを返す。
func (PlainHasher) Matches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

// BcryptHasher はbcryptでハッシュ化して保存する。
// PlainHasherで保存されたユーザーはログインできなくなるため、切り替えは移行を伴う。
type BcryptHasher struct{}

// Hash はbcryptハッシュを返す。
func (BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Matches はbcryptハッシュと一致するかを返す。
func (BcryptHasher) Matches(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}

// NewPasswordHasher は種類名からPasswordHasherを返す。
// 空文字はHasherPlainとして扱う。
func NewPasswordHasher(kind string) (PasswordHasher, error) {
	switch kind {
	case "", HasherPlain:
		return PlainHasher{}, nil
	case HasherBcrypt:
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher: %q", kind)
	}
}
