// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/cinelog/internal/auth"
	"github.com/hitoshi/cinelog/internal/model"
)

// トークン拒否理由のメトリクスラベル
const (
	RejectMissing = "missing"
	RejectInvalid = "invalid"
	RejectExpired = "expired"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenVerifier はセッショントークンの検証に必要なインターフェース。
// auth.TokenIssuerが実装する。
type TokenVerifier interface {
	Verify(token string) (*model.Claims, error)
}

// RejectionRecorder はトークン拒否をメトリクスに記録するインターフェース。
type RejectionRecorder interface {
	RecordTokenRejection(reason string)
}

// NewBearerAuthMiddleware はAuthorizationヘッダーのBearerトークンを検証するミドルウェアを返す。
// ヘッダーを空白で区切った2番目の値をトークンとして扱い、それ以外の形式はトークン欠落とみなす。
// 検証に成功した場合は所有者IDとしてユーザーIDをリクエストコンテキストに注入する。
// 欠落・不正・期限切れのいずれも401 Unauthorizedを返す。
// recorderがnilの場合は記録しない。
func NewBearerAuthMiddleware(verifier TokenVerifier, recorder RejectionRecorder) func(next http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, r *http.Request, reason string) {
		if recorder != nil {
			recorder.RecordTokenRejection(reason)
		}
		slog.Warn("request rejected",
			slog.String("reason", reason),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Authorizationヘッダーからトークンを取得
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(w, r, RejectMissing)
				return
			}

			// 2. 署名と有効期限を検証
			claims, err := verifier.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					reject(w, r, RejectExpired)
					return
				}
				reject(w, r, RejectInvalid)
				return
			}

			// 3. 認証済みユーザーをコンテキストに注入
			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), claims.UserID)))
		})
	}
}

// bearerToken はAuthorizationヘッダーの2番目のフィールドを返す。
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return "", false
	}
	return fields[1], true
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
// ロギングミドルウェアの内側で呼ばれた場合はアクセスログにも反映される。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if info, ok := ctx.Value(requestInfoContextKey).(*requestInfo); ok {
		info.userID = userID
	}
	return context.WithValue(ctx, userIDContextKey, userID)
}
