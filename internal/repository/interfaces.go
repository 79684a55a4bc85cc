// Package repository はデータ永続化のインターフェースと実装を定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/cinelog/internal/model"
)

// ErrDuplicateEmail はメールアドレスの一意制約違反を表す。
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// emailが既に存在する場合はErrDuplicateEmailをラップしたエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByEmail はメールアドレスの完全一致でユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// MovieRepository は映画データの永続化インターフェース。
// 参照系は常に所有者で絞り込む。更新・削除はID指定のみで、所有者確認は呼び出し側が事前に行う。
type MovieRepository interface {
	// ListByOwner は所有者の映画一覧を登録順で返す。0件の場合は空スライスを返す。
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Movie, error)

	// FindByIDAndOwner はIDと所有者の両方が一致する映画を取得する。
	// 見つからない場合、および他ユーザー所有の場合はnilを返す。
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Movie, error)

	// Create は映画を作成する。値の空チェックは行わない。
	Create(ctx context.Context, movie *model.Movie) error

	// Update は指定されたフィールドのみを更新し、影響行数を返す。
	// 更新対象フィールドが無い場合はSQLを発行せず0を返す。
	Update(ctx context.Context, id string, fields model.MovieFields) (int64, error)

	// Delete は指定IDの映画を削除し、影響行数を返す。
	Delete(ctx context.Context, id string) (int64, error)
}
