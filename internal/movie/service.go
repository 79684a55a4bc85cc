// Package movie は映画コレクションのドメインロジックを提供する。
// すべての操作は認証済みの所有者IDで絞り込まれる。
package movie

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
)

// Config は映画サービスの動作設定。
type Config struct {
	// RequireFields がtrueの場合、作成時にtitleとratingを必須とする。
	RequireFields bool
}

// Service は映画のCRUDを所有者単位で提供する。
type Service struct {
	repo          repository.MovieRepository
	requireFields bool
	now           func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.MovieRepository, cfg Config) *Service {
	return &Service{
		repo:          repo,
		requireFields: cfg.RequireFields,
		now:           time.Now,
	}
}

// List は所有者の映画一覧を返す。0件の場合は空スライスを返す。
func (s *Service) List(ctx context.Context, ownerID string) ([]*model.Movie, error) {
	movies, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("映画一覧の取得に失敗しました: %w", err)
	}
	if movies == nil {
		movies = []*model.Movie{}
	}
	return movies, nil
}

// Get は所有者の映画を1件返す。
// 存在しない場合、他ユーザー所有の場合はどちらもMOVIE_NOT_FOUNDを返す。
func (s *Service) Get(ctx context.Context, ownerID, id string) (*model.Movie, error) {
	return s.findOwned(ctx, ownerID, id)
}

// Create は映画を作成し、生成したIDと所有者を含むレコードを返す。
// 未指定のフィールドは空文字になる。
// 作成日時はPostgreSQLの保存精度に合わせてマイクロ秒に切り捨てる。
func (s *Service) Create(ctx context.Context, ownerID string, fields model.MovieFields) (*model.Movie, error) {
	if s.requireFields {
		if v, ok := fields.Get(model.MovieFieldTitle); !ok || v == "" {
			return nil, model.NewValidationError("Title is required")
		}
		if v, ok := fields.Get(model.MovieFieldRating); !ok || v == "" {
			return nil, model.NewValidationError("Rating is required")
		}
	}

	m := fields.ApplyTo(model.Movie{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	})
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("映画の作成に失敗しました: %w", err)
	}
	return &m, nil
}

// Replace は映画を更新する（PUT）。ratingは必須。
// 指定されたフィールドを既存レコードに上書きした結果を返す。
func (s *Service) Replace(ctx context.Context, ownerID, id string, fields model.MovieFields) (*model.Movie, error) {
	if v, ok := fields.Get(model.MovieFieldRating); !ok || v == "" {
		return nil, model.NewValidationError("Rating is required")
	}
	return s.update(ctx, ownerID, id, fields)
}

// Patch は指定されたフィールドのみを更新する（PATCH）。
// フィールド指定が無い場合は何も更新せず、既存レコードを返す。
func (s *Service) Patch(ctx context.Context, ownerID, id string, fields model.MovieFields) (*model.Movie, error) {
	return s.update(ctx, ownerID, id, fields)
}

// Delete は所有者の映画を削除し、削除したIDを返す。
func (s *Service) Delete(ctx context.Context, ownerID, id string) (string, error) {
	if _, err := s.findOwned(ctx, ownerID, id); err != nil {
		return "", err
	}
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return "", fmt.Errorf("映画の削除に失敗しました: %w", err)
	}
	return id, nil
}

// update は所有者確認の後に部分更新し、マージ結果を返す。
// 確認と更新は同一トランザクションではなく、並行更新は後勝ちになる。
func (s *Service) update(ctx context.Context, ownerID, id string, fields model.MovieFields) (*model.Movie, error) {
	existing, err := s.findOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !fields.IsEmpty() {
		if _, err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("映画の更新に失敗しました: %w", err)
		}
	}

	merged := fields.ApplyTo(*existing)
	return &merged, nil
}

func (s *Service) findOwned(ctx context.Context, ownerID, id string) (*model.Movie, error) {
	m, err := s.repo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("映画の取得に失敗しました: %w", err)
	}
	if m == nil {
		return nil, model.NewMovieNotFoundError(id)
	}
	return m, nil
}
