package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/hitoshi/cinelog/internal/model"
)

// SQLMovieRepo はdatabase/sqlを使用した映画リポジトリ。
type SQLMovieRepo struct {
	db *sql.DB
}

// NewSQLMovieRepo はSQLMovieRepoを生成する。
func NewSQLMovieRepo(db *sql.DB) *SQLMovieRepo {
	return &SQLMovieRepo{db: db}
}

const movieColumns = `id, title, rating, genre, user_id, created_at`

// ListByOwner は所有者の映画一覧を登録順で返す。
// 登録順はseq（挿入時に採番される単調増加の値）で決まり、created_atが同じでも入れ替わらない。
func (r *SQLMovieRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Movie, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE user_id = $1 ORDER BY seq`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := []*model.Movie{}
	for rows.Next() {
		m := &model.Movie{}
		if err := rows.Scan(&m.ID, &m.Title, &m.Rating, &m.Genre, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}

	return movies, nil
}

// FindByIDAndOwner はIDと所有者の両方が一致する映画を取得する。見つからない場合はnilを返す。
func (r *SQLMovieRepo) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Movie, error) {
	if !isValidID(id) {
		return nil, nil
	}

	m := &model.Movie{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	).Scan(&m.ID, &m.Title, &m.Rating, &m.Genre, &m.UserID, &m.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return m, nil
}

// Create は映画を作成する。
func (r *SQLMovieRepo) Create(ctx context.Context, movie *model.Movie) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (id, title, rating, genre, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		movie.ID, movie.Title, movie.Rating, movie.Genre, movie.UserID, movie.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

// Update は指定されたフィールドのみを更新する。
// カラム名はmodel.UpdatableMovieFieldsの固定値のみを使用し、値はすべてバインドパラメータで渡す。
func (r *SQLMovieRepo) Update(ctx context.Context, id string, fields model.MovieFields) (int64, error) {
	query, args := buildMovieUpdate(id, fields)
	if query == "" || !isValidID(id) {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update movie: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// Delete は指定IDの映画を削除する。
func (r *SQLMovieRepo) Delete(ctx context.Context, id string) (int64, error) {
	if !isValidID(id) {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete movie: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return affected, nil
}

// buildMovieUpdate は部分更新のUPDATE文と引数を組み立てる。
// 更新対象が無い場合は空文字を返す。
func buildMovieUpdate(id string, fields model.MovieFields) (string, []any) {
	var sets []string
	var args []any
	for _, field := range model.UpdatableMovieFields() {
		value, ok := fields.Get(field)
		if !ok {
			continue
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", field, len(args)))
	}
	if len(sets) == 0 {
		return "", nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE movies SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args
}

// compile-time interface check
var _ MovieRepository = (*SQLMovieRepo)(nil)
