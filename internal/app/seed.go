package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/cinelog/internal/auth"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/movie"
)

// seedPassword はシード用ユーザーのパスワード。
const seedPassword = "123456"

// seedMovies はシードで登録する映画。
var seedMovies = []struct {
	Title, Rating, Genre string
}{
	{"Matrix", "9.0", "Action"},
	{"Inception", "8.9", "Sci-Fi"},
	{"Barbie", "7.5", "Comedy"},
	{"Interstellar", "9.2", "Drama"},
	{"The Batman", "8.4", "Action"},
}

// SeedResult はシードで作成したデータ。
type SeedResult struct {
	UserID   string
	Email    string
	Password string
	Token    string
	Movies   []*model.Movie
}

// seed はサンプルユーザーを登録してログインし、そのユーザーの映画を作成する。
// メールアドレスは実行時刻から生成するため、繰り返し実行できる。
func seed(ctx context.Context, authService *auth.Service, movieService *movie.Service, now time.Time) (*SeedResult, error) {
	email := fmt.Sprintf("mock%d@test.com", now.UnixMilli())

	user, err := authService.Register(ctx, "Mock User", email, seedPassword)
	if err != nil {
		return nil, fmt.Errorf("register seed user: %w", err)
	}

	token, err := authService.Login(ctx, email, seedPassword)
	if err != nil {
		return nil, fmt.Errorf("login seed user: %w", err)
	}

	result := &SeedResult{
		UserID:   user.ID,
		Email:    email,
		Password: seedPassword,
		Token:    token,
	}
	for _, sm := range seedMovies {
		title, rating, genre := sm.Title, sm.Rating, sm.Genre
		m, err := movieService.Create(ctx, user.ID, model.MovieFields{
			Title:  &title,
			Rating: &rating,
			Genre:  &genre,
		})
		if err != nil {
			return nil, fmt.Errorf("create seed movie %q: %w", sm.Title, err)
		}
		result.Movies = append(result.Movies, m)
	}

	return result, nil
}
