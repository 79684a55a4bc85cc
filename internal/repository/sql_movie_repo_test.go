package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/cinelog/internal/model"
)

func strPtr(s string) *string { return &s }

// seedMovie は指定所有者の映画を1件作成する。
func seedMovie(t *testing.T, repo *SQLMovieRepo, ownerID, title string) *model.Movie {
	t.Helper()
	m := &model.Movie{
		ID:        uuid.New().String(),
		Title:     title,
		Rating:    "8.5",
		Genre:     "Sci-Fi",
		UserID:    ownerID,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return m
}

func TestSQLMovieRepo_CreateAndFindByIDAndOwner(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Dune")

	got, err := repo.FindByIDAndOwner(context.Background(), created.ID, owner)
	if err != nil {
		t.Fatalf("FindByIDAndOwner returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected movie, got nil")
	}
	if got.Title != "Dune" || got.Rating != "8.5" || got.Genre != "Sci-Fi" {
		t.Errorf("movie = %+v, want Dune/8.5/Sci-Fi", got)
	}
	if got.UserID != owner {
		t.Errorf("UserID = %q, want %q", got.UserID, owner)
	}
}

func TestSQLMovieRepo_FindByIDAndOwner_OtherOwner_ReturnsNil(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ownerA := uuid.New().String()
	ownerB := uuid.New().String()
	created := seedMovie(t, repo, ownerA, "Dune")

	got, err := repo.FindByIDAndOwner(context.Background(), created.ID, ownerB)
	if err != nil {
		t.Fatalf("FindByIDAndOwner returned error: %v", err)
	}
	if got != nil {
		t.Errorf("movie owned by A must be invisible to B, got %+v", got)
	}
}

func TestSQLMovieRepo_FindByIDAndOwner_MalformedID_ReturnsNil(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))

	got, err := repo.FindByIDAndOwner(context.Background(), "1", uuid.New().String())
	if err != nil {
		t.Fatalf("FindByIDAndOwner returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSQLMovieRepo_ListByOwner_ScopedAndOrdered(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ownerA := uuid.New().String()
	ownerB := uuid.New().String()

	titles := []string{"Matrix", "Inception", "Barbie"}
	for _, title := range titles {
		seedMovie(t, repo, ownerA, title)
	}
	seedMovie(t, repo, ownerB, "Interstellar")

	got, err := repo.ListByOwner(context.Background(), ownerA)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(got) != len(titles) {
		t.Fatalf("len = %d, want %d", len(got), len(titles))
	}
	for i, m := range got {
		if m.Title != titles[i] {
			t.Errorf("got[%d].Title = %q, want %q", i, m.Title, titles[i])
		}
		if m.UserID != ownerA {
			t.Errorf("got[%d].UserID = %q, want %q", i, m.UserID, ownerA)
		}
	}
}

func TestSQLMovieRepo_ListByOwner_SameCreatedAt_KeepsInsertionOrder(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	owner := uuid.New().String()
	createdAt := time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC)

	// idの辞書順と挿入順を逆にして、id順の並びでは通らないようにする
	ids := []string{
		"ffffffff-ffff-4fff-bfff-ffffffffffff",
		"88888888-8888-4888-8888-888888888888",
		"11111111-1111-4111-8111-111111111111",
	}
	for i, id := range ids {
		m := &model.Movie{ID: id, Title: fmt.Sprintf("movie-%d", i), UserID: owner, CreatedAt: createdAt}
		if err := repo.Create(context.Background(), m); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	got, err := repo.ListByOwner(context.Background(), owner)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(got) != len(ids) {
		t.Fatalf("len = %d, want %d", len(got), len(ids))
	}
	for i, m := range got {
		if m.ID != ids[i] {
			t.Errorf("got[%d].ID = %q, want %q", i, m.ID, ids[i])
		}
	}
}

func TestSQLMovieRepo_ListByOwner_Empty_ReturnsEmptySlice(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))

	got, err := repo.ListByOwner(context.Background(), uuid.New().String())
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestSQLMovieRepo_Update_OnlyPresentFields(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Matrix")

	affected, err := repo.Update(ctx, created.ID, model.MovieFields{Title: strPtr("Matrix Reloaded")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	got, _ := repo.FindByIDAndOwner(ctx, created.ID, owner)
	if got.Title != "Matrix Reloaded" {
		t.Errorf("Title = %q, want %q", got.Title, "Matrix Reloaded")
	}
	if got.Rating != "8.5" || got.Genre != "Sci-Fi" {
		t.Errorf("untouched fields changed: %+v", got)
	}
}

func TestSQLMovieRepo_Update_EmptyFields_IsNoop(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Matrix")

	affected, err := repo.Update(ctx, created.ID, model.MovieFields{})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if affected != 0 {
		t.Errorf("affected = %d, want 0", affected)
	}

	got, _ := repo.FindByIDAndOwner(ctx, created.ID, owner)
	if got.Title != created.Title || got.Rating != created.Rating || got.Genre != created.Genre {
		t.Errorf("movie changed by empty update: %+v", got)
	}
}

func TestSQLMovieRepo_Update_EmptyStringClearsField(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Matrix")

	if _, err := repo.Update(ctx, created.ID, model.MovieFields{Genre: strPtr("")}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	got, _ := repo.FindByIDAndOwner(ctx, created.ID, owner)
	if got.Genre != "" {
		t.Errorf("Genre = %q, want empty", got.Genre)
	}
}

func TestSQLMovieRepo_Update_Idempotent(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Matrix")
	fields := model.MovieFields{Title: strPtr("X")}

	if _, err := repo.Update(ctx, created.ID, fields); err != nil {
		t.Fatalf("first Update returned error: %v", err)
	}
	once, _ := repo.FindByIDAndOwner(ctx, created.ID, owner)

	if _, err := repo.Update(ctx, created.ID, fields); err != nil {
		t.Fatalf("second Update returned error: %v", err)
	}
	twice, _ := repo.FindByIDAndOwner(ctx, created.ID, owner)

	if once.Title != twice.Title || once.Rating != twice.Rating || once.Genre != twice.Genre {
		t.Errorf("state after second update = %+v, want %+v", twice, once)
	}
	if twice.Title != "X" {
		t.Errorf("Title = %q, want %q", twice.Title, "X")
	}
}

func TestSQLMovieRepo_Delete(t *testing.T) {
	repo := NewSQLMovieRepo(newTestDB(t))
	ctx := context.Background()
	owner := uuid.New().String()
	created := seedMovie(t, repo, owner, "Unit Test Movie")

	affected, err := repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	got, err := repo.FindByIDAndOwner(ctx, created.ID, owner)
	if err != nil {
		t.Fatalf("FindByIDAndOwner returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after delete, got %+v", got)
	}

	affected, err = repo.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if affected != 0 {
		t.Errorf("second delete affected = %d, want 0", affected)
	}
}

func TestBuildMovieUpdate(t *testing.T) {
	tests := []struct {
		name      string
		fields    model.MovieFields
		wantQuery string
		wantArgs  int
	}{
		{
			name:      "no fields",
			fields:    model.MovieFields{},
			wantQuery: "",
			wantArgs:  0,
		},
		{
			name:      "title only",
			fields:    model.MovieFields{Title: strPtr("X")},
			wantQuery: "UPDATE movies SET title = $1 WHERE id = $2",
			wantArgs:  2,
		},
		{
			name:      "rating and genre",
			fields:    model.MovieFields{Rating: strPtr("7"), Genre: strPtr("Drama")},
			wantQuery: "UPDATE movies SET rating = $1, genre = $2 WHERE id = $3",
			wantArgs:  3,
		},
		{
			name:      "all fields",
			fields:    model.MovieFields{Title: strPtr("A"), Rating: strPtr("B"), Genre: strPtr("C")},
			wantQuery: "UPDATE movies SET title = $1, rating = $2, genre = $3 WHERE id = $4",
			wantArgs:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildMovieUpdate("movie-id", tt.fields)
			if query != tt.wantQuery {
				t.Errorf("query = %q, want %q", query, tt.wantQuery)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if tt.wantArgs > 0 && args[len(args)-1] != "movie-id" {
				t.Errorf("last arg = %v, want movie-id", args[len(args)-1])
			}
		})
	}
}

func TestBuildMovieUpdate_ValuesNeverInterpolated(t *testing.T) {
	evil := "x'; DROP TABLE movies; --"
	query, args := buildMovieUpdate("id", model.MovieFields{Title: &evil})

	if strings.Contains(query, evil) {
		t.Errorf("value leaked into query text: %q", query)
	}
	if args[0] != evil {
		t.Errorf("args[0] = %v, want bound value", args[0])
	}
}
