package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/cinelog/internal/model"
)

// MovieServiceInterface は映画ハンドラーが必要とするサービスインターフェース。
// すべての操作は所有者IDで絞り込まれる。
type MovieServiceInterface interface {
	List(ctx context.Context, ownerID string) ([]*model.Movie, error)
	Get(ctx context.Context, ownerID, id string) (*model.Movie, error)
	Create(ctx context.Context, ownerID string, fields model.MovieFields) (*model.Movie, error)
	Replace(ctx context.Context, ownerID, id string, fields model.MovieFields) (*model.Movie, error)
	Patch(ctx context.Context, ownerID, id string, fields model.MovieFields) (*model.Movie, error)
	Delete(ctx context.Context, ownerID, id string) (string, error)
}

// MovieHandler は映画CRUDのHTTPハンドラー。
type MovieHandler struct {
	service MovieServiceInterface
}

// NewMovieHandler はMovieHandlerを生成する。
func NewMovieHandler(service MovieServiceInterface) *MovieHandler {
	return &MovieHandler{service: service}
}

// deleteMovieResponse は削除成功時のレスポンス。
type deleteMovieResponse struct {
	ID string `json:"id"`
}

// ListMovies は認証ユーザーの映画一覧を返す。
// GET /movies
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	movies, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, movies)
}

// GetMovie は映画を1件返す。
// GET /movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// CreateMovie は映画を作成する。
// POST /movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fields, err := decodeMovieFields(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	m, err := h.service.Create(r.Context(), userID, fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// ReplaceMovie は映画を更新する。ratingは必須。
// PUT /movies/{id}
func (h *MovieHandler) ReplaceMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fields, err := decodeMovieFields(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	m, err := h.service.Replace(r.Context(), userID, chi.URLParam(r, "id"), fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// PatchMovie は指定されたフィールドのみを更新する。
// PATCH /movies/{id}
func (h *MovieHandler) PatchMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fields, err := decodeMovieFields(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	m, err := h.service.Patch(r.Context(), userID, chi.URLParam(r, "id"), fields)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, m)
}

// DeleteMovie は映画を削除する。
// DELETE /movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteMovieResponse{ID: id})
}

// decodeMovieFields はリクエストボディから許可されたフィールドだけを取り出す。
// 値は文字列または数値を受け付け、nullは未指定として扱う。
// 許可されていないキーは無視する。
func decodeMovieFields(r *http.Request) (model.MovieFields, error) {
	var fields model.MovieFields

	var raw map[string]json.RawMessage
	if err := decodeJSONBody(r, &raw); err != nil {
		return fields, err
	}

	for _, field := range model.UpdatableMovieFields() {
		v, ok := raw[string(field)]
		if !ok {
			continue
		}
		value, present, err := movieFieldValue(v)
		if err != nil {
			return fields, fmt.Errorf("field %s: %w", field, err)
		}
		if present {
			fields.Set(field, value)
		}
	}
	return fields, nil
}

func movieFieldValue(v json.RawMessage) (string, bool, error) {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return "", false, nil
	}

	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, true, nil
	}

	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), true, nil
	}

	return "", false, fmt.Errorf("must be a string or number")
}
