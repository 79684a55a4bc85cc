// Package auth はユーザー登録・ログインとセッショントークンを扱う。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/hitoshi/cinelog/internal/model"
	"github.com/hitoshi/cinelog/internal/repository"
)

// MinLoginPasswordLength はログイン時に要求するパスワードの最小文字数。
// 登録時には適用しない。
const MinLoginPasswordLength = 4

// ログイン・登録結果のメトリクスラベル
const (
	OutcomeSuccess            = "success"
	OutcomeValidationFailed   = "validation_failed"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeConflict           = "conflict"
	OutcomeError              = "error"
)

// Recorder は認証結果をメトリクスに記録するインターフェース。
type Recorder interface {
	RecordLogin(outcome string)
	RecordRegistration(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordLogin(string)        {}
func (noopRecorder) RecordRegistration(string) {}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   *TokenIssuer
	recorder Recorder
	now      func() time.Time
}

// NewService はServiceを生成する。
// hasherがnilの場合はPlainHasher、recorderがnilの場合は記録しない。
func NewService(userRepo repository.UserRepository, hasher PasswordHasher, tokens *TokenIssuer, recorder Recorder) *Service {
	if hasher == nil {
		hasher = PlainHasher{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		recorder: recorder,
		now:      time.Now,
	}
}

// Register は新規ユーザーを登録する。
// 検証はemail、name、passwordの順に行い、最初に失敗した項目のエラーを返す。
// メールアドレスが登録済みの場合はUSER_ALREADY_EXISTSを返す。
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.UserSummary, error) {
	switch {
	case email == "":
		s.recorder.RecordRegistration(OutcomeValidationFailed)
		return nil, model.NewValidationError("Email is required")
	case name == "":
		s.recorder.RecordRegistration(OutcomeValidationFailed)
		return nil, model.NewValidationError("Name is required")
	case password == "":
		s.recorder.RecordRegistration(OutcomeValidationFailed)
		return nil, model.NewValidationError("Password is required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.recorder.RecordRegistration(OutcomeError)
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		s.recorder.RecordRegistration(OutcomeConflict)
		return nil, model.NewUserAlreadyExistsError()
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		s.recorder.RecordRegistration(OutcomeError)
		return nil, err
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  stored,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// 存在確認と作成の間に同じemailが登録された場合
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.recorder.RecordRegistration(OutcomeConflict)
			return nil, model.NewUserAlreadyExistsError()
		}
		s.recorder.RecordRegistration(OutcomeError)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.recorder.RecordRegistration(OutcomeSuccess)
	slog.Info("user registered", slog.String("user_id", user.ID))

	return &model.UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// Login は認証情報を検証し、セッショントークンを発行する。
// メールアドレス未登録とパスワード不一致は同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if password == "" {
		s.recorder.RecordLogin(OutcomeValidationFailed)
		return "", model.NewValidationError("Password is required")
	}
	if utf8.RuneCountInString(password) < MinLoginPasswordLength {
		s.recorder.RecordLogin(OutcomeValidationFailed)
		return "", model.NewValidationError(
			fmt.Sprintf("Password should contain at least %d characters", MinLoginPasswordLength))
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.recorder.RecordLogin(OutcomeError)
		return "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil || !s.hasher.Matches(user.Password, password) {
		s.recorder.RecordLogin(OutcomeInvalidCredentials)
		return "", model.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.recorder.RecordLogin(OutcomeError)
		return "", err
	}

	s.recorder.RecordLogin(OutcomeSuccess)
	return token, nil
}
