// Package profile はプロフィール管理のドメインロジックを提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/boardman/internal/model"
	"github.com/hitoshi/boardman/internal/repository"
)

// Service はプロフィール管理のサービス層。
// 登録・ログイン・退会のビジネスロジックを提供する。
// パスワードは呼び出し元で事前ハッシュ済みの不透明な値として扱い、ここでは照合のみ行う。
type Service struct {
	profileRepo repository.ProfileRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profileRepo repository.ProfileRepository) *Service {
	return &Service{
		profileRepo: profileRepo,
	}
}

// Create はプロフィールを登録し、採番されたIDを設定して返す。
// メールアドレスの形式不正・パスワード欠落はINVALID_INPUT、
// メールアドレス重複はDUPLICATE_EMAILのAPIErrorになる。
func (s *Service) Create(ctx context.Context, profile *model.Profile) error {
	if profile == nil || profile.Email == "" || profile.Password == "" {
		return model.NewInvalidInputError("メールアドレスとパスワードは必須です")
	}
	if _, err := mail.ParseAddress(profile.Email); err != nil {
		return model.NewInvalidInputError("メールアドレスの形式が不正です")
	}

	profile.ID = uuid.New().String()
	profile.Created = time.Now().UTC().Format(time.RFC3339)

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return err
	}

	slog.Info("プロフィールを登録しました",
		slog.String("profile_id", profile.ID),
	)

	return nil
}

// Login はメールアドレスとパスワードハッシュの組でプロフィールを検索する。
// 一致しない場合はUNAUTHENTICATEDエラーを返す。
// 返り値のPasswordフィールドは常に空。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	if email == "" || password == "" {
		return nil, model.NewUnauthenticatedError()
	}

	profile, err := s.profileRepo.FindByEmailAndPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの検索に失敗しました: %w", err)
	}
	if profile == nil {
		return nil, model.NewUnauthenticatedError()
	}

	return profile, nil
}

// Remove はプロフィールを物理削除する。IDとパスワードハッシュの組が一致する場合のみ削除する。
// ボードやコメントの行はそのまま残る。
func (s *Service) Remove(ctx context.Context, id, password string) error {
	ok, err := s.profileRepo.ExistsByIDAndPassword(ctx, id, password)
	if err != nil {
		return fmt.Errorf("資格情報の検証に失敗しました: %w", err)
	}
	if !ok {
		return model.NewUnauthenticatedError()
	}

	affected, err := s.profileRepo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("プロフィールの削除に失敗しました: %w", err)
	}
	if affected == 0 {
		return model.NewUnauthenticatedError()
	}

	slog.Info("プロフィールを削除しました",
		slog.String("profile_id", id),
	)

	return nil
}
