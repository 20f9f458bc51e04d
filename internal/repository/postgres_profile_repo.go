package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/boardman/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// PostgresProfileRepo はPostgreSQLを使用したプロフィールリポジトリ。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// Create はプロフィールを作成する。
// メールアドレスの一意制約違反はDUPLICATE_EMAILのAPIErrorに変換する。
func (r *PostgresProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (ukey, email, password, username, created)
		 VALUES ($1, $2, $3, $4, $5)`,
		profile.ID, profile.Email, profile.Password, profile.Username, profile.Created,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return model.NewDuplicateEmailError(profile.Email)
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	return nil
}

// FindByEmailAndPassword はメールアドレスとパスワードハッシュの組でプロフィールを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresProfileRepo) FindByEmailAndPassword(ctx context.Context, email, password string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT ukey, email, username, created FROM profiles WHERE email = $1 AND password = $2`,
		email, password,
	).Scan(&profile.ID, &profile.Email, &profile.Username, &profile.Created)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by credentials: %w", err)
	}

	return profile, nil
}

// FindIDByEmail はメールアドレスからプロフィールIDを検索する。
// 見つからない場合は空文字列を返す。
func (r *PostgresProfileRepo) FindIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT ukey FROM profiles WHERE email = $1`,
		email,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find profile id by email: %w", err)
	}

	return id, nil
}

// ExistsByIDAndPassword はIDとパスワードハッシュの組が登録済みかを返す。
func (r *PostgresProfileRepo) ExistsByIDAndPassword(ctx context.Context, id, password string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE ukey = $1 AND password = $2)`,
		id, password,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check profile credentials: %w", err)
	}

	return exists, nil
}

// DeleteByID は指定IDのプロフィールを物理削除し、影響行数を返す。
func (r *PostgresProfileRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE ukey = $1`,
		id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
