package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-registration/internal/domain/registration"
	"github.com/sanosuguru/go-event-registration/internal/domain/transaction"
)

type registeredUserRow struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email"`
}

// RegistrationRepository は参加登録リポジトリのPostgreSQL実装
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository はRegistrationRepositoryを作成する
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

func (r *RegistrationRepository) Exists(ctx context.Context, tx transaction.Tx, userID, eventID string) (bool, error) {
	stx, err := UnwrapTx(tx)
	if err != nil {
		return false, err
	}
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`
	if err := stx.GetContext(ctx, &exists, query, userID, eventID); err != nil {
		return false, fmt.Errorf("登録済み確認に失敗: %w", err)
	}
	return exists, nil
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	return r.countByEvent(ctx, r.db, eventID)
}

func (r *RegistrationRepository) CountByEventTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error) {
	stx, err := UnwrapTx(tx)
	if err != nil {
		return 0, err
	}
	return r.countByEvent(ctx, stx, eventID)
}

func (r *RegistrationRepository) countByEvent(ctx context.Context, q sqlx.QueryerContext, eventID string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID); err != nil {
		return 0, fmt.Errorf("登録数取得に失敗: %w", err)
	}
	return count, nil
}

func (r *RegistrationRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM registrations`); err != nil {
		return 0, fmt.Errorf("登録総数取得に失敗: %w", err)
	}
	return count, nil
}

// Create は参加登録を作成する
// 主キー(user_id, event_id)の一意制約違反は ErrAlreadyRegistered に変換する
func (r *RegistrationRepository) Create(ctx context.Context, tx transaction.Tx, reg *registration.Registration) error {
	stx, err := UnwrapTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO registrations (user_id, event_id, created_at) VALUES ($1, $2, $3)`
	if _, err := stx.ExecContext(ctx, query, reg.UserID, reg.EventID, reg.CreatedAt); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return registration.ErrAlreadyRegistered
		}
		return fmt.Errorf("参加登録に失敗: %w", err)
	}
	return nil
}

func (r *RegistrationRepository) Delete(ctx context.Context, userID, eventID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	if err != nil {
		if isPgError(err, pgInvalidTextRepresentation) {
			return false, nil
		}
		return false, fmt.Errorf("登録キャンセルに失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除結果の確認に失敗: %w", err)
	}
	return rows > 0, nil
}

func (r *RegistrationRepository) ListUsersByEvent(ctx context.Context, eventID string) ([]*registration.RegisteredUser, error) {
	query := `
		SELECT u.id, u.name, u.email
		FROM users u
		JOIN registrations r ON u.id = r.user_id
		WHERE r.event_id = $1
	`
	var rows []registeredUserRow
	if err := r.db.SelectContext(ctx, &rows, query, eventID); err != nil {
		return nil, fmt.Errorf("登録ユーザー一覧取得に失敗: %w", err)
	}
	users := make([]*registration.RegisteredUser, len(rows))
	for i, row := range rows {
		users[i] = &registration.RegisteredUser{ID: row.ID, Name: row.Name, Email: row.Email}
	}
	return users, nil
}

var _ registration.Repository = (*RegistrationRepository)(nil)
