package registration

import (
	"context"

	"github.com/sanosuguru/go-event-registration/internal/domain/transaction"
)

// Repository は参加登録リポジトリのインターフェース
type Repository interface {
	// Exists は登録済みかをトランザクション内で確認する
	Exists(ctx context.Context, tx transaction.Tx, userID, eventID string) (bool, error)

	// CountByEvent はイベントの登録数を取得する
	CountByEvent(ctx context.Context, eventID string) (int, error)

	// CountByEventTx はイベントの登録数をトランザクション内で取得する
	CountByEventTx(ctx context.Context, tx transaction.Tx, eventID string) (int, error)

	// CountAll は全イベントの登録総数を取得する
	CountAll(ctx context.Context) (int, error)

	// Create は参加登録を作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, registration *Registration) error

	// Delete は参加登録を削除し、削除された行があったかを返す
	Delete(ctx context.Context, userID, eventID string) (bool, error)

	// ListUsersByEvent はイベントに登録済みのユーザー一覧を取得する
	ListUsersByEvent(ctx context.Context, eventID string) ([]*RegisteredUser, error)
}
