package event

import (
	"context"
	"time"

	"github.com/sanosuguru/go-event-registration/internal/domain/transaction"
)

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを作成し、採番されたIDを設定する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// GetByIDForUpdate はトランザクション内でイベント行をロックして取得する
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Event, error)

	// ListUpcoming は now より後に開催されるイベントを取得する
	ListUpcoming(ctx context.Context, now time.Time) ([]*Event, error)
}
