package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-registration/internal/domain/event"
	"github.com/sanosuguru/go-event-registration/internal/domain/transaction"
)

const eventColumns = `id, title, date_time, location, capacity, created_at`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	DateTime  time.Time `db:"date_time"`
	Location  string    `db:"location"`
	Capacity  int       `db:"capacity"`
	CreatedAt time.Time `db:"created_at"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:        r.ID,
		Title:     r.Title,
		DateTime:  r.DateTime,
		Location:  r.Location,
		Capacity:  r.Capacity,
		CreatedAt: r.CreatedAt,
	}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, date_time, location, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.DateTime, e.Location, e.Capacity, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id string) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, r.mapGetError(err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate はイベント行を排他ロックして取得する
// 同一イベントへの登録処理はコミットまで直列化される
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id string) (*event.Event, error) {
	stx, err := UnwrapTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var row eventRow
	if err := stx.GetContext(ctx, &row, query, id); err != nil {
		return nil, r.mapGetError(err)
	}
	return row.toEntity(), nil
}

// ListUpcoming は now より後のイベントを開催日時・会場名の順で取得する
// 会場名はロケールに依存しないバイト順で比較する
func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time) ([]*event.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE date_time > $1
		ORDER BY date_time ASC, location COLLATE "C" ASC
	`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, now); err != nil {
		return nil, fmt.Errorf("開催予定イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

// UUIDとして解釈できないIDは存在しないイベントとして扱う
func (r *EventRepository) mapGetError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || isPgError(err, pgInvalidTextRepresentation) {
		return event.ErrEventNotFound
	}
	return fmt.Errorf("イベント取得に失敗しました: %w", err)
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
