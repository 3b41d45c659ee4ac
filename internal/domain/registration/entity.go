package registration

import (
	"strings"
	"time"

	"github.com/sanosuguru/go-event-registration/internal/domain/event"
)

// Registration はユーザーとイベントの参加登録を表す
// (UserID, EventID) の組はイベントごとに一意
type Registration struct {
	UserID    string
	EventID   string
	CreatedAt time.Time
}

// RegisteredUser はイベント詳細に含める登録ユーザーの情報
type RegisteredUser struct {
	ID    string
	Name  string
	Email string
}

// NewRegistration は新しい参加登録を作成する
func NewRegistration(userID, eventID string) *Registration {
	return &Registration{
		UserID:    strings.TrimSpace(userID),
		EventID:   eventID,
		CreatedAt: time.Now(),
	}
}

// Validate は参加登録の検証を行う
func (r *Registration) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.EventID == "" {
		return ErrEventIDRequired
	}
	return nil
}

// Admit はイベント存在確認後の受付判定を順に行う
// 開催済み → 重複 → 定員 の順に評価し、最初に失敗した判定のエラーを返す
func Admit(ev *event.Event, now time.Time, alreadyRegistered bool, count int) error {
	if err := CheckNotPast(ev, now); err != nil {
		return err
	}
	if err := CheckNotDuplicate(alreadyRegistered); err != nil {
		return err
	}
	return CheckCapacity(ev, count)
}

// CheckNotPast は開催日時が現在時刻より前なら ErrPastEvent を返す
func CheckNotPast(ev *event.Event, now time.Time) error {
	if ev.IsPast(now) {
		return ErrPastEvent
	}
	return nil
}

// CheckNotDuplicate は登録済みなら ErrAlreadyRegistered を返す
func CheckNotDuplicate(alreadyRegistered bool) error {
	if alreadyRegistered {
		return ErrAlreadyRegistered
	}
	return nil
}

// CheckCapacity は登録数が定員に達していれば ErrEventFull を返す
func CheckCapacity(ev *event.Event, count int) error {
	if count >= ev.Capacity {
		return ErrEventFull
	}
	return nil
}
