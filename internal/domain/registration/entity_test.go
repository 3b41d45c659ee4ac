package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-registration/internal/domain/event"
)

func TestNewRegistration(t *testing.T) {
	r := NewRegistration(" user-1 ", "event-1")

	assert.Equal(t, "user-1", r.UserID)
	assert.Equal(t, "event-1", r.EventID)
	assert.NotZero(t, r.CreatedAt)
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name        string
		reg         *Registration
		expectedErr error
	}{
		{"有効な登録", &Registration{UserID: "user-1", EventID: "event-1"}, nil},
		{"ユーザーIDが空", &Registration{UserID: "", EventID: "event-1"}, ErrUserIDRequired},
		{"イベントIDが空", &Registration{UserID: "user-1", EventID: ""}, ErrEventIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.reg.Validate()
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAdmit(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	upcoming := &event.Event{ID: "event-1", DateTime: now.Add(time.Hour), Capacity: 2}
	atNow := &event.Event{ID: "event-2", DateTime: now, Capacity: 2}
	past := &event.Event{ID: "event-3", DateTime: now.Add(-time.Minute), Capacity: 2}

	tests := []struct {
		name        string
		event       *event.Event
		registered  bool
		count       int
		expectedErr error
	}{
		{"受付可能", upcoming, false, 0, nil},
		{"残り1枠", upcoming, false, 1, nil},
		{"開催時刻ちょうどは受付可能", atNow, false, 0, nil},
		{"開催済み", past, false, 0, ErrPastEvent},
		{"登録済み", upcoming, true, 1, ErrAlreadyRegistered},
		{"満員", upcoming, false, 2, ErrEventFull},
		{"定員超過状態", upcoming, false, 3, ErrEventFull},
		// 判定順序: 開催済みは重複・満員より先に判定される
		{"開催済みかつ登録済みかつ満員", past, true, 2, ErrPastEvent},
		// 判定順序: 重複は満員より先に判定される
		{"登録済みかつ満員", upcoming, true, 2, ErrAlreadyRegistered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Admit(tt.event, now, tt.registered, tt.count)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckCapacity_SingleSlot(t *testing.T) {
	ev := &event.Event{Capacity: 1}

	assert.NoError(t, CheckCapacity(ev, 0))
	assert.ErrorIs(t, CheckCapacity(ev, 1), ErrEventFull)
}
