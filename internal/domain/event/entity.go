package event

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// 定員の許容範囲
const (
	MinCapacity = 1
	MaxCapacity = 1000
)

// Event はイベントエンティティを表す
type Event struct {
	ID        string
	Title     string
	DateTime  time.Time
	Location  string
	Capacity  int
	CreatedAt time.Time
}

// NewEvent は新しいイベントを作成する
func NewEvent(title string, dateTime time.Time, location string, capacity int) *Event {
	return &Event{
		Title:     strings.TrimSpace(title),
		DateTime:  dateTime,
		Location:  strings.TrimSpace(location),
		Capacity:  capacity,
		CreatedAt: time.Now(),
	}
}

// Validate はイベントの検証を行う
// 必須項目の欠落を先に判定し、その後に定員の範囲を判定する
func (e *Event) Validate() error {
	if e.Title == "" || e.Location == "" || e.DateTime.IsZero() {
		return ErrMissingField
	}
	if e.Capacity < MinCapacity || e.Capacity > MaxCapacity {
		return ErrInvalidCapacity
	}
	return nil
}

// IsPast はイベント日時が now より厳密に前かを返す（同時刻は開催前扱い）
func (e *Event) IsPast(now time.Time) bool {
	return e.DateTime.Before(now)
}

// Stats はイベントの定員に対する登録状況
type Stats struct {
	TotalRegistrations int
	RemainingCapacity  int
	PercentFull        float64
}

// Stats は登録数から統計を算出する
// 競合で定員を超えていた場合、残数は負の値のまま返す
func (e *Event) Stats(totalRegistrations int) Stats {
	s := Stats{
		TotalRegistrations: totalRegistrations,
		RemainingCapacity:  e.Capacity - totalRegistrations,
	}
	if e.Capacity > 0 {
		s.PercentFull = float64(totalRegistrations) / float64(e.Capacity) * 100
	}
	return s
}

// PercentFullString は充足率を小数2桁と % 付きで返す（例: "42.00%"）
func (s Stats) PercentFullString() string {
	return fmt.Sprintf("%.2f%%", s.PercentFull)
}

// SortUpcoming は開催日時の昇順、同時刻なら会場名の昇順に並べ替える
func SortUpcoming(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.DateTime.Equal(b.DateTime) {
			return a.DateTime.Before(b.DateTime)
		}
		return a.Location < b.Location
	})
}
