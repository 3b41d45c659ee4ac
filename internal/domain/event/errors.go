package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound   = errors.New("イベントが見つかりません")
	ErrMissingField    = errors.New("すべての項目は必須です")
	ErrInvalidCapacity = errors.New("定員は1以上1000以下である必要があります")
	ErrInvalidDateTime = errors.New("開催日時の形式が不正です")
)
