package registration

import "errors"

// Registration ドメインのエラー定義
var (
	ErrPastEvent         = errors.New("開催済みのイベントには登録できません")
	ErrAlreadyRegistered = errors.New("このユーザーは既に登録済みです")
	ErrEventFull         = errors.New("イベントは満員です")
	ErrNotRegistered     = errors.New("このユーザーは登録されていません")
	ErrUserIDRequired    = errors.New("ユーザーIDは必須です")
	ErrEventIDRequired   = errors.New("イベントIDは必須です")
)
