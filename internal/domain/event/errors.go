package event

import (
	"errors"
	"fmt"
)

// Event ドメインのエラー定義
var (
	ErrEventNotFound          = errors.New("イベントが見つかりません")
	ErrEventNameRequired      = errors.New("イベント名は必須です")
	ErrEventNameTooLong       = errors.New("イベント名は255文字以内である必要があります")
	ErrDescriptionRequired    = errors.New("説明は必須です")
	ErrDescriptionTooLong     = errors.New("説明は1000文字以内である必要があります")
	ErrLocationRequired       = errors.New("開催場所は必須です")
	ErrLocationTooLong        = errors.New("開催場所は255文字以内である必要があります")
	ErrInvalidCapacity        = errors.New("定員は1以上である必要があります")
	ErrOptimisticLockConflict = errors.New("楽観的ロックの競合が発生しました")
)

// NotFoundError は見つからなかったイベントのIDを保持する
type NotFoundError struct {
	ID string
}

// NewNotFoundError は NotFoundError を作成する
func NewNotFoundError(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id=%s", ErrEventNotFound.Error(), e.ID)
}

// Unwrap により errors.Is(err, ErrEventNotFound) が成立する
func (e *NotFoundError) Unwrap() error {
	return ErrEventNotFound
}
