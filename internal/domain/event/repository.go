package event

import "context"

// Repository はイベントリポジトリのインターフェース
type Repository interface {
	// Create は新しいイベントを保存し、IDを採番する
	Create(ctx context.Context, event *Event) error

	// GetByID はIDからイベントを取得する
	GetByID(ctx context.Context, id string) (*Event, error)

	// List は絞り込み・並び替え・ページングした一覧を取得する
	List(ctx context.Context, query Query) (*Page, error)

	// Update はイベントを更新する（楽観的ロック）
	Update(ctx context.Context, event *Event) error

	// Delete はイベントを削除する
	Delete(ctx context.Context, id string) error

	// Stats は保存中のイベント件数を集計する
	Stats(ctx context.Context) (Stats, error)
}

// Stats は保存中のイベント件数
type Stats struct {
	Total  int
	Active int
}

// Inactive は無効なイベントの件数を返す
func (s Stats) Inactive() int {
	return s.Total - s.Active
}
