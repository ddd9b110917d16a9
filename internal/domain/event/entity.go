package event

import "time"

// 入力値の上限
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxLocationLength    = 255
	MinCapacity          = 1
)

// Event はイベントエンティティを表す
type Event struct {
	ID          string
	Name        string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Version     int // 楽観的ロック用
}

// NewEvent は新しいイベントを作成する
// isActive が nil の場合は有効として扱う
func NewEvent(name, description, location string, date time.Time, capacity int, isActive *bool) *Event {
	active := true
	if isActive != nil {
		active = *isActive
	}
	now := time.Now().UTC()
	return &Event{
		Name:        name,
		Description: description,
		Location:    location,
		Date:        date,
		Capacity:    capacity,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     0,
	}
}

// Clone はイベントのコピーを返す
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// Patch は部分更新の内容を表す
// nil のフィールドは更新しない
type Patch struct {
	Name        *string
	Description *string
	Location    *string
	Date        *time.Time
	Capacity    *int
	IsActive    *bool
}

// IsEmpty は更新対象のフィールドが一つもないかを返す
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Location == nil &&
		p.Date == nil && p.Capacity == nil && p.IsActive == nil
}

// Apply は指定されたフィールドだけをイベントに反映し、UpdatedAt を更新する
func (e *Event) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
	if p.IsActive != nil {
		e.IsActive = *p.IsActive
	}
	// UpdatedAt は単調増加させる
	if now.Before(e.UpdatedAt) {
		now = e.UpdatedAt
	}
	e.UpdatedAt = now
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if e.Name == "" {
		return ErrEventNameRequired
	}
	if len([]rune(e.Name)) > MaxNameLength {
		return ErrEventNameTooLong
	}
	if e.Description == "" {
		return ErrDescriptionRequired
	}
	if len([]rune(e.Description)) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if e.Location == "" {
		return ErrLocationRequired
	}
	if len([]rune(e.Location)) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if e.Capacity < MinCapacity {
		return ErrInvalidCapacity
	}
	return nil
}
