package event

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// SortField は一覧の並び替えキー
type SortField string

const (
	SortByDate      SortField = "date"
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "createdAt"
)

// SortOrder は並び順
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// 一覧取得のデフォルト値と上限
const (
	DefaultPage  = 1
	DefaultLimit = 9
	MaxLimit     = 50
)

// Query は一覧取得の条件を表す
// ポインタのフィールドは nil の場合は絞り込みに使わない
type Query struct {
	Page     int
	Limit    int
	Sort     SortField
	Order    SortOrder
	IsActive *bool
	Location string
	DateFrom *time.Time
	DateTo   *time.Time
}

// Normalize は未指定・範囲外の値をデフォルトに置き換えた Query を返す
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.Sort {
	case SortByDate, SortByName, SortByCreatedAt:
	default:
		q.Sort = SortByDate
	}
	switch q.Order {
	case OrderAsc, OrderDesc:
	default:
		q.Order = OrderAsc
	}
	return q
}

// Page は一覧取得の結果
type Page struct {
	Data []*Event
	Meta PageMeta
}

// PageMeta はページングのメタ情報
type PageMeta struct {
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// Process は events を絞り込み、並び替え、ページングした結果を返す
// events の順序は挿入順であることを前提とし、同じキーの要素はその順序を保つ
func Process(events []*Event, q Query) *Page {
	q = q.Normalize()

	filtered := make([]*Event, 0, len(events))
	for _, e := range events {
		if q.matches(e) {
			filtered = append(filtered, e)
		}
	}

	compare := comparator(q.Sort)
	if q.Order == OrderDesc {
		asc := compare
		compare = func(a, b *Event) int { return asc(b, a) }
	}
	slices.SortStableFunc(filtered, compare)

	total := len(filtered)
	start := (q.Page - 1) * q.Limit
	end := start + q.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &Page{
		Data: filtered[start:end],
		Meta: PageMeta{
			Total:      total,
			Page:       q.Page,
			Limit:      q.Limit,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}
}

func (q Query) matches(e *Event) bool {
	if q.IsActive != nil && e.IsActive != *q.IsActive {
		return false
	}
	if q.Location != "" &&
		!strings.Contains(strings.ToLower(e.Location), strings.ToLower(q.Location)) {
		return false
	}
	if q.DateFrom != nil && e.Date.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && e.Date.After(*q.DateTo) {
		return false
	}
	return true
}

func comparator(field SortField) func(a, b *Event) int {
	switch field {
	case SortByName:
		return func(a, b *Event) int { return cmp.Compare(a.Name, b.Name) }
	case SortByCreatedAt:
		return func(a, b *Event) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b *Event) int { return a.Date.Compare(b.Date) }
	}
}
