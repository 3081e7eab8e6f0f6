package models

// Направления сортировки.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortSpec — колонка и направление сортировки.
type SortSpec struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// PageSpec — номер страницы (с нуля) и её размер.
type PageSpec struct {
	Page        int `json:"page"`
	RowsPerPage int `json:"rows_per_page"`
}

// Page — готовая к отображению страница строк и общее количество строк
// для элементов пагинации.
type Page[T any] struct {
	Count       int `json:"count"`
	Page        int `json:"page"`
	RowsPerPage int `json:"rows_per_page"`
	Rows        []T `json:"rows"`
}

// Query объединяет всё состояние таблицы, которое presentation-слой передаёт в каждый вызов.
type Query struct {
	Filter  Filter
	Sort    SortSpec
	Page    PageSpec
	Columns map[string]string // значения колоночных фильтров (month, year и т.п.)
}
