package models

import "time"

// Filter — критерии отбора транзакций. Пустое поле означает отсутствие ограничения.
type Filter struct {
	CustomerName string // Подстрока имени клиента, без учёта регистра
	FromDate     string // Начало периода включительно
	ToDate       string // Конец периода включительно
}

// IsEmpty сообщает, что ни одно ограничение не задано.
func (f Filter) IsEmpty() bool {
	return f.CustomerName == "" && f.FromDate == "" && f.ToDate == ""
}

// Bounds возвращает разобранные границы периода. Граница, которая не
// разбирается как дата, считается незаданной.
func (f Filter) Bounds() (from, to *time.Time) {
	if t, ok := ParseDate(f.FromDate); ok {
		from = &t
	}
	if t, ok := ParseDate(f.ToDate); ok {
		to = &t
	}
	return from, to
}

// DummyFilter используется для приёма параметров из query-строки
// до валидации и преобразования в Filter, SortSpec и PageSpec.
type DummyFilter struct {
	CustomerName string `json:"customer_name,omitempty" validate:"omitempty,max=200"`
	FromDate     string `json:"from_date,omitempty" validate:"omitempty"`
	ToDate       string `json:"to_date,omitempty" validate:"omitempty"`
	Product      string `json:"product,omitempty" validate:"omitempty,max=200"`
	Month        string `json:"month,omitempty" validate:"omitempty,numeric"`
	Year         string `json:"year,omitempty" validate:"omitempty,numeric"`
	SortColumn   string `json:"sort_column,omitempty" validate:"omitempty,max=64"`
	SortOrder    string `json:"sort_order,omitempty" validate:"omitempty,oneof=asc desc"`
	Page         int    `json:"page" validate:"min=0"`
	RowsPerPage  int    `json:"rows_per_page" validate:"min=1"`
}

// Criteria возвращает критерии фильтрации транзакций.
func (d DummyFilter) Criteria() Filter {
	return Filter{
		CustomerName: d.CustomerName,
		FromDate:     d.FromDate,
		ToDate:       d.ToDate,
	}
}

// Columns возвращает значения колоночных фильтров. Пустые значения не попадают в карту.
func (d DummyFilter) Columns() map[string]string {
	columns := make(map[string]string, 3)
	for key, value := range map[string]string{
		ColumnFilterProduct: d.Product,
		ColumnFilterMonth:   d.Month,
		ColumnFilterYear:    d.Year,
	} {
		if value != "" {
			columns[key] = value
		}
	}
	return columns
}

// Ключи колоночных фильтров в Query.Columns.
const (
	ColumnFilterProduct = "product"
	ColumnFilterMonth   = "month"
	ColumnFilterYear    = "year"
)
