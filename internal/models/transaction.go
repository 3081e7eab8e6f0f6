// Package models содержит доменные структуры: транзакции покупок, записи
// начисленных баллов, критерии фильтрации и параметры табличного вывода.
// Разбор входного JSON устроен «мягко»: кривые поля одной записи не ломают
// весь документ, а превращаются в пустые или невалидные значения.
package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Имена колонок, по которым можно сортировать и фильтровать строки.
const (
	ColumnID            = "id"
	ColumnTransactionID = "transactionId"
	ColumnCustomerID    = "customerId"
	ColumnCustomerName  = "customerName"
	ColumnPurchaseDate  = "purchaseDate"
	ColumnProduct       = "product"
	ColumnPrice         = "price"
	ColumnRewardPoints  = "rewardPoints"
	ColumnYear          = "year"
	ColumnMonth         = "month"
	ColumnMonthName     = "monthName"
)

// ID — идентификатор транзакции или клиента. Во входных данных это может быть
// как число, так и строка, поэтому храним текстовое представление.
type ID string

// UnmarshalJSON принимает строку, число или null. Числа приводятся к
// каноническому виду, чтобы 101 и 101.0 были одним идентификатором.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if d, err := decimal.NewFromString(string(data)); err == nil {
		*id = ID(d.String())
		return nil
	}
	*id = ID(data)
	return nil
}

// MarshalJSON отдаёт числовой идентификатор числом, остальные — строкой.
func (id ID) MarshalJSON() ([]byte, error) {
	if id != "" && json.Valid([]byte(id)) {
		if _, err := decimal.NewFromString(string(id)); err == nil {
			return []byte(id), nil
		}
	}
	return json.Marshal(string(id))
}

func (id ID) number() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(id)))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Compare сравнивает идентификаторы: числовые — как числа и раньше любых
// нечисловых, нечисловые между собой — лексически.
func (id ID) Compare(other ID) int {
	a, okA := id.number()
	b, okB := other.number()
	switch {
	case okA && okB:
		return a.Cmp(b)
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(string(id), string(other))
}

// SortValue возвращает значение для табличной сортировки.
func (id ID) SortValue() any {
	if d, ok := id.number(); ok {
		return d
	}
	return string(id)
}

// Price — цена покупки. Valid=false означает, что во входных данных
// было что-то нечисловое.
type Price struct {
	Amount decimal.Decimal
	Valid  bool
}

// NewPrice создаёт валидную цену из float64.
func NewPrice(v float64) Price {
	return Price{Amount: decimal.NewFromFloat(v), Valid: true}
}

// UnmarshalJSON никогда не возвращает ошибку: нечисловое значение даёт невалидную цену.
func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	p.Amount, p.Valid = d, true
	return nil
}

// MarshalJSON пишет цену числом, невалидную — null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(p.Amount.String()), nil
}

// Transaction — исходная покупка клиента.
type Transaction struct {
	ID           ID     `json:"id"`
	CustomerID   ID     `json:"customerId"`
	CustomerName string `json:"customerName"`
	PurchaseDate string `json:"purchaseDate"` // ISO-дата, как пришла во входных данных
	Product      string `json:"product,omitempty"`
	Price        Price  `json:"price"`
}

// UnmarshalJSON разбирает запись по полям. Ошибка возвращается только если
// запись вообще не является JSON-объектом.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction{}
	if v, ok := raw["id"]; ok {
		_ = t.ID.UnmarshalJSON(v)
	}
	if v, ok := raw["customerId"]; ok {
		_ = t.CustomerID.UnmarshalJSON(v)
	}
	t.CustomerName = text(raw["customerName"])
	t.PurchaseDate = text(raw["purchaseDate"])
	t.Product = text(raw["product"])
	if v, ok := raw["price"]; ok {
		_ = t.Price.UnmarshalJSON(v)
	}
	return nil
}

// PurchasedAt возвращает дату покупки, если она разбирается.
func (t Transaction) PurchasedAt() (time.Time, bool) {
	return ParseDate(t.PurchaseDate)
}

// Field реализует table.Row.
func (t Transaction) Field(column string) any {
	switch column {
	case ColumnID, ColumnTransactionID:
		return t.ID.SortValue()
	case ColumnCustomerID:
		return t.CustomerID.SortValue()
	case ColumnCustomerName:
		return t.CustomerName
	case ColumnPurchaseDate:
		return t.PurchaseDate
	case ColumnProduct:
		return t.Product
	case ColumnPrice:
		if !t.Price.Valid {
			return nil
		}
		return t.Price.Amount
	}
	return nil
}

// ScoredTransaction — транзакция с посчитанными баллами.
type ScoredTransaction struct {
	Transaction
	RewardPoints int64 `json:"rewardPoints"`
}

// Field реализует table.Row.
func (s ScoredTransaction) Field(column string) any {
	if column == ColumnRewardPoints {
		return s.RewardPoints
	}
	return s.Transaction.Field(column)
}

func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDate разбирает дату в одном из поддерживаемых форматов.
// Даты без зоны считаются UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
