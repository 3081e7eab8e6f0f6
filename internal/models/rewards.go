package models

import "time"

// MonthlyRewardRecord — сумма баллов клиента за календарный месяц.
type MonthlyRewardRecord struct {
	CustomerID   ID     `json:"customerId"`
	CustomerName string `json:"customerName"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`     // 1-12
	MonthName    string `json:"monthName"` // только для отображения, не для сортировки
	RewardPoints int64  `json:"rewardPoints"`
}

// Field реализует table.Row.
func (r MonthlyRewardRecord) Field(column string) any {
	switch column {
	case ColumnCustomerID:
		return r.CustomerID.SortValue()
	case ColumnCustomerName:
		return r.CustomerName
	case ColumnYear:
		return r.Year
	case ColumnMonth:
		return r.Month
	case ColumnMonthName:
		// Сортировка по названию месяца идёт в календарном порядке.
		return r.Month
	case ColumnRewardPoints:
		return r.RewardPoints
	}
	return nil
}

// TotalRewardRecord — сумма баллов клиента за всё время.
// Группировка идёт по CustomerID, имя только отображается.
type TotalRewardRecord struct {
	CustomerID   ID     `json:"customerId"`
	CustomerName string `json:"customerName"`
	RewardPoints int64  `json:"rewardPoints"`
}

// Field реализует table.Row.
func (r TotalRewardRecord) Field(column string) any {
	switch column {
	case ColumnCustomerID:
		return r.CustomerID.SortValue()
	case ColumnCustomerName:
		return r.CustomerName
	case ColumnRewardPoints:
		return r.RewardPoints
	}
	return nil
}

// MonthName возвращает английское название месяца 1-12 или пустую строку.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
