// Package models содержит доменные структуры трекера сроков годности:
// запись о партии препарата, пользователя и сессию.
package models

import "time"

// DateLayout канонический текстовый формат даты истечения срока годности.
const DateLayout = "2006-01-02"

// Record партия препарата, принадлежащая одному пользователю.
// После создания запись не изменяется.
type Record struct {
	ID          string    // Непрозрачный идентификатор записи
	ProductName string    // Название препарата, например "Paracetamol 500mg"
	Quantity    int       // Количество, не меньше 1
	ExpiryDate  time.Time // Календарная дата истечения срока (полночь UTC)
	Owner       string    // Идентификатор владельца
	CreatedAt   time.Time
}

// ExpiryDateString возвращает дату истечения в формате YYYY-MM-DD.
func (r Record) ExpiryDateString() string {
	return r.ExpiryDate.Format(DateLayout)
}
