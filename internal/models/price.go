package models

import (
	"strconv"

	"github.com/bytedance/sonic"
)

// Price — цена, которая с сервера может прийти числом, строкой "N/A" или null.
// Невалидное значение никогда не роняет декодер: Valid=false и едем дальше.
type Price struct {
	Value float64
	Valid bool
}

func NewPrice(v float64) Price { return Price{Value: v, Valid: true} }

func (p *Price) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		p.Valid = false
		return nil
	}
	if b[0] == '"' || string(b) == "null" {
		// "N/A" и любые прочие строки считаем отсутствием цены
		p.Valid = false
		return nil
	}
	var f float64
	if err := sonic.Unmarshal(b, &f); err != nil {
		p.Valid = false
		return nil
	}
	p.Value = f
	p.Valid = true
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte(`"N/A"`), nil
	}
	return sonic.Marshal(p.Value)
}

// Format — 4 знака после запятой либо "N/A". Не паникует ни на чём.
func (p Price) Format() string {
	if !p.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(p.Value, 'f', 4, 64)
}
