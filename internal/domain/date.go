package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout é o formato canônico (ISO 8601) usado na API e no banco.
const DateLayout = "2006-01-02"

// acceptedLayouts são os formatos aceitos na entrada de datas (ex: birthday).
var acceptedLayouts = []string{
	DateLayout,
	"2006/01/02",
	time.RFC3339,
	time.RFC3339Nano,
}

// Date representa uma data de calendário, sem hora nem fuso.
// Internamente é sempre meia-noite UTC do dia correspondente.
type Date struct {
	time.Time
}

// NewDate trunca t para o dia de calendário em que ele cai (no fuso de t).
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today devolve a data corrente no fuso local do processo.
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate interpreta s em um dos formatos aceitos.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("data inválida: %q", s)
}

// DaysUntil devolve o número de dias inteiros de d até other (negativo se other vier antes).
func (d Date) DaysUntil(other Date) int {
	return int(other.Time.Sub(d.Time).Hours() / 24)
}

// After informa se d é estritamente posterior a other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implementa sql.Scanner. O driver pq entrega colunas DATE como time.Time.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("não é possível converter %T para Date", src)
}

// Value implementa driver.Valuer gravando sempre no formato canônico.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}
