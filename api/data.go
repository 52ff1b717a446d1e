package main

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type user struct {
	ID           int64    `json:"id"`
	Name         string   `json:"nome"`
	Birthdate    dateOnly `json:"nascimento"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
}

type task struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	IsCompleted bool   `json:"concluido"`
	UserID      int64  `json:"usuarioId"`
}

// dateOnly is a nullable calendar date serialized as "2006-01-02", matching
// the wire format of the nascimento field.
type dateOnly struct {
	time.Time
	valid bool
}

func (d dateOnly) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *dateOnly) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		d.valid = false
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, s)
	if err != nil {
		return fmt.Errorf("invalid date %s: want YYYY-MM-DD", s)
	}
	d.Time = t
	d.valid = true
	return nil
}

func (d dateOnly) Value() (driver.Value, error) {
	if !d.valid {
		return nil, nil
	}
	return d.Time, nil
}

func (d *dateOnly) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = dateOnly{}
		return nil
	case time.Time:
		d.Time = v
		d.valid = true
		return nil
	}
	return fmt.Errorf("cannot scan %T into dateOnly", src)
}
