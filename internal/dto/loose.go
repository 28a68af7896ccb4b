package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/oto-servis/internal/timezone"
)

// Os formulários do painel mandam números como string, "" ou null.
// Estes tipos aceitam as três formas.

func unquote(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	}
	return string(b), true
}

// ==========================================
// Decimal
// ==========================================

type LooseDecimal struct {
	Value decimal.Decimal
	Valid bool
}

func (d *LooseDecimal) UnmarshalJSON(b []byte) error {
	*d = LooseDecimal{}

	s, ok := unquote(b)
	if !ok {
		return nil
	}
	// vírgula decimal ("12,5")
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	d.Value = v
	d.Valid = true
	return nil
}

func (d LooseDecimal) MarshalJSON() ([]byte, error) {
	if !d.Valid {
		return []byte("null"), nil
	}
	return d.Value.MarshalJSON()
}

func (d LooseDecimal) Null() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d.Value, Valid: d.Valid}
}

func (d LooseDecimal) OrZero() decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Value
}

// ==========================================
// Int
// ==========================================

type LooseInt struct {
	Value int
	Valid bool
}

func (i *LooseInt) UnmarshalJSON(b []byte) error {
	*i = LooseInt{}

	s, ok := unquote(b)
	if !ok {
		return nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || f < math.MinInt || f >= math.MaxInt {
			return fmt.Errorf("invalid integer %q", s)
		}
		v = int(f)
	}
	i.Value = v
	i.Valid = true
	return nil
}

func (i LooseInt) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(i.Value)), nil
}

// ==========================================
// String (aceita número, ex.: quilometragem)
// ==========================================

type LooseString struct {
	Value string
	Valid bool
}

func (s *LooseString) UnmarshalJSON(b []byte) error {
	*s = LooseString{}

	v, ok := unquote(b)
	if !ok {
		return nil
	}
	s.Value = v
	s.Valid = true
	return nil
}

func (s LooseString) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

func (s LooseString) Ptr() *string {
	if !s.Valid {
		return nil
	}
	v := s.Value
	return &v
}

// ==========================================
// Date
// ==========================================

// LooseDate guarda o texto; o fuso só é conhecido no handler.
type LooseDate struct {
	Raw string
}

func (d *LooseDate) UnmarshalJSON(b []byte) error {
	s, _ := unquote(b)
	d.Raw = s
	return nil
}

func (d LooseDate) MarshalJSON() ([]byte, error) {
	if d.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.Raw)
}

func (d LooseDate) IsZero() bool {
	return d.Raw == ""
}

// Time devolve nil para vazio. Datas sem hora viram meia-noite no fuso da oficina.
func (d LooseDate) Time(loc *time.Location) (*time.Time, error) {
	if d.Raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, d.Raw); err == nil {
		u := t.UTC()
		return &u, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", d.Raw, loc); err == nil {
		u := t.UTC()
		return &u, nil
	}
	t, err := timezone.ParseDate(d.Raw, loc)
	if err != nil {
		return nil, err
	}
	u := t.UTC()
	return &u, nil
}
