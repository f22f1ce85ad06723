package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// OptFloat is a float64 that may be absent.
// Absence is explicit: it is never encoded as 0 or NaN.
type OptFloat struct {
	v  float64
	ok bool
}

// Some returns a present value. Non-finite inputs produce an absent value.
func Some(v float64) OptFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptFloat{}
	}
	return OptFloat{v: v, ok: true}
}

// None returns an absent value.
func None() OptFloat { return OptFloat{} }

// Get returns the value and whether it is present.
func (o OptFloat) Get() (float64, bool) { return o.v, o.ok }

// Valid reports whether the value is present.
func (o OptFloat) Valid() bool { return o.ok }

// Float returns the value, or 0 when absent. Only for display code.
func (o OptFloat) Float() float64 { return o.v }

func (o OptFloat) String() string {
	if !o.ok {
		return "n/a"
	}
	return strconv.FormatFloat(o.v, 'f', 2, 64)
}

// Greater reports whether o > other, with both present. Absent never compares true.
func (o OptFloat) Greater(other OptFloat) bool {
	return o.ok && other.ok && o.v > other.v
}

func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.v)
}

func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Value implements driver.Valuer; absent is stored as NULL.
func (o OptFloat) Value() (driver.Value, error) {
	if !o.ok {
		return nil, nil
	}
	return o.v, nil
}

// Scan implements sql.Scanner.
func (o *OptFloat) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*o = None()
	case float64:
		*o = Some(v)
	case int64:
		*o = Some(float64(v))
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("scan OptFloat: %w", err)
		}
		*o = Some(f)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("scan OptFloat: %w", err)
		}
		*o = Some(f)
	default:
		return fmt.Errorf("scan OptFloat: unsupported type %T", src)
	}
	return nil
}
