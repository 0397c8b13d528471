package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// LotRef is an optional reference to a Lot. Some medicals are not
// lot-tracked, and their rows carry no lot at all; LotRef makes that
// distinction explicit instead of passing nullable pointers around.
//
// The zero value is "no lot".
type LotRef struct {
	code  string
	valid bool
}

// SomeLot returns a LotRef pointing at the given lot code.
func SomeLot(code string) LotRef {
	return LotRef{code: code, valid: true}
}

// NoLot returns the empty LotRef for rows that are not lot-tracked.
func NoLot() LotRef {
	return LotRef{}
}

// Tracked reports whether the row references a lot.
func (l LotRef) Tracked() bool {
	return l.valid
}

// Code returns the lot code and whether one is set.
func (l LotRef) Code() (string, bool) {
	return l.code, l.valid
}

// Equal compares two LotRefs. Two untracked refs are equal regardless of code.
func (l LotRef) Equal(other LotRef) bool {
	if !l.valid && !other.valid {
		return true
	}
	return l.valid == other.valid && l.code == other.code
}

func (l LotRef) String() string {
	if !l.valid {
		return "<none>"
	}
	return l.code
}

// Value implements driver.Valuer. An untracked ref is stored as the empty
// string, not NULL: unique indexes treat NULLs as distinct, and the
// medical/lot index must also cover rows without a lot.
func (l LotRef) Value() (driver.Value, error) {
	if !l.valid {
		return "", nil
	}
	return l.code, nil
}

// Scan implements sql.Scanner. The empty string (and NULL, for rows
// predating the sentinel) scans back to an untracked ref.
func (l *LotRef) Scan(src any) error {
	if src == nil {
		*l = LotRef{}
		return nil
	}
	switch v := src.(type) {
	case string:
		*l = fromStored(v)
	case []byte:
		*l = fromStored(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LotRef", src)
	}
	return nil
}

func fromStored(code string) LotRef {
	if code == "" {
		return LotRef{}
	}
	return LotRef{code: code, valid: true}
}

// MarshalJSON encodes an untracked ref as null.
func (l LotRef) MarshalJSON() ([]byte, error) {
	if !l.valid {
		return []byte("null"), nil
	}
	return json.Marshal(l.code)
}

// UnmarshalJSON decodes null or a string lot code.
func (l *LotRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = LotRef{}
		return nil
	}
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	*l = LotRef{code: code, valid: true}
	return nil
}
