package importer

import (
	"regexp"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindBlank valueKind = iota
	kindString
	kindNumber
)

// Value is a loosely typed spreadsheet cell: a string, a number or blank.
type Value struct {
	kind valueKind
	str  string
	num  float64
}

// String returns a text cell.
func String(s string) Value { return Value{kind: kindString, str: s} }

// Number returns a numeric cell.
func Number(n float64) Value { return Value{kind: kindNumber, num: n} }

// Blank returns an empty cell.
func Blank() Value { return Value{} }

// IsString reports whether the cell holds text.
func (v Value) IsString() bool { return v.kind == kindString }

// IsNumber reports whether the cell holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// IsBlank reports whether the cell is empty.
func (v Value) IsBlank() bool { return v.kind == kindBlank }

// String stringifies the cell; numbers use their shortest decimal form.
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// Field is one named cell of a row.
type Field struct {
	Name  string
	Value Value
}

// Row is an ordered sequence of header-named cells.
type Row []Field

// Get returns the first field called name.
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

var numericText = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?$`)

// parseCell turns raw cell text into a typed value the way spreadsheet readers
// do for untyped sources: numeric text becomes a number.
func parseCell(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Blank()
	}
	trimmed := strings.TrimSpace(raw)
	if numericText.MatchString(trimmed) {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return Number(n)
		}
	}
	return String(raw)
}
