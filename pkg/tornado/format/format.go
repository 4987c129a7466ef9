// Package format turns numeric values into label strings.
//
// A [Formatter] is built once per update from a number format string, a
// requested precision and a sample value. The format string understands the
// common spreadsheet subset:
//
//	"0"        integer
//	"#,0.00"   thousands grouping, two decimals
//	"0.0%"     percent (value multiplied by 100)
//	"$#,0"     literal prefix; quoted or escaped literals are allowed
//
// Only the positive section (before the first ';') is used; negative values
// get a leading minus sign.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// MaxPrecision caps the number of decimals a formatter emits.
const MaxPrecision = 17

// defaultDecimals applies to non-integer data when neither the precision nor
// the format string fixes the decimals.
const defaultDecimals = 2

// Options configures [New].
type Options struct {
	// Format is a number format string. Empty means plain numbers.
	Format string

	// Precision overrides the decimals of the format string when positive.
	Precision int

	// Value is a sample value (the first value of the first series). An
	// integral sample selects integer formatting unless decimals are fixed
	// by Precision or Format.
	Value float64

	// Tag selects the grouping and decimal separators. Zero means English.
	Tag language.Tag
}

// Formatter formats values for display. The zero value formats plain
// integers.
type Formatter struct {
	decimals int
	grouping bool
	percent  bool
	prefix   string
	suffix   string
	printer  *message.Printer
}

// New builds a Formatter.
func New(opts Options) Formatter {
	p := parse(opts.Format)
	f := Formatter{
		grouping: p.grouping,
		percent:  p.percent,
		prefix:   p.prefix,
		suffix:   p.suffix,
	}
	switch prec := max(0, min(MaxPrecision, opts.Precision)); {
	case prec > 0:
		f.decimals = prec
	case p.hasDecimals:
		f.decimals = p.decimals
	case IsInteger(opts.Value):
		f.decimals = 0
	default:
		f.decimals = defaultDecimals
	}
	if f.grouping {
		tag := opts.Tag
		if tag == language.Und {
			tag = language.English
		}
		f.printer = message.NewPrinter(tag)
	}
	return f
}

// Decimals reports the number of fraction digits the formatter emits.
func (f Formatter) Decimals() int { return f.decimals }

// Format renders v.
func (f Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if f.percent {
		v *= 100
	}
	neg := v < 0
	if neg {
		v = -v
	}
	v = round(v, f.decimals)

	var digits string
	if f.grouping && f.printer != nil {
		digits = f.printer.Sprint(number.Decimal(v, number.Scale(f.decimals)))
	} else {
		digits = strconv.FormatFloat(v, 'f', f.decimals, 64)
	}
	if neg && v != 0 {
		return "-" + f.prefix + digits + f.suffix
	}
	return f.prefix + digits + f.suffix
}

// IsInteger reports whether v has no fractional part.
func IsInteger(v float64) bool {
	return !math.IsInf(v, 0) && v == math.Trunc(v)
}

func round(v float64, decimals int) float64 {
	if decimals > 15 {
		return v
	}
	p := math.Pow10(decimals)
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

type pattern struct {
	prefix, suffix string
	grouping       bool
	percent        bool
	hasDecimals    bool
	decimals       int
}

func parse(format string) pattern {
	var p pattern
	if i := strings.IndexByte(format, ';'); i >= 0 {
		format = format[:i]
	}
	if format == "" {
		return p
	}

	var lit strings.Builder
	inNumber, doneNumber, inFraction, quoted := false, false, false, false
	flush := func() {
		if doneNumber || inNumber {
			p.suffix += lit.String()
		} else {
			p.prefix += lit.String()
		}
		lit.Reset()
	}
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quoted {
			if r == '"' {
				quoted = false
			} else {
				lit.WriteRune(r)
			}
			continue
		}
		switch {
		case r == '"':
			quoted = true
		case r == '\\' && i+1 < len(runes):
			i++
			lit.WriteRune(runes[i])
		case !doneNumber && (r == '0' || r == '#'):
			if !inNumber {
				flush()
				inNumber = true
			}
			if inFraction {
				p.decimals++
			}
		case !doneNumber && inNumber && r == ',':
			p.grouping = true
		case !doneNumber && r == '.':
			if !inNumber {
				flush()
				inNumber = true
			}
			inFraction = true
			p.hasDecimals = true
		default:
			if inNumber {
				inNumber = false
				doneNumber = true
			}
			if r == '%' {
				p.percent = true
			}
			lit.WriteRune(r)
		}
	}
	if inNumber {
		doneNumber = true
	}
	flush()
	return p
}
