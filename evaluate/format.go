package evaluate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
)

// formatSpec is the [[fill]align][sign][#][0][width][,][.precision][type] mini language.
type formatSpec struct {
	fill      rune
	align     rune
	sign      rune
	alt       bool
	width     int
	grouping  bool
	precision int
	verb      rune
}

func parseFormatSpec(spec string) (fs formatSpec, err error) {
	fs = formatSpec{
		fill:      ' ',
		precision: -1,
	}
	r := []rune(spec)
	i := 0
	isAlign := func(c rune) bool {
		return strings.ContainsRune("<>=^", c)
	}
	digits := func() (int, bool) {
		start := i
		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			i++
		}
		if i == start {
			return 0, false
		}
		n, _ := strconv.Atoi(string(r[start:i]))
		return n, true
	}

	if len(r) >= 2 && isAlign(r[1]) {
		fs.fill = r[0]
		fs.align = r[1]
		i = 2
	} else if len(r) >= 1 && isAlign(r[0]) {
		fs.align = r[0]
		i = 1
	}
	if i < len(r) && strings.ContainsRune("+- ", r[i]) {
		fs.sign = r[i]
		i++
	}
	if i < len(r) && r[i] == '#' {
		fs.alt = true
		i++
	}
	if i < len(r) && r[i] == '0' {
		if fs.align == 0 {
			fs.fill = '0'
			fs.align = '='
		}
		i++
	}
	fs.width, _ = digits()
	if i < len(r) && r[i] == ',' {
		fs.grouping = true
		i++
	}
	if i < len(r) && r[i] == '.' {
		i++
		var ok bool
		fs.precision, ok = digits()
		if !ok {
			return fs, fmt.Errorf("%w: format specifier missing precision", ErrType)
		}
	}
	if i < len(r) {
		fs.verb = r[i]
		i++
	}
	if i != len(r) {
		return fs, fmt.Errorf("%w: invalid format specifier %q", ErrType, spec)
	}
	return fs, nil
}

func formatValue(v starlark.Value, spec string) (string, error) {
	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	switch v := v.(type) {

	case starlark.Int:
		switch fs.verb {
		case 0, 'd', 'b', 'o', 'x', 'X', 'c':
			return fs.formatInt(v), nil
		case 'e', 'E', 'f', 'F', 'g', 'G', '%':
			f, _ := starlark.AsFloat(v)
			return fs.formatFloat(f), nil
		}

	case starlark.Float:
		switch fs.verb {
		case 0, 'e', 'E', 'f', 'F', 'g', 'G', '%':
			return fs.formatFloat(float64(v)), nil
		}

	case starlark.String:
		if fs.verb == 0 || fs.verb == 's' {
			return fs.formatString(string(v)), nil
		}

	default:
		if fs.verb == 0 || fs.verb == 's' {
			return fs.formatString(v.String()), nil
		}

	}

	return "", fmt.Errorf("%w: unknown format code %q for %s", ErrType, fs.verb, v.Type())
}

func (fs formatSpec) formatString(s string) string {
	if fs.precision >= 0 && utf8.RuneCountInString(s) > fs.precision {
		s = string([]rune(s)[:fs.precision])
	}
	return fs.pad("", s, '<')
}

func (fs formatSpec) formatInt(v starlark.Int) string {
	i := v.BigInt()
	neg := i.Sign() < 0
	i.Abs(i)
	var prefix, digits string
	switch fs.verb {
	case 'b':
		prefix, digits = "0b", i.Text(2)
	case 'o':
		prefix, digits = "0o", i.Text(8)
	case 'x':
		prefix, digits = "0x", i.Text(16)
	case 'X':
		prefix, digits = "0X", strings.ToUpper(i.Text(16))
	case 'c':
		return fs.pad("", string(rune(i.Int64())), '<')
	default:
		digits = i.String()
	}
	if !fs.alt {
		prefix = ""
	}
	if fs.grouping {
		digits = group(digits)
	}
	return fs.number(neg, prefix, digits)
}

func (fs formatSpec) formatFloat(f float64) string {
	neg := math.Signbit(f) && !math.IsNaN(f)
	f = math.Abs(f)
	prec := fs.precision
	if prec < 0 && fs.verb != 0 {
		prec = 6
	}

	var body string
	switch {
	case math.IsInf(f, 0):
		body = "inf"
	case math.IsNaN(f):
		body = "nan"
	default:
		switch fs.verb {
		case 'f', 'F':
			body = strconv.FormatFloat(f, 'f', prec, 64)
		case 'e', 'E':
			body = strconv.FormatFloat(f, 'e', prec, 64)
		case 'g', 'G':
			body = strconv.FormatFloat(f, 'g', max(prec, 1), 64)
		case '%':
			body = strconv.FormatFloat(f*100, 'f', prec, 64) + "%"
		default:
			if prec >= 0 {
				body = strconv.FormatFloat(f, 'g', max(prec, 1), 64)
			} else {
				body = starlark.Float(f).String()
			}
		}
		if fs.grouping {
			end := strings.IndexAny(body, ".e%")
			if end < 0 {
				end = len(body)
			}
			body = group(body[:end]) + body[end:]
		}
	}

	if fs.verb == 'F' || fs.verb == 'E' || fs.verb == 'G' {
		body = strings.ToUpper(body)
	}
	return fs.number(neg, "", body)
}

func (fs formatSpec) number(neg bool, prefix string, digits string) string {
	sign := ""
	switch {
	case neg:
		sign = "-"
	case fs.sign == '+':
		sign = "+"
	case fs.sign == ' ':
		sign = " "
	}
	return fs.pad(sign+prefix, digits, '>')
}

// pad fills to width. The '=' alignment fills between head and body.
func (fs formatSpec) pad(head string, body string, defaultAlign rune) string {
	n := utf8.RuneCountInString(head) + utf8.RuneCountInString(body)
	if n >= fs.width {
		return head + body
	}
	fill := fs.width - n
	repeat := func(n int) string {
		return strings.Repeat(string(fs.fill), n)
	}
	align := fs.align
	if align == 0 {
		align = defaultAlign
	}
	switch align {
	case '<':
		return head + body + repeat(fill)
	case '^':
		return repeat(fill/2) + head + body + repeat(fill-fill/2)
	case '=':
		return head + repeat(fill) + body
	}
	return repeat(fill) + head + body
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
