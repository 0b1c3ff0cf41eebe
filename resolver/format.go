package resolver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-langtheme/resource"
)

// DefaultCopyright is used when no loaded file provides forum_copyright.
// Arguments are the forum version, the year and the script URL.
const DefaultCopyright = `<a href="%3$s?action=credits" title="License" target="_blank" rel="noopener">%1$s &copy; %2$s</a>, <a href="https://www.simplemachines.org" title="Simple Machines" target="_blank" rel="noopener">Simple Machines</a>`

const (
	defaultSeriesFormat     = "{series}"
	defaultListSeparator    = ", "
	defaultListSeparatorAlt = "; "
)

var (
	tokenPattern        = regexp.MustCompile(`\{(.*?)\}`)
	numberFormatPattern = regexp.MustCompile(`^1(\D*)234(\D*)(0*)$`)
)

type numberSeparators struct {
	thousands string
	decimal   string
	decimals  int
}

// Copyright returns the copyright format for the current variant, falling
// back to the default variant, the baseline and finally DefaultCopyright.
func (s *Session) Copyright() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	format := ""
	for _, variant := range []string{s.current, s.settings.DefaultLanguage, s.settings.BaselineLanguage} {
		if value, ok := s.copyright[variant]; ok {
			format = value
			break
		}
	}
	if format == "" {
		return DefaultCopyright
	}
	return format
}

// FormatCopyright renders the copyright line with its three arguments.
func (s *Session) FormatCopyright(version, year, scriptURL string) string {
	return FormatPHP(s.Copyright(), version, year, scriptURL)
}

// TokenReplace replaces every {token} with the txt entry of the same key, or
// with the bare token when the key is missing.
func (s *Session) TokenReplace(input string) string {
	if input == "" {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return tokenPattern.ReplaceAllStringFunc(input, func(match string) string {
		token := match[1 : len(match)-1]
		if value, ok := s.tables.Txt[token]; ok {
			return fmt.Sprint(value)
		}
		return token
	})
}

// SentenceList joins items using the sentence_list_format rules of the
// loaded language.
func (s *Session) SentenceList(items []string) string {
	s.mu.Lock()
	formats, _ := resource.NormalizeValue(s.tables.Txt["sentence_list_format"]).(map[string]any)
	separator := defaultListSeparator
	if value, ok := s.tables.Txt["sentence_list_separator"]; ok {
		separator = fmt.Sprint(value)
	}
	alternate := defaultListSeparatorAlt
	if value, ok := s.tables.Txt["sentence_list_separator_alt"]; ok {
		alternate = fmt.Sprint(value)
	}
	s.mu.Unlock()
	return SentenceList(items, formats, separator, alternate)
}

// SentenceList builds a list sentence from explicit formats and separators.
// Formats are keyed by item count with "n" as the catch-all.
func SentenceList(items []string, formats map[string]any, separator, alternate string) string {
	format := ""
	if value, ok := formats[strconv.Itoa(len(items))]; ok {
		format = fmt.Sprint(value)
	} else if value, ok := formats["n"]; ok && fmt.Sprint(value) != "" {
		format = fmt.Sprint(value)
	} else {
		format = defaultSeriesFormat
	}

	active := separator
	for _, item := range items {
		if separator != "" && strings.Contains(item, separator) {
			active = alternate
			format = translateChars(format, strings.TrimSpace(separator), strings.TrimSpace(alternate))
			break
		}
	}

	list := append([]string(nil), items...)
	pairs := []string{}
	for i := -1; strings.Contains(format, "{"+strconv.Itoa(i)+"}"); i-- {
		value := ""
		if len(list) > 0 {
			value = list[len(list)-1]
			list = list[:len(list)-1]
		}
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", value)
	}
	for i := 1; strings.Contains(format, "{"+strconv.Itoa(i)+"}"); i++ {
		value := ""
		if len(list) > 0 {
			value = list[0]
			list = list[1:]
		}
		pairs = append(pairs, "{"+strconv.Itoa(i)+"}", value)
	}
	pairs = append(pairs, "{series}", strings.Join(list, active))
	return strings.NewReplacer(pairs...).Replace(format)
}

// translateChars maps each byte of from to the byte at the same offset in to.
func translateChars(input, from, to string) string {
	n := min(len(from), len(to))
	if n == 0 {
		return input
	}
	out := []byte(input)
	for i := range out {
		if idx := strings.IndexByte(from[:n], out[i]); idx >= 0 {
			out[i] = to[idx]
		}
	}
	return string(out)
}

// NumberFormat formats number with the separators described by the loaded
// number_format string. Strings are parsed as integers and integers never
// carry decimals. The optional decimals argument applies to floats only.
func (s *Session) NumberFormat(number any, decimals ...int) string {
	var value float64
	isFloat := false
	switch v := number.(type) {
	case int:
		value = float64(v)
	case int32:
		value = float64(v)
	case int64:
		value = float64(v)
	case uint:
		value = float64(v)
	case float32:
		value, isFloat = float64(v), true
	case float64:
		value, isFloat = v, true
	case string:
		value = float64(parseLeadingInt(v))
	default:
		return fmt.Sprint(number)
	}

	seps, ok := s.separators()
	if !ok {
		if isFloat {
			return strconv.FormatFloat(value, 'f', -1, 64)
		}
		return strconv.FormatInt(int64(value), 10)
	}
	places := 0
	if isFloat {
		places = seps.decimals
		if len(decimals) > 0 {
			places = decimals[0]
		}
	}
	return FormatNumber(value, places, seps.decimal, seps.thousands)
}

func (s *Session) separators() (numberSeparators, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.numbers != nil {
		return *s.numbers, true
	}
	matches := numberFormatPattern.FindStringSubmatch(s.tables.Txt.String("number_format"))
	if matches == nil {
		return numberSeparators{}, false
	}
	s.numbers = &numberSeparators{
		thousands: matches[1],
		decimal:   matches[2],
		decimals:  len(matches[3]),
	}
	return *s.numbers, true
}

// FormatNumber rounds half away from zero to decimals places and groups the
// integer part in thousands.
func FormatNumber(value float64, decimals int, decimalSep, thousandsSep string) string {
	if decimals < 0 {
		decimals = 0
	}
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(value*scale) / scale
	negative := rounded < 0
	digits := strconv.FormatFloat(math.Abs(rounded), 'f', decimals, 64)

	intPart, fracPart, _ := strings.Cut(digits, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousandsSep)
		}
		b.WriteRune(r)
	}
	if decimals > 0 {
		b.WriteString(decimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

func parseLeadingInt(input string) int64 {
	input = strings.TrimSpace(input)
	end := 0
	for end < len(input) {
		c := input[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}
	value, err := strconv.ParseInt(input[:end], 10, 64)
	if err != nil {
		return 0
	}
	return value
}

// FormatPHP expands %s, %d, %N$s and %% directives in format. Missing
// arguments expand to the empty string and extra arguments are ignored.
func FormatPHP(format string, args ...any) string {
	var b strings.Builder
	next := 0
	arg := func(idx int) string {
		if idx < 0 || idx >= len(args) {
			return ""
		}
		return fmt.Sprint(args[idx])
	}
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			b.WriteByte(c)
			continue
		}
		rest := format[i+1:]
		switch {
		case rest[0] == '%':
			b.WriteByte('%')
			i++
		case rest[0] == 's' || rest[0] == 'd':
			b.WriteString(arg(next))
			next++
			i++
		default:
			digits := 0
			for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
				digits++
			}
			if digits > 0 && digits+1 < len(rest) && rest[digits] == '$' && (rest[digits+1] == 's' || rest[digits+1] == 'd') {
				pos, _ := strconv.Atoi(rest[:digits])
				b.WriteString(arg(pos - 1))
				i += digits + 2
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
