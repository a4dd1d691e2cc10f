package gridexport

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format names understood by Formatter. A format may carry one parameter after a colon,
// e.g. "decimal:2", "currency:EUR", "date:02/01/2006".
const (
	FormatRaw      = "raw"
	FormatText     = "text"
	FormatNText    = "ntext"
	FormatHTML     = "html"
	FormatBoolean  = "boolean"
	FormatInteger  = "integer"
	FormatDecimal  = "decimal"
	FormatPercent  = "percent"
	FormatCurrency = "currency"
	FormatDate     = "date"
	FormatTime     = "time"
	FormatDatetime = "datetime"
)

// FormatterConfig holds the locale-dependent settings of a Formatter.
type FormatterConfig struct {
	Locale      string `yaml:"locale"`
	NullDisplay string `yaml:"null_display"`
	// BooleanFormat holds the labels for false and true.
	BooleanFormat  []string `yaml:"boolean_format"`
	DateFormat     string   `yaml:"date_format"`
	TimeFormat     string   `yaml:"time_format"`
	DatetimeFormat string   `yaml:"datetime_format"`
	CurrencyCode   string   `yaml:"currency_code"`
	TimeZone       string   `yaml:"time_zone"`
}

// DefaultFormatterConfig returns the settings used when none are given.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Locale:         "en-US",
		BooleanFormat:  []string{"No", "Yes"},
		DateFormat:     "2006-01-02",
		TimeFormat:     "15:04:05",
		DatetimeFormat: "2006-01-02 15:04:05",
		CurrencyCode:   "USD",
		TimeZone:       "UTC",
	}
}

// Formatter turns raw attribute values into display strings.
type Formatter struct {
	cfg      FormatterConfig
	printer  *message.Printer
	location *time.Location
}

// NewFormatter validates cfg and builds a Formatter. Zero fields fall back to the defaults.
func NewFormatter(cfg FormatterConfig) (*Formatter, error) {
	def := DefaultFormatterConfig()
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	if len(cfg.BooleanFormat) == 0 {
		cfg.BooleanFormat = def.BooleanFormat
	}
	if len(cfg.BooleanFormat) != 2 {
		return nil, fmt.Errorf("boolean format needs 2 labels, got %d", len(cfg.BooleanFormat))
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = def.DateFormat
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = def.TimeFormat
	}
	if cfg.DatetimeFormat == "" {
		cfg.DatetimeFormat = def.DatetimeFormat
	}
	if cfg.CurrencyCode == "" {
		cfg.CurrencyCode = def.CurrencyCode
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = def.TimeZone
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}
	if _, err := currency.ParseISO(cfg.CurrencyCode); err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", cfg.CurrencyCode, err)
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}

	return &Formatter{
		cfg:      cfg,
		printer:  message.NewPrinter(tag),
		location: loc,
	}, nil
}

// DefaultFormatter returns a Formatter built from DefaultFormatterConfig.
func DefaultFormatter() *Formatter {
	f, err := NewFormatter(DefaultFormatterConfig())
	if err != nil {
		panic(err)
	}
	return f
}

// Format renders value according to format. An empty format means "text".
func (f *Formatter) Format(value any, format string) (string, error) {
	name, param, _ := strings.Cut(format, ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = FormatText
	}

	value = indirect(value)
	if value == nil && name != FormatRaw {
		return f.cfg.NullDisplay, nil
	}

	switch name {
	case FormatRaw, FormatText, FormatHTML:
		return toString(value), nil
	case FormatNText:
		return strings.ReplaceAll(toString(value), "\n", "<br>\n"), nil
	case FormatBoolean:
		if truthy(value) {
			return f.cfg.BooleanFormat[1], nil
		}
		return f.cfg.BooleanFormat[0], nil
	case FormatInteger:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		return f.printer.Sprint(number.Decimal(math.Trunc(n), number.MaxFractionDigits(0))), nil
	case FormatDecimal:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		digits, err := precision(param, 2)
		if err != nil {
			return "", err
		}
		return f.printer.Sprint(number.Decimal(n, number.Scale(digits))), nil
	case FormatPercent:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		digits, err := precision(param, 0)
		if err != nil {
			return "", err
		}
		return f.printer.Sprint(number.Percent(n, number.Scale(digits))), nil
	case FormatCurrency:
		return f.formatCurrency(value, param)
	case FormatDate:
		return f.formatTime(value, param, f.cfg.DateFormat)
	case FormatTime:
		return f.formatTime(value, param, f.cfg.TimeFormat)
	case FormatDatetime:
		return f.formatTime(value, param, f.cfg.DatetimeFormat)
	}
	return "", fmt.Errorf("unknown format %q", name)
}

func (f *Formatter) formatCurrency(value any, code string) (string, error) {
	n, err := toFloat(value)
	if err != nil {
		return "", err
	}
	if code == "" {
		code = f.cfg.CurrencyCode
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", code, err)
	}
	return f.printer.Sprint(currency.Symbol(unit.Amount(n))), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"15:04:05",
}

func (f *Formatter) formatTime(value any, layout, fallback string) (string, error) {
	if layout == "" {
		layout = fallback
	}

	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case int, int32, int64, uint, uint32, uint64, float64:
		secs, _ := toFloat(v)
		t = time.Unix(int64(secs), 0)
	case string:
		if v == "" {
			return f.cfg.NullDisplay, nil
		}
		parsed, err := parseTime(v)
		if err != nil {
			return "", err
		}
		t = parsed
	default:
		return "", fmt.Errorf("cannot format %T as time", value)
	}
	if t.IsZero() {
		return f.cfg.NullDisplay, nil
	}
	return t.In(f.location).Format(layout), nil
}

func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", s)
}

func precision(param string, def int) (int, error) {
	if param == "" {
		return def, nil
	}
	n, err := strconv.Atoi(param)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid precision %q", param)
	}
	return n, nil
}

// indirect dereferences pointers, returning nil for nil pointers.
func indirect(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		// Keep pointers whose methods would be lost by dereferencing.
		if rendersItself(rv.Type()) && !rendersItself(rv.Type().Elem()) {
			return rv.Interface()
		}
		rv = rv.Elem()
	}
	return rv.Interface()
}

var (
	stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	errorType    = reflect.TypeOf((*error)(nil)).Elem()
)

func rendersItself(t reflect.Type) bool {
	return t.Implements(stringerType) || t.Implements(errorType)
}

// toString converts a value to its plain text form.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", val)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot format %T as a number", v)
}

func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(val)
		return err == nil && b
	}
	n, err := toFloat(v)
	return err == nil && n != 0
}

