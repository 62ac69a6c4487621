package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-caseform/pkg/schema"
)

// Format types declared on a field mode.
const (
	TypeNumber       = "number"
	TypeText         = "text"
	TypeTrueFalse    = "truefalse"
	TypeEmail        = "email"
	TypeTel          = "tel"
	TypeURL          = "url"
	TypeAdvancedText = "advancedtext"
	TypeDateTime     = "datetime"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en-US"

// Option configures a Formatter.
type Option func(*Formatter)

// WithLocale sets the BCP 47 locale used for numbers, currency and phones.
func WithLocale(locale string) Option {
	return func(f *Formatter) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			f.Locale = trimmed
		}
	}
}

// WithLocation sets the zone dates are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(f *Formatter) {
		if loc != nil {
			f.Location = loc
		}
	}
}

// WithClock overrides the time source used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		if now != nil {
			f.Now = now
		}
	}
}

// Formatter maps raw store values to display strings. The locale is explicit
// so output does not depend on process settings.
type Formatter struct {
	Locale   string
	Location *time.Location
	Now      func() time.Time
}

// New builds a Formatter with en-US, UTC and the wall clock as defaults.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		Locale:   DefaultLocale,
		Location: time.UTC,
		Now:      time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Format renders raw using the settings of field's mode at modeIndex. Values
// without a matching rule are returned unchanged. Every result is sanitised.
func (f *Formatter) Format(raw any, field *schema.Field, modeIndex int) string {
	value := Stringify(raw)
	if field == nil || value == "" || modeIndex < 0 || modeIndex >= len(field.Control.Modes) {
		return Sanitize(value)
	}
	mode := field.Control.Modes[modeIndex]

	switch {
	case strings.Contains(mode.DateTimeFormat, "DateTime-"), strings.Contains(mode.DateFormat, "Date-"):
		code := mode.DateTimeFormat
		if code == "" {
			code = mode.DateFormat
		}
		value = f.FormatDate(value, code)
	case mode.FormatType == TypeNumber:
		value = f.FormatNumber(value, mode)
	case mode.FormatType == TypeText:
		value = mode.AutoPrepend + value + mode.AutoAppend
	case mode.FormatType == TypeTrueFalse:
		if value == "false" {
			value = mode.FalseLabel
		} else {
			value = mode.TrueLabel
		}
	case mode.FormatType == TypeTel:
		value = f.FormatPhone(value)
	case mode.FormatType == TypeEmail, mode.FormatType == TypeURL, mode.FormatType == TypeAdvancedText:
		// reserved
	}
	return Sanitize(value)
}

// CurrentTime reads the formatter's clock.
func (f *Formatter) CurrentTime() time.Time {
	return f.now()
}

func (f *Formatter) now() time.Time {
	if f == nil || f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

func (f *Formatter) location() *time.Location {
	if f == nil || f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f *Formatter) locale() string {
	if f == nil || f.Locale == "" {
		return DefaultLocale
	}
	return f.Locale
}

// Stringify renders a store value as text. Nil becomes the empty string and
// whole floats drop their fraction.
func Stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
