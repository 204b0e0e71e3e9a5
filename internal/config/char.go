package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Char is a single dialect byte. In config files and flags it is written
// either literally (",") or by name ("tab", "semicolon").
type Char byte

var charNames = map[string]Char{
	"comma":        ',',
	"semicolon":    ';',
	"tab":          '\t',
	`\t`:           '\t',
	"pipe":         '|',
	"space":        ' ',
	"quote":        '"',
	"double-quote": '"',
	"single-quote": '\'',
	"apostrophe":   '\'',
	"backslash":    '\\',
	"none":         0,
}

// ParseChar converts a literal byte or a symbolic name into a Char.
// The empty string yields 0, meaning "not set".
func ParseChar(s string) (Char, error) {
	if s == "" {
		return 0, nil
	}
	if c, ok := charNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	if len(s) == 1 {
		return Char(s[0]), nil
	}
	return 0, fmt.Errorf("invalid character %q: expected a single byte or a name such as tab or semicolon", s)
}

// Byte returns c as a byte.
func (c Char) Byte() byte { return byte(c) }

// String renders c in the form ParseChar accepts.
func (c Char) String() string {
	switch c {
	case 0:
		return ""
	case '\t':
		return "tab"
	case ' ':
		return "space"
	default:
		return string(rune(c))
	}
}

// MarshalText writes c in its ParseChar form for YAML and JSON output.
func (c Char) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// charDecodeHook returns a mapstructure decode hook that converts strings
// and small integers to Char.
func charDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(Char(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return ParseChar(v)
		case int:
			return intToChar(int64(v))
		case int64:
			return intToChar(v)
		case float64:
			// YAML often deserializes numbers as float64
			return intToChar(int64(v))
		default:
			return data, nil
		}
	}
}

func intToChar(v int64) (Char, error) {
	// A bare digit in YAML is the digit itself, not a code point.
	if v >= 0 && v <= 9 {
		return Char('0' + byte(v)), nil
	}
	return 0, fmt.Errorf("invalid character %d: quote single characters in the config file", v)
}
