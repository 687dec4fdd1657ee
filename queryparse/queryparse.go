// Package queryparse parses URL query strings in the two styles web
// frameworks conventionally offer, a flat "simple" mode and a bracket-nested
// "extended" mode, and compiles an application setting into the matching
// parser function.
package queryparse

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidSetting reports a query-parser configuration value that cannot be
// compiled into a Parser.
var ErrInvalidSetting = errors.New("queryparse: invalid setting")

// Values holds parsed query parameters. Simple parsing stores string values,
// with []string for repeated keys. Extended parsing stores string values,
// []any for lists, and map[string]any for bracket-nested objects.
type Values map[string]any

// Parser turns a raw query string into Values.
type Parser func(query string) (Values, error)

// Simple parses query with flat semantics: percent-decoding, '+' as space,
// repeated keys collected into a []string in input order.
func Simple(query string) (Values, error) {
	parsed, err := url.ParseQuery(query)
	if err != nil {
		return nil, fmt.Errorf("queryparse: %w", err)
	}

	values := make(Values, len(parsed))
	for key, vals := range parsed {
		if len(vals) == 1 {
			values[key] = vals[0]
			continue
		}
		values[key] = vals
	}
	return values, nil
}

// maxDepth bounds bracket nesting in extended parsing. Bracket groups past
// the limit collapse into a single literal key segment.
const maxDepth = 5

// ParseExtended parses query with bracket notation: "a[b][c]=v" nests
// objects, "a[]=v" appends to a list, and repeated scalar keys collect into a
// list. Malformed bracket groups are kept as literal key text rather than
// rejected.
func ParseExtended(query string) (Values, error) {
	values := Values{}

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("queryparse: invalid key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("queryparse: invalid value %q: %w", rawValue, err)
		}

		segments := splitKey(key)
		values[segments[0]] = merge(values[segments[0]], segments[1:], value)
	}

	return values, nil
}

// Compile maps an application query-parser setting to a Parser.
//
//	true, "simple" -> Simple
//	"extended"     -> ParseExtended
//	false          -> a parser that always returns empty Values
//	Parser/func    -> used as-is
//
// Any other value wraps ErrInvalidSetting.
func Compile(val any) (Parser, error) {
	switch v := val.(type) {
	case bool:
		if v {
			return Simple, nil
		}
		return disabled, nil
	case string:
		switch v {
		case "simple":
			return Simple, nil
		case "extended":
			return ParseExtended, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidSetting, v)
	case Parser:
		return v, nil
	case func(query string) (Values, error):
		return v, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, val)
}

func disabled(string) (Values, error) {
	return Values{}, nil
}

// splitKey breaks "a[b][c]" into {"a", "b", "c"}. The empty segment from
// "a[]" marks list appends. Unbalanced brackets and groups past maxDepth stay
// in the result as one literal segment.
func splitKey(key string) []string {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}
	}

	segments := []string{key[:open]}
	rest := key[open:]

	for len(segments) <= maxDepth && strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		segments = append(segments, rest[1:end])
		rest = rest[end+1:]
	}

	if rest != "" {
		segments = append(segments, rest)
	}
	return segments
}

// merge assigns value at the bracket path under node and returns the updated
// node.
func merge(node any, segments []string, value string) any {
	if len(segments) == 0 {
		switch existing := node.(type) {
		case nil:
			return value
		case string:
			return []any{existing, value}
		case []any:
			return append(existing, value)
		default:
			// A scalar arriving where an object already sits loses; the
			// structured data wins.
			return existing
		}
	}

	seg := segments[0]
	if seg == "" {
		list, ok := node.([]any)
		if node != nil && !ok {
			list = []any{node}
		}
		if len(segments) == 1 {
			return append(list, value)
		}
		return append(list, merge(nil, segments[1:], value))
	}

	obj, ok := node.(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	obj[seg] = merge(obj[seg], segments[1:], value)
	return obj
}
