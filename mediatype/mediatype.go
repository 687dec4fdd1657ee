// Package mediatype normalizes media-type expressions the way response
// helpers need them: a bare file extension becomes its registered media type,
// a full type keeps its parameters, and Accept-style quality values are parsed
// into numbers. It also injects charset parameters into Content-Type values.
package mediatype

import (
	"mime"
	"strconv"
	"strings"
)

// Accepted is a normalized media type. Quality defaults to 1 when the input
// carries no q parameter, and Params holds every parameter except q verbatim.
type Accepted struct {
	Value   string
	Quality float64
	Params  map[string]string
}

// Normalize parses a media-type expression into its normalized form. Input
// without a slash is treated as a file extension and resolved through the
// platform's media-type table; unknown extensions yield an Accepted with an
// empty Value. Anything else runs through the accept-parameter tokenizer.
func Normalize(t string) Accepted {
	if !strings.Contains(t, "/") {
		return Accepted{
			Value:   typeByExtension(t),
			Quality: 1,
			Params:  map[string]string{},
		}
	}
	return acceptParams(t)
}

// NormalizeAll normalizes each entry of types in order.
func NormalizeAll(types ...string) []Accepted {
	normalized := make([]Accepted, len(types))
	for i, t := range types {
		normalized[i] = Normalize(t)
	}
	return normalized
}

// SetCharset returns contentType with its charset parameter set to charset.
// Empty inputs and unparseable content types pass through unchanged.
func SetCharset(contentType, charset string) string {
	if contentType == "" || charset == "" {
		return contentType
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}

	params["charset"] = charset
	return mime.FormatMediaType(mediaType, params)
}

// acceptParams tokenizes a media type of the form
// "value; q=0.8; key=val" with a single linear pass over its
// semicolon-separated segments.
func acceptParams(s string) Accepted {
	segments := strings.Split(s, ";")

	accepted := Accepted{
		Value:   strings.TrimSpace(segments[0]),
		Quality: 1,
		Params:  map[string]string{},
	}

	for _, segment := range segments[1:] {
		key, value, _ := strings.Cut(segment, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if key == "q" {
			if q, err := strconv.ParseFloat(value, 64); err == nil {
				accepted.Quality = q
			}
			continue
		}
		if key != "" {
			accepted.Params[key] = value
		}
	}

	return accepted
}

func typeByExtension(ext string) string {
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	resolved := mime.TypeByExtension(ext)
	if resolved == "" {
		return ""
	}

	// TypeByExtension appends charset parameters for text types; the
	// normalized value is the bare type.
	if mediaType, _, err := mime.ParseMediaType(resolved); err == nil {
		return mediaType
	}
	return resolved
}
