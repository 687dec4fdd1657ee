// Package etag generates HTTP entity tags and compiles application ETag
// settings into generator functions.
//
// Body tags follow the widespread "<length-hex>-<sha1-base64>" shape so tags
// stay stable across processes and deployments. File tags derive from size
// and modification time instead of content and are always weak.
package etag

import (
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// ErrInvalidSetting reports an ETag configuration value that cannot be
// compiled into a generator.
var ErrInvalidSetting = errors.New("etag: invalid setting")

// Generator produces an entity tag for a response body. A nil Generator
// means ETag emission is disabled.
type Generator func(body []byte) string

// Of returns a strong entity tag for body: the body length in hex and the
// first 27 characters of the base64 SHA-1 digest, quoted.
func Of(body []byte) string {
	if len(body) == 0 {
		// Fixed tag for the empty body, shared by every process.
		return `"0-2jmj7l5rSw0yVb/vlWAYkK/YBwk"`
	}

	sum := sha1.Sum(body)
	hash := base64.RawStdEncoding.EncodeToString(sum[:])

	return `"` + strconv.FormatInt(int64(len(body)), 16) + "-" + hash + `"`
}

// Weak returns the weak form of Of.
func Weak(body []byte) string {
	return "W/" + Of(body)
}

// OfFileInfo returns a weak entity tag derived from the file's size and
// modification time, both in hex. Content is never read, which keeps the tag
// cheap for large files at the cost of strong comparison.
func OfFileInfo(fi fs.FileInfo) string {
	size := strconv.FormatInt(fi.Size(), 16)
	mtime := strconv.FormatInt(fi.ModTime().UnixMilli(), 16)

	return `W/"` + size + "-" + mtime + `"`
}

// Compile maps an application ETag setting to a Generator.
//
//	true, "weak"   -> Weak
//	"strong"       -> Of
//	false          -> nil (emission disabled)
//	Generator/func -> used as-is
//
// Any other value wraps ErrInvalidSetting.
func Compile(val any) (Generator, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case bool:
		if v {
			return Weak, nil
		}
		return nil, nil
	case string:
		switch v {
		case "strong":
			return Of, nil
		case "weak":
			return Weak, nil
		}
		return nil, fmt.Errorf("%w: %q", ErrInvalidSetting, v)
	case Generator:
		return v, nil
	case func(body []byte) string:
		return v, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, val)
}

// Match reports whether an If-None-Match header matches tag using weak
// comparison. A header of "*" matches any tag.
func Match(header, tag string) bool {
	if header == "" || tag == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == want {
			return true
		}
	}
	return false
}
