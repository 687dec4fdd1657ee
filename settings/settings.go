// Package settings loads application-level framework settings from the
// environment or from JSONC/YAML files and compiles them into the functions
// the rest of the module consumes: an ETag generator, a query-string parser,
// and a proxy-trust predicate.
//
// Settings values are deliberately stringly typed so the same struct can be
// fed from environment variables and config files; Compile performs the
// conversion and reports every invalid value, not just the first.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jkeller-io/appweave/etag"
	"github.com/jkeller-io/appweave/jsonutil"
	"github.com/jkeller-io/appweave/proxytrust"
	"github.com/jkeller-io/appweave/queryparse"
)

// Settings carries the tunable behaviour of the request/response helpers.
//
// ETag accepts "strong", "weak", "true", or "false". QueryParser accepts
// "simple", "extended", "true", or "false". TrustProxy accepts "true",
// "false", a hop count, or a comma-separated list of CIDR prefixes, IPs, and
// named ranges; empty means no proxy is trusted.
type Settings struct {
	Env         string   `env:"APP_ENV" envDefault:"development" json:"env" yaml:"env"`
	ETag        string   `env:"APP_ETAG" envDefault:"weak" json:"etag" yaml:"etag"`
	QueryParser string   `env:"APP_QUERY_PARSER" envDefault:"extended" json:"queryParser" yaml:"queryParser"`
	TrustProxy  string   `env:"APP_TRUST_PROXY" json:"trustProxy" yaml:"trustProxy"`
	ViewRoots   []string `env:"APP_VIEW_ROOTS" envSeparator:":" json:"viewRoots" yaml:"viewRoots"`
	ViewEngine  string   `env:"APP_VIEW_ENGINE" envDefault:".html" json:"viewEngine" yaml:"viewEngine"`
}

// Compiled holds the functions produced from a Settings value. A nil ETag
// generator means emission is disabled; Trust and Query are always non-nil.
type Compiled struct {
	ETag  etag.Generator
	Query queryparse.Parser
	Trust proxytrust.Trust
}

// Default returns the settings used when nothing is configured: weak ETags,
// extended query parsing, no trusted proxies.
func Default() Settings {
	return Settings{
		Env:         "development",
		ETag:        "weak",
		QueryParser: "extended",
		ViewEngine:  ".html",
	}
}

// FromEnv loads settings from APP_* environment variables, falling back to
// the defaults.
func FromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("settings: parse env: %w", err)
	}
	return s, nil
}

// LoadFile loads settings from a JSON, JSONC, or YAML file, dispatching on
// the file extension. Missing keys keep their defaults; JSON files may carry
// comments and trailing commas.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	s := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		if err := jsonutil.Unmarshal(jsonc.ToJSON(data), &s); err != nil {
			return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("settings: parse %s: %w", path, err)
		}
	default:
		return Settings{}, fmt.Errorf("settings: unsupported config format %q", ext)
	}

	return s, nil
}

// Compile converts the settings into their functional form. Invalid values
// are collected across fields and returned joined, so a bad deploy surfaces
// every problem at once.
func (s Settings) Compile() (*Compiled, error) {
	var errs []error

	generator, err := etag.Compile(coerce(s.ETag))
	if err != nil {
		errs = append(errs, err)
	}

	queryVal := coerce(s.QueryParser)
	if s.QueryParser == "" {
		queryVal = false
	}
	parser, err := queryparse.Compile(queryVal)
	if err != nil {
		errs = append(errs, err)
	}

	trust, err := proxytrust.Compile(coerce(s.TrustProxy))
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("settings: %w", errors.Join(errs...))
	}
	return &Compiled{ETag: generator, Query: parser, Trust: trust}, nil
}

// coerce maps a raw setting string to the value shape the compilers expect:
// booleans and integers become typed, everything else stays a string, and
// empty means unset.
func coerce(raw string) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
