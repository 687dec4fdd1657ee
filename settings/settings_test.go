package settings

import (
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jkeller-io/appweave/etag"
	"github.com/jkeller-io/appweave/proxytrust"
	"github.com/jkeller-io/appweave/queryparse"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("unexpected error writing config: %v", err)
	}
	return path
}

func TestFromEnvDefaults(t *testing.T) {
	s, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Env != "development" {
		t.Fatalf("unexpected env: got %q want %q", s.Env, "development")
	}
	if s.ETag != "weak" {
		t.Fatalf("unexpected etag setting: got %q want %q", s.ETag, "weak")
	}
	if s.QueryParser != "extended" {
		t.Fatalf("unexpected query parser setting: got %q want %q", s.QueryParser, "extended")
	}
	if s.TrustProxy != "" {
		t.Fatalf("unexpected trust proxy setting: got %q want empty", s.TrustProxy)
	}
}

func TestFromEnvReadsVariables(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_ETAG", "strong")
	t.Setenv("APP_TRUST_PROXY", "loopback")
	t.Setenv("APP_VIEW_ROOTS", "templates:shared/templates")

	s, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Env != "production" {
		t.Fatalf("unexpected env: got %q want %q", s.Env, "production")
	}
	if s.ETag != "strong" {
		t.Fatalf("unexpected etag setting: got %q want %q", s.ETag, "strong")
	}
	if s.TrustProxy != "loopback" {
		t.Fatalf("unexpected trust proxy setting: got %q want %q", s.TrustProxy, "loopback")
	}

	wantRoots := []string{"templates", "shared/templates"}
	if !reflect.DeepEqual(s.ViewRoots, wantRoots) {
		t.Fatalf("unexpected view roots: got %v want %v", s.ViewRoots, wantRoots)
	}
}

func TestLoadFileJSONCStripsComments(t *testing.T) {
	path := writeConfig(t, "app.jsonc", `{
		// framework behaviour
		"etag": "strong",
		"trustProxy": "uniquelocal",
		"viewRoots": ["templates"],
	}`)

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ETag != "strong" {
		t.Fatalf("unexpected etag setting: got %q want %q", s.ETag, "strong")
	}
	if s.TrustProxy != "uniquelocal" {
		t.Fatalf("unexpected trust proxy setting: got %q want %q", s.TrustProxy, "uniquelocal")
	}
	// Missing keys keep their defaults.
	if s.QueryParser != "extended" {
		t.Fatalf("unexpected query parser setting: got %q want %q", s.QueryParser, "extended")
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "app.yaml", "etag: \"false\"\nqueryParser: simple\nviewEngine: .tmpl\n")

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ETag != "false" {
		t.Fatalf("unexpected etag setting: got %q want %q", s.ETag, "false")
	}
	if s.QueryParser != "simple" {
		t.Fatalf("unexpected query parser setting: got %q want %q", s.QueryParser, "simple")
	}
	if s.ViewEngine != ".tmpl" {
		t.Fatalf("unexpected view engine: got %q want %q", s.ViewEngine, ".tmpl")
	}
}

func TestLoadFileRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, "app.toml", "etag = \"weak\"")

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCompileDefaults(t *testing.T) {
	compiled, err := Default().Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if compiled.ETag == nil {
		t.Fatal("expected an etag generator")
	}
	if tag := compiled.ETag([]byte("body")); tag != etag.Weak([]byte("body")) {
		t.Fatalf("unexpected tag: got %q", tag)
	}

	values, err := compiled.Query("a[b]=1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if !reflect.DeepEqual(values["a"], map[string]any{"b": "1"}) {
		t.Fatalf("expected extended parsing, got %#v", values)
	}

	if compiled.Trust(netip.MustParseAddr("127.0.0.1"), 0) {
		t.Fatal("expected no proxy to be trusted by default")
	}
}

func TestCompileHopCountTrust(t *testing.T) {
	s := Default()
	s.TrustProxy = "2"

	compiled, err := s.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	addr := netip.MustParseAddr("203.0.113.1")
	if !compiled.Trust(addr, 1) || compiled.Trust(addr, 2) {
		t.Fatal("expected exactly two trusted hops")
	}
}

func TestCompileDisabledSettings(t *testing.T) {
	s := Settings{ETag: "false", QueryParser: "false", TrustProxy: "false"}

	compiled, err := s.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if compiled.ETag != nil {
		t.Fatal("expected etag generation to be disabled")
	}
	values, err := compiled.Query("a=1")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected query parsing to be disabled, got %#v", values)
	}
}

func TestCompileCollectsAllErrors(t *testing.T) {
	s := Settings{ETag: "shiny", QueryParser: "nested", TrustProxy: "-3"}

	_, err := s.Compile()
	if err == nil {
		t.Fatal("expected compile errors")
	}

	for _, sentinel := range []error{
		etag.ErrInvalidSetting,
		queryparse.ErrInvalidSetting,
		proxytrust.ErrInvalidSetting,
	} {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected %v in %v", sentinel, err)
		}
	}
}
