// Package view resolves logical view names to template files and renders
// them. A view name like "users/profile" is searched across one or more root
// directories, first as "users/profile.ext" and then as
// "users/profile/index.ext", and the rendering engine is bound by the file
// extension from a registry. Template engines themselves live outside this
// package; the registry only couples extensions to whatever engine the
// application provides, with a small html/template binding as the default.
package view

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoExtension is returned by New when the view name has no extension and
// no default extension was configured.
var ErrNoExtension = errors.New("view: no extension and no default extension configured")

// ErrNoEngine is returned when no engine is registered for the view's
// extension.
var ErrNoEngine = errors.New("view: no engine registered for extension")

// NotFoundError reports a view name that resolved to no file in any root.
type NotFoundError struct {
	Name  string
	Tried []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("view: failed to lookup %q (tried %s)", e.Name, strings.Join(e.Tried, ", "))
}

// View locates one template file and renders it. A View is safe for
// concurrent rendering once resolved; Resolve and the first Render are not
// synchronized and should happen before the View is shared.
type View struct {
	name    string
	file    string
	ext     string
	roots   []string
	engines Registry
	log     *slog.Logger

	path   string
	engine Engine
}

// Option configures a View during New.
type Option func(*View)

// WithRoots sets the directories searched during lookup, in priority order.
func WithRoots(roots ...string) Option {
	return func(v *View) {
		v.roots = append([]string(nil), roots...)
	}
}

// WithDefaultExtension sets the extension applied to view names that carry
// none. The leading dot is optional.
func WithDefaultExtension(ext string) Option {
	return func(v *View) {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		v.ext = ext
	}
}

// WithEngines replaces the engine registry consulted when the view's
// extension is bound.
func WithEngines(engines Registry) Option {
	return func(v *View) {
		v.engines = engines
	}
}

// WithEngine registers a single engine for ext on top of the current
// registry.
func WithEngine(ext string, engine Engine) Option {
	return func(v *View) {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cloned := make(Registry, len(v.engines)+1)
		for k, e := range v.engines {
			cloned[k] = e
		}
		cloned[ext] = engine
		v.engines = cloned
	}
}

// WithLogger injects a structured logger for lookup diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.log = logger
		}
	}
}

// New builds a View for the logical name. The file extension comes from the
// name itself or from WithDefaultExtension; without either New fails. The
// engine is bound lazily, at the first lookup, so registries may be populated
// after New.
func New(name string, opts ...Option) (*View, error) {
	v := &View{
		name:    name,
		roots:   []string{"."},
		engines: DefaultEngines(),
		log:     slog.Default(),
	}

	ext := filepath.Ext(name)
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	if ext == "" {
		if v.ext == "" {
			return nil, fmt.Errorf("%w (view %q)", ErrNoExtension, name)
		}
		v.file = name + v.ext
	} else {
		v.ext = ext
		v.file = name
	}

	return v, nil
}

// Name returns the logical view name.
func (v *View) Name() string { return v.name }

// Path returns the resolved template path, or the empty string before a
// successful Resolve.
func (v *View) Path() string { return v.path }

// Resolve locates the template file and binds the engine for its extension.
// Each root is tried in order with two candidates: the file itself, then an
// index file inside a directory of the same name. The result is cached.
func (v *View) Resolve() error {
	if v.path != "" {
		return nil
	}

	if v.engine == nil {
		engine, ok := v.engines[v.ext]
		if !ok || engine == nil {
			return fmt.Errorf("%w: %q (view %q)", ErrNoEngine, v.ext, v.name)
		}
		v.engine = engine
	}

	dir, file := filepath.Split(v.file)
	base := strings.TrimSuffix(file, v.ext)

	var tried []string
	for _, root := range v.roots {
		candidates := []string{
			filepath.Join(root, dir, file),
			filepath.Join(root, dir, base, "index"+v.ext),
		}
		for _, candidate := range candidates {
			fi, err := os.Stat(candidate)
			if err == nil && fi.Mode().IsRegular() {
				v.log.Debug("view resolved", "name", v.name, "path", candidate)
				v.path = candidate
				return nil
			}
			tried = append(tried, candidate)
		}
	}

	v.log.Debug("view not found", "name", v.name, "tried", tried)
	return &NotFoundError{Name: v.name, Tried: tried}
}

// Render resolves the view if needed and renders it to w.
func (v *View) Render(ctx context.Context, w io.Writer, data any) error {
	if err := v.Resolve(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return v.engine.Render(ctx, w, v.path, data)
}

// RenderAsync renders the view on its own goroutine and delivers the result
// through cb. The callback runs exactly once and never on the caller's
// goroutine: lookup failures and other immediate errors are still delivered
// asynchronously.
func (v *View) RenderAsync(ctx context.Context, data any, cb func(body []byte, err error)) {
	go func() {
		var buf bytes.Buffer
		if err := v.Render(ctx, &buf, data); err != nil {
			cb(nil, err)
			return
		}
		cb(buf.Bytes(), nil)
	}()
}
