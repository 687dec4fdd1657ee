package view

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"io"
	texttemplate "text/template"
)

// Engine renders the template file at path into w.
type Engine interface {
	Render(ctx context.Context, w io.Writer, path string, data any) error
}

// EngineFunc adapts a plain function to the Engine interface.
type EngineFunc func(ctx context.Context, w io.Writer, path string, data any) error

// Render implements Engine.
func (f EngineFunc) Render(ctx context.Context, w io.Writer, path string, data any) error {
	return f(ctx, w, path, data)
}

// Registry maps a file extension (with leading dot) to the engine that
// renders it.
type Registry map[string]Engine

// DefaultEngines returns the registry used when no WithEngines option is
// supplied: html/template for ".html" and ".tmpl", text/template for ".txt".
func DefaultEngines() Registry {
	return Registry{
		".html": HTMLEngine(),
		".tmpl": HTMLEngine(),
		".txt":  TextEngine(),
	}
}

// HTMLEngine renders templates with html/template, so data is escaped
// according to the HTML context it lands in. The file is parsed on every
// render; applications with hot paths should wrap their own cached engine.
func HTMLEngine() Engine {
	return EngineFunc(func(ctx context.Context, w io.Writer, path string, data any) error {
		tmpl, err := htmltemplate.ParseFiles(path)
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", path, err)
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("view: execute %s: %w", path, err)
		}
		return nil
	})
}

// TextEngine renders templates with text/template, without escaping.
func TextEngine() Engine {
	return EngineFunc(func(ctx context.Context, w io.Writer, path string, data any) error {
		tmpl, err := texttemplate.ParseFiles(path)
		if err != nil {
			return fmt.Errorf("view: parse %s: %w", path, err)
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("view: execute %s: %w", path, err)
		}
		return nil
	})
}
