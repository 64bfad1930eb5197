package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const (
	bodyStyle    = "margin:0;padding:24px;background:#f3f4f6;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;color:#111827;"
	cardStyle    = "max-width:480px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;"
	headingStyle = "margin:0 0 16px;font-size:22px;font-weight:600;"
	textStyle    = "margin:0 0 16px;font-size:15px;line-height:1.5;"
	mutedStyle   = "margin:0 0 16px;font-size:13px;line-height:1.5;color:#6b7280;"
	codeStyle    = "margin:24px 0;padding:16px;background:#f9fafb;border-radius:6px;text-align:center;font-size:32px;letter-spacing:8px;font-weight:bold;font-family:monospace;"
)

// writer accumulates the first write error so templates read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) child(ctx context.Context, c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(ctx, w.w)
	}
}

// Layout wraps body in the shared email shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(title)
		w.raw(`</title></head><body style="` + bodyStyle + `"><div style="` + cardStyle + `">`)
		w.child(ctx, body)
		w.raw(`</div></body></html>`)
		return w.err
	})
}

// Heading renders a title line.
func Heading(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<h1 style="` + headingStyle + `">`)
		w.text(s)
		w.raw(`</h1>`)
		return w.err
	})
}

// Text renders a paragraph.
func Text(s string) templ.Component {
	return paragraph(textStyle, s)
}

// TextSecondary renders a muted paragraph.
func TextSecondary(s string) templ.Component {
	return paragraph(mutedStyle, s)
}

func paragraph(style, s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<p style="` + style + `">`)
		w.text(s)
		w.raw(`</p>`)
		return w.err
	})
}

// OTP renders a one-time code in a large monospace panel.
func OTP(code string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<div style="` + codeStyle + `">`)
		w.text(code)
		w.raw(`</div>`)
		return w.err
	})
}

// Stack renders components in order.
func Stack(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		for _, p := range parts {
			w.child(ctx, p)
		}
		return w.err
	})
}
