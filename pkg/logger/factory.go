package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment names understood by Config.Env. Anything else is development.
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures New.
type Option func(*settings)

type settings struct {
	level      slog.Leveler
	format     Format
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func WithLevel(l slog.Leveler) Option {
	return func(s *settings) {
		if l != nil {
			s.level = l
		}
	}
}

// WithFormat picks the handler. Unknown formats fall back to JSON.
func WithFormat(f Format) Option {
	return func(s *settings) {
		if f != FormatText {
			f = FormatJSON
		}
		s.format = f
	}
}

func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithAttr attaches attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(s *settings) {
		s.attrs = append(s.attrs, attrs...)
	}
}

// WithContextExtractor adds the attribute ex finds in the context of each
// record, when it finds one.
func WithContextExtractor(ex ContextExtractor) Option {
	return func(s *settings) {
		if ex != nil {
			s.extractors = append(s.extractors, ex)
		}
	}
}

// WithContextValue logs ctx.Value(key) under name whenever it is set.
func WithContextValue(name string, key any) Option {
	if name == "" || key == nil {
		return func(*settings) {}
	}
	return WithContextExtractor(func(ctx context.Context) (slog.Attr, bool) {
		v := ctx.Value(key)
		if v == nil {
			return slog.Attr{}, false
		}
		return slog.Any(name, v), true
	})
}

// WithDevelopment is debug level text output tagged with service.
func WithDevelopment(service string) Option {
	return preset(EnvDevelopment, service, slog.LevelDebug, FormatText)
}

// WithProduction is info level JSON output tagged with service.
func WithProduction(service string) Option {
	return preset(EnvProduction, service, slog.LevelInfo, FormatJSON)
}

func preset(env, service string, level slog.Level, format Format) Option {
	return func(s *settings) {
		s.level = level
		s.format = format
		s.attrs = append(s.attrs, slog.String("env", env))
		if service != "" {
			s.attrs = append(s.attrs, slog.String("service", service))
		}
	}
}

// New builds a logger. Without options it writes JSON at info level to stdout.
func New(opts ...Option) *slog.Logger {
	s := settings{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}

	ho := &slog.HandlerOptions{Level: s.level}
	var h slog.Handler = slog.NewJSONHandler(s.output, ho)
	if s.format == FormatText {
		h = slog.NewTextHandler(s.output, ho)
	}
	if len(s.attrs) > 0 {
		h = h.WithAttrs(s.attrs)
	}
	if len(s.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: s.extractors}
	}
	return slog.New(h)
}

// Config maps the logger settings to environment variables.
type Config struct {
	Service string `env:"APP_NAME" envDefault:"frontdoor"`
	Env     string `env:"APP_ENV" envDefault:"development"`
	Level   string `env:"LOG_LEVEL"`
}

// FromConfig builds a logger for cfg. Level, when set, overrides the
// environment default.
func FromConfig(cfg Config, opts ...Option) *slog.Logger {
	var base Option
	switch strings.ToLower(cfg.Env) {
	case EnvProduction, "prod":
		base = WithProduction(cfg.Service)
	case EnvStaging, "stage":
		base = preset(EnvStaging, cfg.Service, slog.LevelInfo, FormatJSON)
	default:
		base = WithDevelopment(cfg.Service)
	}

	all := []Option{base}
	if cfg.Level != "" {
		all = append(all, WithLevel(ParseLevel(cfg.Level)))
	}
	return New(append(all, opts...)...)
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
