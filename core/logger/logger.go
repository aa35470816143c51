package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// ContextExtractor pulls a single attribute out of a context, returning
// ok=false when the value it looks for isn't present.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// config accumulates the settings built up by Option values before New
// constructs the final *slog.Logger.
type config struct {
	level       slog.Leveler
	json        bool
	output      io.Writer
	handlerOpts *slog.HandlerOptions
	attrs       []slog.Attr
	extractors  []ContextExtractor
}

// Option configures a logger built by New.
type Option func(*config)

// WithLevel sets the minimum level logged.
func WithLevel(level slog.Leveler) Option {
	return func(c *config) { c.level = level }
}

// WithJSONFormatter selects JSON output instead of slog's default text handler.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithTextFormatter selects text output. This is the default.
func WithTextFormatter() Option {
	return func(c *config) { c.json = false }
}

// WithOutput sets the destination writer. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithHandlerOptions supplies raw slog.HandlerOptions, overriding level.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) { c.handlerOpts = opts }
}

// WithAttr attaches attributes to every record emitted by the logger.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextValue registers an extractor that copies ctx.Value(ctxKey)
// into an attribute named attrKey, when present and non-nil.
func WithContextValue(ctxKey, attrKey string) Option {
	return func(c *config) {
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			v := ctx.Value(ctxKey)
			if v == nil {
				return slog.Attr{}, false
			}
			return slog.Any(attrKey, v), true
		})
	}
}

// WithContextExtractors registers custom context-to-attribute extractors,
// run in order on every *Context log call.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, extractors...) }
}

// WithDevelopment configures text output at debug level to stdout, tagged
// with the given service name.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.json = false
		c.level = slog.LevelDebug
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("environment", "development"))
	}
}

// WithStaging configures JSON output at info level to stdout, tagged with
// the given service name.
func WithStaging(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("environment", "staging"))
	}
}

// WithProduction configures JSON output at info level to stdout, tagged
// with the given service name.
func WithProduction(service string) Option {
	return func(c *config) {
		c.json = true
		c.level = slog.LevelInfo
		c.output = os.Stdout
		c.attrs = append(c.attrs, slog.String("service", service), slog.String("environment", "production"))
	}
}

// New builds a *slog.Logger from the given options. With no options it
// behaves like slog.Default's text handler written to stdout at info level.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := c.handlerOpts
	if handlerOpts == nil {
		handlerOpts = &slog.HandlerOptions{Level: c.level}
	}

	var h slog.Handler
	if c.json {
		h = slog.NewJSONHandler(c.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(c.output, handlerOpts)
	}

	if len(c.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: c.extractors}
	}

	log := slog.New(h)
	if len(c.attrs) > 0 {
		args := make([]any, 0, len(c.attrs))
		for _, a := range c.attrs {
			args = append(args, a)
		}
		log = log.With(args...)
	}
	return log
}

// SetAsDefault installs log as the process-wide slog.Default logger.
func SetAsDefault(log *slog.Logger) {
	slog.SetDefault(log)
}

// contextHandler decorates every record with attributes pulled from the
// logging call's context via the registered extractors.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attr, ok := extract(ctx); ok {
			r.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
