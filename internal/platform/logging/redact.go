package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// three base64 segments separated by dots
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// credential-bearing header values such as OTLP exporter headers
	authSchemePattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// DefaultRedactOptions returns the masq options applied to every handler.
// Request headers and telemetry exporter settings are the only secrets this
// service ever sees.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+4)
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(authSchemePattern),
	)
}

var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"access_token",
	"accessToken",
	"authorization",
	"Authorization",
	"auth",
	"cookie",
	"Cookie",
	"otlp_headers",
	"headers",
}

// NewReplaceAttr creates an slog ReplaceAttr function that redacts
// sensitive attributes using DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
