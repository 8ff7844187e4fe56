package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// CORSConfig holds the cross-origin policy for the API.
type CORSConfig struct {
	AllowOrigin  string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       int
}

// DefaultCORSConfig is permissive; the API is meant to sit behind basic
// auth on a trusted network, not on the public internet.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigin:  "*",
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		MaxAge:       86400,
	}
}

// headerValues pre-joins the list-valued headers once.
func (c CORSConfig) headerValues() (methods, headers, maxAge string) {
	return strings.Join(c.AllowMethods, ", "),
		strings.Join(c.AllowHeaders, ", "),
		strconv.Itoa(c.MaxAge)
}

// NewCORSMiddleware returns huma middleware that stamps CORS headers on
// every response and short-circuits preflight requests.
func NewCORSMiddleware(config CORSConfig) func(huma.Context, func(huma.Context)) {
	methods, headers, maxAge := config.headerValues()

	return func(ctx huma.Context, next func(huma.Context)) {
		ctx.SetHeader("Access-Control-Allow-Origin", config.AllowOrigin)
		ctx.SetHeader("Access-Control-Allow-Methods", methods)
		ctx.SetHeader("Access-Control-Allow-Headers", headers)
		ctx.SetHeader("Access-Control-Max-Age", maxAge)

		if ctx.Method() == http.MethodOptions {
			ctx.SetStatus(http.StatusNoContent)
			return
		}
		next(ctx)
	}
}

// AddCORSHandler answers preflight requests directly on the mux. Huma
// middleware never sees OPTIONS for routes it does not register, so the
// mux needs its own catch-all.
func AddCORSHandler(mux *http.ServeMux, config CORSConfig) {
	methods, headers, maxAge := config.headerValues()

	mux.HandleFunc("OPTIONS /", func(w http.ResponseWriter, _ *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", config.AllowOrigin)
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		h.Set("Access-Control-Max-Age", maxAge)
		w.WriteHeader(http.StatusNoContent)
	})
}
