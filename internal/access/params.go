package access

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParamSource normalizes request parameter access across transport styles.
type ParamSource interface {
	// Param returns the named parameter and whether it was present.
	Param(name string) (string, bool)
}

// MapParams is a ParamSource over a plain map, used in tests and for
// non-HTTP callers.
type MapParams map[string]string

// Param implements ParamSource.
func (m MapParams) Param(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// requestParams reads path params, query params and top-level JSON body
// fields, in that order. The body is read at most once and restored so the
// handler can still decode it.
type requestParams struct {
	r      *http.Request
	body   map[string]any
	parsed bool
}

// RequestParams wraps an incoming request as a ParamSource.
func RequestParams(r *http.Request) ParamSource {
	return &requestParams{r: r}
}

func (p *requestParams) Param(name string) (string, bool) {
	if v := chi.URLParam(p.r, name); v != "" {
		return v, true
	}
	if p.r.URL != nil {
		if vs, ok := p.r.URL.Query()[name]; ok && len(vs) > 0 {
			return vs[0], true
		}
	}
	if v, ok := p.bodyField(name); ok {
		return v, true
	}
	return "", false
}

func (p *requestParams) bodyField(name string) (string, bool) {
	if !p.parsed {
		p.parsed = true
		p.body = p.decodeBody()
	}
	raw, ok := p.body[name]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		// JSON numbers arrive as float64; identifiers compare as strings.
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

func (p *requestParams) decodeBody() map[string]any {
	if p.r.Body == nil {
		return nil
	}
	ct, _, err := mime.ParseMediaType(p.r.Header.Get("Content-Type"))
	if err != nil || ct != "application/json" {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(p.r.Body, 1<<20))
	if err != nil {
		return nil
	}
	p.r.Body = io.NopCloser(bytes.NewReader(data))
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	return fields
}
