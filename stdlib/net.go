package stdlib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

const defaultUserAgent = "ZenLang/" + zen.Version

type httpResult struct {
	status  int
	headers http.Header
	body    []byte
}

// requestBody encodes objects and arrays as JSON and sends anything else as
// its display text.
func requestBody(data zen.Value) (io.Reader, bool, error) {
	switch data.Kind() {
	case zen.KindNull:
		return nil, false, nil
	case zen.KindObject, zen.KindArray, zen.KindInstance:
		encoded, err := json.Marshal(zen.ToNative(data))
		if err != nil {
			return nil, false, err
		}
		return bytes.NewReader(encoded), true, nil
	default:
		return strings.NewReader(data.String()), true, nil
	}
}

// do builds and sends one request. Statuses of 400 and above are errors
// unless allowStatus is set.
func (rt *Runtime) do(ctx context.Context, method, rawURL string, data zen.Value, headers zen.Value, allowStatus bool) (*httpResult, error) {
	body, hasBody, err := requestBody(data)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), rawURL, body)
	if err != nil {
		return nil, err
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, val := range headers.Object() {
		req.Header.Set(key, val.String())
	}
	return rt.send(req, allowStatus)
}

// send performs req with the evaluator lock released.
func (rt *Runtime) send(req *http.Request, allowStatus bool) (*httpResult, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", rt.agent)
	}
	var (
		res *httpResult
		err error
	)
	rt.blocking(func() {
		var resp *http.Response
		resp, err = rt.client.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		var payload []byte
		payload, err = io.ReadAll(resp.Body)
		res = &httpResult{status: resp.StatusCode, headers: resp.Header, body: payload}
	})
	if err != nil {
		return nil, err
	}
	rt.log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status", res.status).Msg("net request")
	if !allowStatus && res.status >= http.StatusBadRequest {
		return res, fmt.Errorf("HTTP %d %s", res.status, http.StatusText(res.status))
	}
	return res, nil
}

func (rt *Runtime) fetch(method string, jsonResult bool) zen.BuiltinFunc {
	return func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		res, err := rt.do(in.Context(), method, zen.Arg(args, 0).String(), zen.Arg(args, 1), zen.NewNull(), false)
		if err != nil {
			return zen.NewNull(), netError(err)
		}
		if jsonResult {
			val, err := zen.DecodeJSON(string(res.body))
			if err != nil {
				return zen.NewNull(), zen.Errorf("network error: invalid JSON: %v", err)
			}
			return val, nil
		}
		return zen.NewString(string(res.body)), nil
	}
}

func netError(err error) error {
	if zen.IsInterrupt(err) {
		return err
	}
	return zen.Errorf("network error: %v", err)
}

func (rt *Runtime) loadNet(_ *zen.Interpreter) (zen.Value, error) {
	fns := funcs{
		"get":      rt.fetch(http.MethodGet, false),
		"post":     rt.fetch(http.MethodPost, false),
		"put":      rt.fetch(http.MethodPut, false),
		"patch":    rt.fetch(http.MethodPatch, false),
		"delete":   rt.fetch(http.MethodDelete, false),
		"getJSON":  rt.fetch(http.MethodGet, true),
		"postJSON": rt.fetch(http.MethodPost, true),
		"request": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			res, err := rt.do(in.Context(), zen.Arg(args, 0).String(), zen.Arg(args, 1).String(), zen.Arg(args, 2), zen.Arg(args, 3), false)
			if err != nil {
				return zen.NewNull(), netError(err)
			}
			return zen.NewString(string(res.body)), nil
		},
		"getStatus": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			res, err := rt.do(in.Context(), http.MethodGet, zen.Arg(args, 0).String(), zen.NewNull(), zen.NewNull(), true)
			if err != nil {
				if zen.IsInterrupt(err) {
					return zen.NewNull(), err
				}
				return zen.NewInt(0), nil
			}
			return zen.NewInt(int64(res.status)), nil
		},
		"getHeaders": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			res, err := rt.do(in.Context(), http.MethodGet, zen.Arg(args, 0).String(), zen.NewNull(), zen.NewNull(), false)
			if err != nil {
				return zen.NewNull(), netError(err)
			}
			out := make(map[string]zen.Value, len(res.headers))
			for key := range res.headers {
				out[key] = zen.NewString(res.headers.Get(key))
			}
			return zen.NewObject(out), nil
		},
		"download": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			res, err := rt.do(in.Context(), http.MethodGet, zen.Arg(args, 0).String(), zen.NewNull(), zen.NewNull(), false)
			if err != nil {
				return zen.NewNull(), netError(err)
			}
			if err := writeFile(zen.Arg(args, 1).String(), res.body, os.O_TRUNC); err != nil {
				return zen.NewNull(), zen.Errorf("download error: %v", err)
			}
			return zen.NewBool(true), nil
		},
		"urlEncode": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(encodeQuery(zen.Arg(args, 0))), nil
		},
		"urlDecode": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			values, err := url.ParseQuery(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), zen.Errorf("invalid query string: %v", err)
			}
			out := make(map[string]zen.Value, len(values))
			for key := range values {
				out[key] = zen.NewString(values.Get(key))
			}
			return zen.NewObject(out), nil
		},
		"parseURL": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			u, err := url.Parse(zen.Arg(args, 0).String())
			if err != nil {
				return zen.NewNull(), zen.Errorf("invalid URL: %v", err)
			}
			return zen.NewObject(map[string]zen.Value{
				"scheme":   zen.NewString(u.Scheme),
				"host":     zen.NewString(u.Host),
				"path":     zen.NewString(u.Path),
				"query":    zen.NewString(u.RawQuery),
				"fragment": zen.NewString(u.Fragment),
			}), nil
		},
		"buildURL": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			base := zen.Arg(args, 0).String()
			query := encodeQuery(zen.Arg(args, 1))
			if query == "" {
				return zen.NewString(base), nil
			}
			return zen.NewString(base + "?" + query), nil
		},
		"userAgent": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return zen.NewString(rt.agent), nil
		},
		"setUserAgent": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			rt.agent = stringArg(args, 0, defaultUserAgent)
			return zen.NewBool(true), nil
		},
		"select": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			matches, err := selectHTML(zen.Arg(args, 0).String(), zen.Arg(args, 1).String(), stringArg(args, 2, ""))
			if err != nil {
				return zen.NewNull(), zen.Errorf("select error: %v", err)
			}
			return zen.FromNative(matches), nil
		},
	}
	fns["getUserAgent"] = fns["userAgent"]
	for name, fn := range rt.netChecks() {
		fns[name] = fn
	}
	return object("net", fns, nil), nil
}

func encodeQuery(params zen.Value) string {
	values := url.Values{}
	for key, val := range params.Object() {
		values.Set(key, val.String())
	}
	return values.Encode()
}

// selectHTML returns the trimmed text of every element matching css, or the
// value of attr when one is given. Elements without the attribute are
// skipped.
func selectHTML(html, css, attr string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	out := []string{}
	doc.Find(css).Each(func(_ int, s *goquery.Selection) {
		if attr == "" {
			out = append(out, strings.TrimSpace(s.Text()))
			return
		}
		if val, ok := s.Attr(attr); ok {
			out = append(out, val)
		}
	})
	return out, nil
}
