package stdlib

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

// netChecks holds the reachability, retry and upload members of net.
func (rt *Runtime) netChecks() funcs {
	return funcs{
		"isOnline": func(in *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return rt.reachable(in, http.MethodGet, rt.onlineURL, 2*time.Second, false)
		},
		"ping": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			target := zen.Arg(args, 0).String()
			if !strings.HasPrefix(target, "http") {
				target = "http://" + target
			}
			timeout := 2 * time.Second
			if v := zen.Arg(args, 1); !v.IsNull() {
				timeout = time.Duration(v.Float() * float64(time.Second))
			}
			return rt.reachable(in, http.MethodHead, target, timeout, true)
		},
		"fetchWithRetry": rt.fetchWithRetry,
		"getIP": func(in *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			res, err := rt.do(in.Context(), http.MethodGet, rt.ipURL, zen.NewNull(), zen.NewNull(), false)
			if err != nil {
				if ctxErr := in.Context().Err(); ctxErr != nil {
					return zen.NewNull(), ctxErr
				}
				return zen.NewString(""), nil
			}
			var payload struct {
				IP string `json:"ip"`
			}
			if err := json.Unmarshal(res.body, &payload); err != nil {
				return zen.NewString(""), nil
			}
			return zen.NewString(payload.IP), nil
		},
		"uploadFile": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			body, err := rt.upload(in.Context(), zen.Arg(args, 0).String(), zen.Arg(args, 1).String(), stringArg(args, 2, "file"))
			if err != nil {
				if zen.IsInterrupt(err) {
					return zen.NewNull(), err
				}
				return zen.NewNull(), zen.Errorf("upload error: %v", err)
			}
			return zen.NewString(body), nil
		},
	}
}

// reachable reports whether a request to target succeeds within timeout.
// With exact set only a 200 counts. Only cancellation of the evaluation
// itself is an error.
func (rt *Runtime) reachable(in *zen.Interpreter, method, target string, timeout time.Duration, exact bool) (zen.Value, error) {
	ctx, cancel := context.WithTimeout(in.Context(), timeout)
	defer cancel()
	res, err := rt.do(ctx, method, target, zen.NewNull(), zen.NewNull(), exact)
	if err != nil {
		if ctxErr := in.Context().Err(); ctxErr != nil {
			return zen.NewNull(), ctxErr
		}
		return zen.NewBool(false), nil
	}
	return zen.NewBool(!exact || res.status == http.StatusOK), nil
}

// fetchWithRetry GETs url up to retries times (default 3), sleeping delay
// seconds (default 1) between attempts.
func (rt *Runtime) fetchWithRetry(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
	target := zen.Arg(args, 0).String()
	retries := max(intArg(args, 1, 3), 1)
	delay := time.Second
	if v := zen.Arg(args, 2); !v.IsNull() {
		delay = time.Duration(v.Float() * float64(time.Second))
	}
	var lastErr error
	for attempt := int64(1); attempt <= retries; attempt++ {
		res, err := rt.do(in.Context(), http.MethodGet, target, zen.NewNull(), zen.NewNull(), false)
		if err == nil {
			return zen.NewString(string(res.body)), nil
		}
		if ctxErr := in.Context().Err(); ctxErr != nil {
			return zen.NewNull(), ctxErr
		}
		lastErr = err
		rt.log.Debug().Str("url", target).Int64("attempt", attempt).Err(err).Msg("fetch failed")
		if attempt < retries {
			if err := rt.sleep(in, delay); err != nil {
				return zen.NewNull(), err
			}
		}
	}
	return zen.NewNull(), zen.Errorf("network error after %d attempts: %v", retries, lastErr)
}

// upload posts the file at path as a multipart form field and returns the
// response body.
func (rt *Runtime) upload(ctx context.Context, target, path, field string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filepath.Base(path)))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, bytes.NewReader(data)); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	res, err := rt.send(req, false)
	if err != nil {
		return "", err
	}
	return string(res.body), nil
}
