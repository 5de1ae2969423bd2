package stdlib

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kr1shnaakhurana/zenlang/zen"
)

type webRoute struct {
	method   string
	pattern  string
	segments []string
	handler  zen.Value
}

type staticDir struct {
	prefix string
	root   string
}

// webState is shared by zenweb and its http alias.
type webState struct {
	routes    []webRoute
	templates map[string]string
	files     map[string]string
	dirs      []staticDir
	current   zen.Value
}

func newWebState() *webState {
	return &webState{
		templates: make(map[string]string),
		files:     make(map[string]string),
		current:   zen.NewNull(),
	}
}

// sendFile serves content registered with static, typed by the path's
// extension.
func sendFile(c *fiber.Ctx, path, content string) error {
	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "text/plain; charset=utf-8"
	}
	c.Set(fiber.HeaderContentType, ctype)
	return c.SendString(content)
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (ws *webState) add(method, pattern string, handler zen.Value) {
	r := webRoute{method: method, pattern: pattern, segments: splitPath(pattern), handler: handler}
	for i, existing := range ws.routes {
		if existing.method == method && existing.pattern == pattern {
			ws.routes[i] = r
			return
		}
	}
	ws.routes = append(ws.routes, r)
}

// match prefers an exact path over `:param` patterns. Routes registered
// with an empty method accept any method.
func (ws *webState) match(method, path string) (zen.Value, map[string]string, bool) {
	for _, r := range ws.routes {
		if (r.method == "" || r.method == method) && r.pattern == path {
			return r.handler, map[string]string{}, true
		}
	}
	parts := splitPath(path)
	for _, r := range ws.routes {
		if r.method != "" && r.method != method {
			continue
		}
		if !strings.Contains(r.pattern, ":") || len(r.segments) != len(parts) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i, seg := range r.segments {
			if strings.HasPrefix(seg, ":") {
				params[seg[1:]] = parts[i]
				continue
			}
			if seg != parts[i] {
				ok = false
				break
			}
		}
		if ok {
			return r.handler, params, true
		}
	}
	return zen.NewNull(), nil, false
}

// requestValue snapshots the fiber request as a script object.
func requestValue(c *fiber.Ctx, params map[string]string) zen.Value {
	headers := map[string]string{}
	for key, vals := range c.GetReqHeaders() {
		if len(vals) > 0 {
			headers[key] = vals[0]
		}
	}
	body := string(c.Body())
	data := zen.NewObject(nil)
	if body != "" {
		if decoded, err := zen.DecodeJSON(body); err == nil {
			data = decoded
		} else if form, err := url.ParseQuery(body); err == nil {
			out := map[string]string{}
			for key := range form {
				out[key] = form.Get(key)
			}
			data = zen.FromNative(out)
		}
	}
	return zen.NewObject(map[string]zen.Value{
		"method":  zen.NewString(c.Method()),
		"path":    zen.NewString(c.Path()),
		"query":   zen.FromNative(c.Queries()),
		"params":  zen.FromNative(params),
		"headers": zen.FromNative(headers),
		"body":    zen.NewString(body),
		"data":    data,
	})
}

// send writes a handler result: strings as HTML, objects and arrays as
// JSON, null as an empty body.
func send(c *fiber.Ctx, result zen.Value) error {
	switch result.Kind() {
	case zen.KindNull:
		return c.SendString("")
	case zen.KindObject, zen.KindArray, zen.KindInstance:
		return c.JSON(zen.ToNative(result))
	default:
		c.Set(fiber.HeaderContentType, "text/html; charset=utf-8")
		return c.SendString(result.String())
	}
}

// webApp builds the fiber app dispatching to the registered routes.
// Directories registered with staticDir are served first; routes win over
// in-memory static files.
func (rt *Runtime) webApp(in *zen.Interpreter) *fiber.App {
	app := newApp()
	for _, d := range rt.web.dirs {
		app.Static(d.prefix, d.root)
	}
	app.Use(func(c *fiber.Ctx) error {
		var (
			result zen.Value
			found  bool
			file   string
			isFile bool
		)
		err := rt.Do(func() error {
			handler, params, ok := rt.web.match(c.Method(), c.Path())
			if !ok {
				if c.Method() == http.MethodGet || c.Method() == http.MethodHead {
					file, isFile = rt.web.files[c.Path()]
				}
				return nil
			}
			found = true
			req := requestValue(c, params)
			rt.web.current = req
			defer func() { rt.web.current = zen.NewNull() }()
			var err error
			result, err = in.Call(rt.ctx, handler, req)
			return err
		})
		switch {
		case err != nil:
			rt.log.Error().Str("method", c.Method()).Str("path", c.Path()).Err(err).Msg("handler failed")
			if zen.IsInterrupt(err) {
				return c.Status(http.StatusServiceUnavailable).SendString("Service Unavailable")
			}
			return c.Status(http.StatusInternalServerError).SendString("Internal Server Error: " + err.Error())
		case isFile:
			return sendFile(c, c.Path(), file)
		case !found:
			return c.Status(http.StatusNotFound).SendString("Not Found")
		}
		return send(c, result)
	})
	return app
}

func (rt *Runtime) startWeb(in *zen.Interpreter, port int) (*server, error) {
	s, err := rt.serve(rt.webApp(in), port)
	if err != nil {
		return nil, zen.Errorf("server start error: %v", err)
	}
	fmt.Fprintf(in.Stdout(), "ZenWeb server running on http://localhost:%d\n", s.port)
	fmt.Fprintln(in.Stdout(), "Press Ctrl+C to stop")
	return s, nil
}

func (rt *Runtime) serverValue(s *server) zen.Value {
	return zen.NewObject(map[string]zen.Value{
		"port": zen.NewInt(int64(s.port)),
		"url":  zen.NewString(fmt.Sprintf("http://localhost:%d", s.port)),
		"stop": zen.NewBuiltin("server.stop", func(in *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			rt.stopServer(in, s)
			return zen.NewNull(), nil
		}),
	})
}

func (rt *Runtime) stopServer(in *zen.Interpreter, s *server) {
	rt.blocking(func() { s.shutdown(in.Context()) })
}

func (rt *Runtime) register(method string) zen.BuiltinFunc {
	return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
		handler := zen.Arg(args, 1)
		if !handler.IsCallable() {
			return zen.NewNull(), zen.NewError(zen.ErrType, "route handler must be a function, got %s", handler.TypeName())
		}
		rt.web.add(method, zen.Arg(args, 0).String(), handler)
		return handler, nil
	}
}

func (rt *Runtime) currentField(name string) zen.Value {
	return rt.web.current.Object()[name]
}

func lookupOr(fields map[string]zen.Value, key string, def zen.Value) zen.Value {
	if v, ok := fields[key]; ok {
		return v
	}
	return def
}

func (rt *Runtime) loadZenweb(_ *zen.Interpreter) (zen.Value, error) {
	fns := funcs{
		"route":  rt.register(""),
		"get":    rt.register(http.MethodGet),
		"post":   rt.register(http.MethodPost),
		"put":    rt.register(http.MethodPut),
		"delete": rt.register(http.MethodDelete),
		"start": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			s, err := rt.startWeb(in, int(intArg(args, 0, 8080)))
			if err != nil {
				return zen.NewNull(), err
			}
			return rt.serverValue(s), nil
		},
		"stop": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			if s := rt.serverByPort(int(zen.Arg(args, 0).Object()["port"].Int())); s != nil {
				rt.stopServer(in, s)
			}
			return zen.NewNull(), nil
		},
		"listen": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			s, err := rt.startWeb(in, int(intArg(args, 0, 8080)))
			if err != nil {
				return zen.NewNull(), err
			}
			ctx := in.Context()
			rt.blocking(func() {
				select {
				case <-ctx.Done():
					err = ctx.Err()
				case <-s.done:
				}
			})
			return zen.NewNull(), err
		},
		"request": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return rt.web.current, nil
		},
		"getQuery": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return lookupOr(rt.currentField("query").Object(), zen.Arg(args, 0).String(), zen.Arg(args, 1)), nil
		},
		"getData": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return lookupOr(rt.currentField("data").Object(), zen.Arg(args, 0).String(), zen.Arg(args, 1)), nil
		},
		"getParam": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return lookupOr(rt.currentField("params").Object(), zen.Arg(args, 0).String(), zen.Arg(args, 1)), nil
		},
		"getPath": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return lookupOr(rt.web.current.Object(), "path", zen.NewString("/")), nil
		},
		"getMethod": func(_ *zen.Interpreter, _ []zen.Value) (zen.Value, error) {
			return lookupOr(rt.web.current.Object(), "method", zen.NewString(http.MethodGet)), nil
		},
		"static": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			rt.web.files["/"+strings.TrimPrefix(zen.Arg(args, 0).String(), "/")] = zen.Arg(args, 1).String()
			return zen.NewNull(), nil
		},
		"staticDir": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			root := zen.Arg(args, 1).String()
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return zen.NewNull(), zen.Errorf("static directory not found: %s", root)
			}
			rt.web.dirs = append(rt.web.dirs, staticDir{prefix: stringArg(args, 0, "/"), root: root})
			return zen.NewBool(true), nil
		},
		"template": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			rt.web.templates[zen.Arg(args, 0).String()] = zen.Arg(args, 1).String()
			return zen.NewNull(), nil
		},
		"render": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			name := zen.Arg(args, 0).String()
			content, ok := rt.web.templates[name]
			if !ok {
				return zen.NewString(fmt.Sprintf("Template '%s' not found", name)), nil
			}
			for key, val := range zen.Arg(args, 1).Object() {
				content = strings.ReplaceAll(content, "{{"+key+"}}", val.String())
			}
			return zen.NewString(content), nil
		},
	}
	for name, fn := range htmlBuilders() {
		fns[name] = fn
	}
	return object("zenweb", fns, nil), nil
}

func (rt *Runtime) loadWeb(_ *zen.Interpreter) (zen.Value, error) {
	return object("web", funcs{
		"server": func(in *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			callback := zen.Arg(args, 1)
			app := newApp()
			app.Get("/*", func(c *fiber.Ctx) error {
				c.Set(fiber.HeaderContentType, "text/html")
				if !callback.IsCallable() {
					return c.SendString("Hello from ZenLang!")
				}
				out, err := rt.invoke(in, callback)
				if err != nil {
					rt.log.Error().Str("path", c.Path()).Err(err).Msg("response callback failed")
					return c.Status(http.StatusInternalServerError).SendString("Internal Server Error")
				}
				return c.SendString(out.String())
			})
			s, err := rt.serve(app, int(intArg(args, 0, 8080)))
			if err != nil {
				return zen.NewNull(), zen.Errorf("server start error: %v", err)
			}
			fmt.Fprintf(in.Stdout(), "ZenLang web server running on http://localhost:%d\n", s.port)
			return rt.serverValue(s), nil
		},
		"response": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(zen.Arg(args, 0).String()), nil
		},
	}, nil), nil
}

// attrString renders attributes in key order.
func attrString(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, k, attrs[k])
	}
	return b.String()
}

func attrsOf(v zen.Value) map[string]string {
	out := map[string]string{}
	for k, val := range v.Object() {
		out[k] = val.String()
	}
	return out
}

func tag(name, content string, attrs map[string]string) string {
	if content == "" {
		return fmt.Sprintf("<%s%s />", name, attrString(attrs))
	}
	return fmt.Sprintf("<%s%s>%s</%s>", name, attrString(attrs), content, name)
}

func listItems(items zen.Value) string {
	var b strings.Builder
	for _, item := range items.Elements() {
		b.WriteString("<li>" + item.String() + "</li>")
	}
	return b.String()
}

const documentHead = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>%s
</head>
<body>
%s
</body>
</html>`

const pageStyle = `
    <style>
        body { font-family: Arial, sans-serif; max-width: 1200px; margin: 0 auto; padding: 20px; background: #f5f5f5; }
        .container { background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #333; }
        %s
    </style>`

func str(args []zen.Value, i int) string { return stringArg(args, i, "") }

func htmlBuilders() funcs {
	simple := func(name string) zen.BuiltinFunc {
		return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(tag(name, str(args, 0), attrsOf(zen.Arg(args, 1)))), nil
		}
	}
	withAttr := func(name string, set func(args []zen.Value, attrs map[string]string), content func(args []zen.Value) string) zen.BuiltinFunc {
		return func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			attrs := attrsOf(zen.Arg(args, 2))
			set(args, attrs)
			return zen.NewString(tag(name, content(args), attrs)), nil
		}
	}
	fns := funcs{
		"tag": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(tag(str(args, 0), str(args, 1), attrsOf(zen.Arg(args, 2)))), nil
		},
		"html": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(fmt.Sprintf(documentHead, "ZenWeb App", "", str(args, 0))), nil
		},
		"page": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			body := `    <div class="container">` + "\n" + str(args, 1) + "\n    </div>"
			return zen.NewString(fmt.Sprintf(documentHead, str(args, 0), fmt.Sprintf(pageStyle, str(args, 2)), body)), nil
		},
		"a": withAttr("a", func(args []zen.Value, attrs map[string]string) {
			attrs["href"] = str(args, 0)
		}, func(args []zen.Value) string { return str(args, 1) }),
		"img": withAttr("img", func(args []zen.Value, attrs map[string]string) {
			attrs["src"], attrs["alt"] = str(args, 0), str(args, 1)
		}, func([]zen.Value) string { return "" }),
		"input": withAttr("input", func(args []zen.Value, attrs map[string]string) {
			attrs["type"], attrs["name"] = stringArg(args, 0, "text"), str(args, 1)
		}, func([]zen.Value) string { return "" }),
		"form": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			attrs := attrsOf(zen.Arg(args, 3))
			attrs["action"], attrs["method"] = str(args, 0), stringArg(args, 1, http.MethodPost)
			return zen.NewString(tag("form", str(args, 2), attrs)), nil
		},
		"ul": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(tag("ul", listItems(zen.Arg(args, 0)), attrsOf(zen.Arg(args, 1)))), nil
		},
		"ol": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(tag("ol", listItems(zen.Arg(args, 0)), attrsOf(zen.Arg(args, 1)))), nil
		},
		"table": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			var b strings.Builder
			b.WriteString("<thead><tr>")
			for _, h := range zen.StringList(zen.Arg(args, 0)) {
				b.WriteString("<th>" + h + "</th>")
			}
			b.WriteString("</tr></thead><tbody>")
			for _, row := range zen.Arg(args, 1).Elements() {
				b.WriteString("<tr>")
				for _, cell := range zen.StringList(row) {
					b.WriteString("<td>" + cell + "</td>")
				}
				b.WriteString("</tr>")
			}
			b.WriteString("</tbody>")
			return zen.NewString(tag("table", b.String(), attrsOf(zen.Arg(args, 2)))), nil
		},
		"style": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString("<style>" + str(args, 0) + "</style>"), nil
		},
		"script": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString("<script>" + str(args, 0) + "</script>"), nil
		},
		"css": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			props := attrsOf(zen.Arg(args, 1))
			keys := zen.ObjectKeys(zen.Arg(args, 1))
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = k + ": " + props[k]
			}
			return zen.NewString(fmt.Sprintf("%s { %s }", str(args, 0), strings.Join(parts, "; "))), nil
		},
		"card": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(fmt.Sprintf(`<div class="card"><h3>%s</h3><div class="card-content">%s</div></div>`, str(args, 0), str(args, 1))), nil
		},
		"navbar": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			var b strings.Builder
			b.WriteString(`<nav class="navbar">`)
			for _, item := range zen.Arg(args, 0).Elements() {
				pair := item.Elements()
				if len(pair) < 2 {
					continue
				}
				fmt.Fprintf(&b, `<a href="%s">%s</a>`, pair[1].String(), pair[0].String())
			}
			b.WriteString(`</nav>`)
			return zen.NewString(b.String()), nil
		},
		"json_response": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			text, err := zen.EncodeJSON(zen.Arg(args, 0))
			if err != nil {
				return zen.NewNull(), zen.Errorf("json_response: %v", err)
			}
			return zen.NewString(text), nil
		},
		"redirect": func(_ *zen.Interpreter, args []zen.Value) (zen.Value, error) {
			return zen.NewString(fmt.Sprintf("<script>window.location.href='%s';</script>", str(args, 0))), nil
		},
	}
	for _, name := range []string{"div", "p", "h1", "h2", "h3", "span", "button"} {
		fns[name] = simple(name)
	}
	return fns
}
