package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.Method, r.URL.Query().Get("q"))
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"method": %q, "type": %q, "body": %s}`, r.Method, r.Header.Get("Content-Type"), body)
	})
	mux.HandleFunc("/agent", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("User-Agent")+"|"+r.Header.Get("X-Token"))
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNetRequests(t *testing.T) {
	srv := newEchoServer(t)
	h := newHarness(t, "")
	val := h.eval(t, fmt.Sprintf(`.include <net>
base = %q;
echo = net.postJSON(base + "/echo", {a: 1});
[net.get(base + "/text?q=zen"), net.put(base + "/text", "x"), echo.method, echo.type, echo.body.a,
 net.request("get", base + "/agent", null, {"X-Token": "t1"}), net.getStatus(base + "/missing")];`, srv.URL))
	want := `["GET zen", "PUT ", "POST", "application/json", 1, "ZenLang/1.0.0|t1", 404]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNetErrorStatusFails(t *testing.T) {
	srv := newEchoServer(t)
	h := newHarness(t, "")
	re := h.runtimeError(t, fmt.Sprintf(".include <net>\nnet.get(%q);", srv.URL+"/fail"), "network error")
	if !strings.Contains(re.Message, "500") {
		t.Fatalf("message should carry the status: %q", re.Message)
	}
}

func TestNetURLHelpers(t *testing.T) {
	h := newHarness(t, "")
	val := h.eval(t, `.include <net>
u = net.parseURL("https://example.com:8443/a/b?x=1#top");
[net.urlEncode({b: "two words", a: 1}), net.urlDecode("a=1&b=x%20y").b,
 net.buildURL("http://h/p", {q: "z"}), net.buildURL("http://h/p", {}),
 u.scheme, u.host, u.path, u.query, u.fragment];`)
	want := `["a=1&b=two+words", "x y", "http://h/p?q=z", "http://h/p", "https", "example.com:8443", "/a/b", "x=1", "top"]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNetSelect(t *testing.T) {
	h := newHarness(t, "")
	val := h.eval(t, `.include <net>
page = "<ul><li class='item'> one </li><li class='item'><a href='/two'>two</a></li><li>three</li></ul>";
[net.select(page, "li.item"), net.select(page, "a", "href"), net.select(page, "table")];`)
	want := `[["one", "two"], ["/two"], []]`
	if diff := cmp.Diff(want, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
