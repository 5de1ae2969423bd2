package stdlib

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newCheckServer(t *testing.T, flakyFailures int64) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	mux.HandleFunc("/ip", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ip": "203.0.113.7"}`)
	})
	mux.HandleFunc("/fail", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= flakyFailures {
			http.Error(w, "try again", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "recovered")
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		f, header, err := r.FormFile("doc")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		fmt.Fprintf(w, "%s|%s|%s", header.Filename, header.Header.Get("Content-Type"), body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestNetReachability(t *testing.T) {
	srv, _ := newCheckServer(t, 0)
	h := newHarness(t, "")
	h.rt.onlineURL = srv.URL + "/ok"
	host := strings.TrimPrefix(srv.URL, "http://")
	val := h.eval(t, fmt.Sprintf(`.include <net>
[net.isOnline(), net.ping(%q), net.ping(%q), net.ping(%q), net.ping("127.0.0.1:1", 1)];`,
		srv.URL+"/ok", host+"/ok", srv.URL+"/missing"))
	if diff := cmp.Diff("[true, true, true, false, false]", val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	h.rt.onlineURL = srv.URL + "/fail"
	if h.eval(t, ".include <net>\nnet.isOnline();").Bool() {
		t.Fatalf("a failing status should report offline")
	}
}

func TestNetGetIP(t *testing.T) {
	srv, _ := newCheckServer(t, 0)
	h := newHarness(t, "")
	h.rt.ipURL = srv.URL + "/ip"
	if got := h.eval(t, ".include <net>\nnet.getIP();").String(); got != "203.0.113.7" {
		t.Fatalf("getIP = %q", got)
	}
	h.rt.ipURL = srv.URL + "/fail"
	if got := h.eval(t, ".include <net>\nnet.getIP();").String(); got != "" {
		t.Fatalf("getIP on failure = %q, want empty", got)
	}
}

func TestNetFetchWithRetry(t *testing.T) {
	srv, hits := newCheckServer(t, 2)
	h := newHarness(t, "")
	val := h.eval(t, fmt.Sprintf(".include <net>\nnet.fetchWithRetry(%q, 3, 0.01);", srv.URL+"/flaky"))
	if val.String() != "recovered" {
		t.Fatalf("fetchWithRetry = %q", val.String())
	}
	if hits.Load() != 3 {
		t.Fatalf("attempts = %d, want 3", hits.Load())
	}
	re := h.runtimeError(t, fmt.Sprintf(".include <net>\nnet.fetchWithRetry(%q, 2, 0);", srv.URL+"/fail"), "network error after 2 attempts")
	if !strings.Contains(re.Message, "503") {
		t.Fatalf("message should carry the last status: %q", re.Message)
	}
}

func TestNetUploadFile(t *testing.T) {
	srv, _ := newCheckServer(t, 0)
	h := newHarness(t, "")
	path := filepath.Join(h.dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	val := h.eval(t, fmt.Sprintf(".include <net>\nnet.uploadFile(%q, %s, \"doc\");", srv.URL+"/upload", q(path)))
	if diff := cmp.Diff("notes.txt|text/plain; charset=utf-8|hello", val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	h.runtimeError(t, fmt.Sprintf(".include <net>\nnet.uploadFile(%q, %s);", srv.URL+"/upload", q(path)), "upload error")
	h.runtimeError(t, fmt.Sprintf(".include <net>\nnet.uploadFile(%q, %s);", srv.URL+"/upload", q(filepath.Join(h.dir, "gone"))), "upload error")
}

func TestNetSetUserAgent(t *testing.T) {
	srv := newEchoServer(t)
	h := newHarness(t, "")
	val := h.eval(t, fmt.Sprintf(`.include <net>
before = net.getUserAgent();
net.setUserAgent("bot/2");
[before, net.get(%q), net.userAgent()];`, srv.URL+"/agent"))
	if diff := cmp.Diff(`["ZenLang/1.0.0", "bot/2|", "bot/2"]`, val.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}
