package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boreksan/trayorders/pkg/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_BindsServiceAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, &config.Config{
		LogLevel:       "info",
		Environment:    config.EnvProduction,
		ServiceName:    "trayorders",
		ServiceVersion: "1.4.0",
	})
	log.Info("order policy", "cutoff", "22:00")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON outside development: %v (%q)", err, buf.String())
	}
	for key, want := range map[string]string{"service": "trayorders", "version": "1.4.0", "env": "production", "cutoff": "22:00"} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %s", key, entry[key], want)
		}
	}
}

func TestNew_DevelopmentUsesText(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, &config.Config{LogLevel: "debug", Environment: config.EnvDevelopment})
	log.Debug("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("expected text handler output, got %q", buf.String())
	}
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes JSON 500", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("oven on fire")
		}))

		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders", http.NoBody))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		if !strings.Contains(rr.Body.String(), `"code":"INTERNAL_SERVER_ERROR"`) {
			t.Errorf("expected JSON error body, got %q", rr.Body.String())
		}
		entry := parseLastLine(t, &buf)
		if entry["panic"] != "oven on fire" {
			t.Errorf("panic = %v", entry["panic"])
		}
		if _, ok := entry["stack"]; !ok {
			t.Error("expected stack in log entry")
		}
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		var buf bytes.Buffer
		h := Recovery(newTestLogger(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		defer func() {
			if rec := recover(); rec != http.ErrAbortHandler { //nolint:errorlint
				t.Errorf("expected ErrAbortHandler to propagate, got %v", rec)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no log output, got %q", buf.String())
			}
		}()
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	})
}
