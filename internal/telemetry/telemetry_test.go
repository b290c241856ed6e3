package telemetry

import (
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/go-cmp/cmp"
	"github.com/posthog/posthog-go"
)

// captureLogger points Logger at a buffer for the duration of the test
func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := Logger
	Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { Logger = old })
	return &buf
}

// TestClientFailuresStayOffStderr verifies that a failing PostHog endpoint
// writes nothing to stderr, which would corrupt the TUI display.
func TestClientFailuresStayOffStderr(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("simulated failure"))
	}))
	defer server.Close()

	captureLogger(t)
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w

	c, err := posthog.NewWithConfig("test-key", posthog.Config{
		Endpoint:  server.URL,
		Logger:    posthogLogger{},
		BatchSize: 1,
	})
	if err != nil {
		os.Stderr = oldStderr
		t.Fatalf("failed to create client: %v", err)
	}
	c.Enqueue(posthog.Capture{DistinctId: "test-user", Event: "test-event"})
	c.Close()

	w.Close()
	os.Stderr = oldStderr
	var stderr bytes.Buffer
	io.Copy(&stderr, r)
	r.Close()

	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want nothing", stderr.String())
	}
}

func TestPosthogLoggerLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(format string, args ...any)
		want string
	}{
		{"debug", posthogLogger{}.Debugf, `level=DEBUG msg="batch 3" source=posthog`},
		{"info", posthogLogger{}.Logf, `level=INFO msg="batch 3" source=posthog`},
		{"warn", posthogLogger{}.Warnf, `level=WARN msg="batch 3" source=posthog`},
		{"error", posthogLogger{}.Errorf, `level=ERROR msg="batch 3" source=posthog`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogger(t)
			tt.log("batch %d", 3)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestIsDisabled(t *testing.T) {
	oldKey := key
	defer func() { key = oldKey }()

	tests := []struct {
		name       string
		key        string
		disabled   string
		doNotTrack string
		want       bool
	}{
		{"no key", "", "", "", true},
		{"enabled", "phc_test", "", "", false},
		{"opted out", "phc_test", "1", "", true},
		{"do not track", "phc_test", "", "true", true},
		{"unparsable flag", "phc_test", "maybe", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key = tt.key
			t.Setenv("VLIST_TELEMETRY_DISABLED", tt.disabled)
			t.Setenv("DO_NOT_TRACK", tt.doNotTrack)
			if got := isDisabled(); got != tt.want {
				t.Errorf("isDisabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProperties(t *testing.T) {
	buf := captureLogger(t)

	p := properties("layout_type", "waterfall", "item_count", 60)
	if p["layout_type"] != "waterfall" || p["item_count"] != 60 {
		t.Errorf("properties() = %v", p)
	}
	if got := properties("dangling"); len(got) != 0 {
		t.Errorf("properties(odd) = %v, want empty", got)
	}
	if got := properties(7, "seven", "ok", true); len(got) != 1 || got["ok"] != true {
		t.Errorf("properties(non-string key) = %v, want only ok", got)
	}
	if n := strings.Count(buf.String(), "level=ERROR"); n != 2 {
		t.Errorf("logged %d errors, want 2:\n%s", n, buf.String())
	}
}

var errInvalidDiff = errors.New("invalid diff")

func TestExceptionList(t *testing.T) {
	err := fmt.Errorf("load /home/me/secret.yaml: %w", fmt.Errorf("step 3: %w", errInvalidDiff))
	want := []map[string]string{
		{"type": "*fmt.wrapError"},
		{"type": "*fmt.wrapError"},
		{"type": "*errors.errorString", "value": "invalid diff"},
	}
	if diff := cmp.Diff(want, exceptionList(err)); diff != "" {
		t.Errorf("exceptionList() (-want +got):\n%s", diff)
	}
}

func TestSendWithoutClientIsNoop(t *testing.T) {
	old := client
	client = nil
	defer func() { client = old }()

	ScenarioRun("single", "sync", 20, 4, 0, time.Second)
	Error(errors.New("boom"))
	Flush()
}

func TestEventsReachServer(t *testing.T) {
	bodies := make(chan string, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body io.Reader = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			if err == nil {
				body = zr
			}
		}
		data, _ := io.ReadAll(body)
		bodies <- string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c, err := posthog.NewWithConfig("test-key", posthog.Config{
		Endpoint:  server.URL,
		Logger:    posthogLogger{},
		BatchSize: 1,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	old := client
	client = c
	distinctId = "test-machine"
	defer func() { client = old }()

	ScenarioRun("waterfall", "deferred", 60, 4, 1, 1500*time.Millisecond)
	Error(fmt.Errorf("run: %w", errInvalidDiff), "command", "run")
	Flush()

	var all strings.Builder
	timeout := time.After(5 * time.Second)
	for !strings.Contains(all.String(), "$exception") || !strings.Contains(all.String(), "scenario_run") {
		select {
		case body := <-bodies:
			all.WriteString(body)
		case <-timeout:
			t.Fatalf("events missing from requests: %s", all.String())
		}
	}
	for _, want := range []string{"waterfall", "test-machine", "invalid diff"} {
		if !strings.Contains(all.String(), want) {
			t.Errorf("requests do not contain %q: %s", want, all.String())
		}
	}
	if client != nil {
		t.Errorf("client still set after Flush")
	}
}

func TestDistinctIdIsStable(t *testing.T) {
	a, b := getDistinctId(), getDistinctId()
	if a == "" {
		t.Fatalf("getDistinctId() is empty")
	}
	if _, err := machineid.ProtectedID("vlist"); err == nil && a != b {
		t.Errorf("getDistinctId() = %q then %q, want a stable id", a, b)
	}
}
