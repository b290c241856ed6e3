package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"

	"github.com/posthog/posthog-go"

	"github.com/juanibiapina/vlist/internal/version"
)

const endpoint = "https://eu.i.posthog.com"

// key is the PostHog project key, set at build time with
// -ldflags "-X github.com/juanibiapina/vlist/internal/telemetry.key=...".
// Telemetry is off without one.
var key = ""

var (
	client     posthog.Client
	distinctId string

	baseProps = posthog.NewProperties().
			Set("goos", runtime.GOOS).
			Set("goarch", runtime.GOARCH).
			Set("term", os.Getenv("TERM")).
			Set("shell", filepath.Base(os.Getenv("SHELL"))).
			Set("version", version.Version).
			Set("go_version", runtime.Version()).
			Set("num_cpu", runtime.NumCPU())
)

// Init starts the client unless telemetry is disabled
func Init() {
	if isDisabled() {
		return
	}
	c, err := posthog.NewWithConfig(key, posthog.Config{
		Endpoint: endpoint,
		Logger:   posthogLogger{},
	})
	if err != nil {
		Logger.Error("failed to initialize PostHog client", "error", err)
		return
	}
	client = c
	distinctId = getDistinctId()
}

func isDisabled() bool {
	if key == "" {
		return true
	}
	if v, _ := strconv.ParseBool(os.Getenv("VLIST_TELEMETRY_DISABLED")); v {
		return true
	}
	if v, _ := strconv.ParseBool(os.Getenv("DO_NOT_TRACK")); v {
		return true
	}
	return false
}

func send(event string, props ...any) {
	if client == nil {
		return
	}
	err := client.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties(props...).Merge(baseProps),
	})
	if err != nil {
		Logger.Error("failed to enqueue PostHog event", "event", event, "error", err)
	}
}

// Error reports a failed command. Every link of the wrap chain is listed by
// type; only the innermost message is sent, since outer messages can carry
// file paths and scenario content.
func Error(err error, props ...any) {
	if client == nil || err == nil {
		return
	}
	send("$exception", append([]any{"$exception_list", exceptionList(err)}, props...)...)
}

func exceptionList(err error) []map[string]string {
	var list []map[string]string
	root := err
	for e := err; e != nil; e = errors.Unwrap(e) {
		list = append(list, map[string]string{"type": reflect.TypeOf(e).String()})
		root = e
	}
	list[len(list)-1]["value"] = root.Error()
	return list
}

// Flush sends queued events and closes the client
func Flush() {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		Logger.Error("failed to flush PostHog events", "error", err)
	}
	client = nil
}

// properties turns key-value pairs into PostHog properties. Malformed pairs
// are logged and dropped.
func properties(pairs ...any) posthog.Properties {
	p := posthog.NewProperties()
	if len(pairs)%2 != 0 {
		Logger.Error("event properties must be key-value pairs", "pairs", len(pairs))
		return p
	}
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			Logger.Error("event property key is not a string", "key", pairs[i])
			continue
		}
		p = p.Set(k, pairs[i+1])
	}
	return p
}
