package api

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smazurov/procnode/internal/events"
)

func TestSSEConnectionAndEvents(t *testing.T) {
	bus := events.New()
	server := NewServer(&Options{
		AuthUsername: "test",
		AuthPassword: "test",
		Service:      newMockService(),
		EventBus:     bus,
	})

	ts := httptest.NewServer(server.GetMux())
	defer ts.Close()

	// SSE clients cannot set headers, auth rides in the query string
	credentials := base64.StdEncoding.EncodeToString([]byte("test:test"))
	sseURL := fmt.Sprintf("%s/api/events?auth=%s", ts.URL, credentials)

	// Bounded client so a handler that never writes fails the test
	// instead of hanging the package.
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(sseURL)
	if err != nil {
		t.Fatalf("Failed to connect to SSE: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "text/event-stream") {
		t.Fatalf("Expected SSE content type, got %s", resp.Header.Get("Content-Type"))
	}

	// The handler subscribes some time after the request starts and the
	// bus does not replay, so publish repeatedly until a line lands.
	stopPublishing := make(chan struct{})
	defer close(stopPublishing)
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopPublishing:
				return
			case <-ticker.C:
				bus.Publish(events.ProcessStdoutEvent{Name: "worker", Data: "hello from child"})
			}
		}
	}()

	lines := make(chan string, 10)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("SSE stream closed before event arrived")
			}
			if strings.Contains(line, "hello from child") {
				return
			}
		case <-deadline:
			t.Fatal("timeout waiting for SSE event")
		}
	}
}

func TestSSERequiresAuth(t *testing.T) {
	server := NewServer(&Options{
		AuthUsername: "test",
		AuthPassword: "test",
		Service:      newMockService(),
		EventBus:     events.New(),
	})

	ts := httptest.NewServer(server.GetMux())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/events")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Expected status 401, got %d", resp.StatusCode)
	}
}
