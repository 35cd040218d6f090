package http

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
)

// readEvent returns the next "event:" name and its data line.
func readEvent(t *testing.T, lines <-chan string) (string, string) {
	t.Helper()
	var name string
	timeout := time.After(5 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				return name, strings.TrimPrefix(line, "data: ")
			}
		case <-timeout:
			t.Fatal("timed out waiting for stream event")
		}
	}
}

func TestStreamRoute_DeliversEmployeeEvents(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.server.URL+"/api/v1/events?employee_id=emp-1", nil)
	require.NoError(t, err)

	resp, err := s.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	name, data := readEvent(t, lines)
	assert.Equal(t, "connected", name)
	assert.Contains(t, data, `"employee_id":"emp-1"`)
	require.Eventually(t, func() bool { return s.hub.SubscriberCount("emp-1") == 1 }, time.Second, 10*time.Millisecond)

	status, _ := s.do(t, http.MethodPost, "/api/v1/attendances/check-in", `{"employee_id":"emp-2","time":"2024-01-15T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.do(t, http.MethodPost, "/api/v1/attendances/check-in", `{"employee_id":"emp-1","time":"2024-01-15T08:30:00Z"}`)
	require.Equal(t, http.StatusOK, status)

	name, data = readEvent(t, lines)
	assert.Equal(t, event.ChannelCheckIn, name)
	assert.Contains(t, data, `"employee_id":"emp-1"`)
}

func TestStreamRoute_RequiresEmployee(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/v1/events", "")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
