package availability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/groupsync/groupsync/pkg/groupsync/apperr"
	"github.com/groupsync/groupsync/pkg/groupsync/schedule"
)

func TestFreeSchedulesSuccess(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"schedules":[
			{"day":"Monday","start_hour":8,"end_hour":18},
			{"day":"Tuesday","start_hour":9,"end_hour":12}
		]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	windows, err := client.FreeSchedules(context.Background(), []uint{1, 2}, "Bearer token123")
	if err != nil {
		t.Fatalf("FreeSchedules failed: %v", err)
	}

	if gotPath != "/users/freeSchedules/" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
	if gotQuery != "users=1&users=2" {
		t.Errorf("Unexpected query: %s", gotQuery)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("Authorization header not forwarded: %q", gotAuth)
	}

	if len(windows) != 2 {
		t.Fatalf("Expected 2 windows, got %d", len(windows))
	}
	want := schedule.Window{Day: schedule.Monday, StartHour: 8, EndHour: 18}
	if windows[0] != want {
		t.Errorf("Expected window %v, got %v", want, windows[0])
	}
}

func TestFreeSchedulesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FreeSchedules(context.Background(), []uint{1}, "")

	assertBadGateway(t, err)
}

func TestFreeSchedulesMissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FreeSchedules(context.Background(), []uint{1}, "")

	assertBadGateway(t, err)
}

func TestFreeSchedulesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.FreeSchedules(context.Background(), []uint{1}, "")

	assertBadGateway(t, err)
}

func TestFreeSchedulesUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, time.Second)
	_, err := client.FreeSchedules(context.Background(), []uint{1}, "")

	assertBadGateway(t, err)
}

func assertBadGateway(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error")
	}
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected *apperr.Error, got %T", err)
	}
	if appErr.Kind != apperr.KindBadGateway {
		t.Errorf("Expected BadGateway kind, got %d (%s)", appErr.Kind, appErr.Detail)
	}
}
