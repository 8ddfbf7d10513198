package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestInterestAPI_Add_ReportsResultingMembership(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/interests", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/interests/check/e1", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"interested": true})
	})

	client, _, _ := newTestClient(t, mux)
	api := NewInterestAPI(client)

	interested, err := api.Add(context.Background(), "e1")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !interested {
		t.Fatalf("expected membership after add")
	}
}

func TestInterestAPI_Remove_DetectsDisagreement(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/interests/event/e1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/interests/check/e1", func(w http.ResponseWriter, _ *http.Request) {
		// Backend still reports the event as interested.
		_ = json.NewEncoder(w).Encode(map[string]bool{"interested": true})
	})

	client, _, _ := newTestClient(t, mux)
	api := NewInterestAPI(client)

	interested, err := api.Remove(context.Background(), "e1")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !interested {
		t.Fatalf("expected the lingering membership to be reported")
	}
}

func TestInterestAPI_Mine_AcceptsWrappedShape(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"event":{"id":"e1","title":"One"}},{"event":{"id":"e2","title":"Two"}}]`))
	}))
	api := NewInterestAPI(client)

	events, err := api.Mine(context.Background())
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if len(events) != 2 || events[0].ID != "e1" || events[1].Title != "Two" {
		t.Fatalf("wrapped shape not decoded: %+v", events)
	}
}

func TestInterestAPI_Mine_AcceptsBareShape(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"e1","title":"One"}]`))
	}))
	api := NewInterestAPI(client)

	events, err := api.Mine(context.Background())
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if len(events) != 1 || events[0].ID != "e1" {
		t.Fatalf("bare shape not decoded: %+v", events)
	}
}

func TestInterestAPI_Mine_EmptyList(t *testing.T) {
	client, _, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	api := NewInterestAPI(client)

	events, err := api.Mine(context.Background())
	if err != nil {
		t.Fatalf("mine failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty list, got %+v", events)
	}
}
