package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/arjunv/mudra/internal/gesturestore"
	"github.com/arjunv/mudra/internal/hand"
	"github.com/arjunv/mudra/internal/vec"
)

func TestAPI_GestureWorkflow(t *testing.T) {
	s, _ := gesturestore.New(filepath.Join(t.TempDir(), "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	frames := []hand.Hand{hand.Assemble([]hand.Fingertip{{Position: vec.Vector{X: 1, Y: 2, Z: 3}}})}
	frames = append(frames, frames...)
	frames = append(frames, frames...)
	frames = append(frames, frames...) // 8 frames

	body, _ := json.Marshal(struct {
		Name   string      `json:"name"`
		Frames []hand.Hand `json:"frames"`
	}{Name: "test-gesture", Frames: frames})

	resp, err := client.Post(ts.URL+"/api/gestures", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/gestures error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Name != "test-gesture" {
		t.Errorf("created name = %s, want test-gesture", created.Name)
	}

	resp, _ = client.Get(ts.URL + "/api/gestures")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/gestures status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Gestures []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"gestures"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Gestures) != 1 {
		t.Fatalf("len(gestures) = %d, want 1", len(listed.Gestures))
	}

	resp, _ = client.Get(ts.URL + "/api/gestures/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/gestures/%s status = %d, want %d", created.ID, resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/gestures/"+created.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/gestures/" + created.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestAPI_ActionWorkflow(t *testing.T) {
	s, _ := gesturestore.New(filepath.Join(t.TempDir(), "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	rec, err := s.Gestures().Create("wave", []hand.Hand{hand.Assemble(nil), hand.Assemble(nil)})
	if err != nil {
		t.Fatalf("failed to seed gesture: %v", err)
	}

	body, _ := json.Marshal(struct {
		GestureID  string `json:"gesture_id"`
		PluginName string `json:"plugin_name"`
		ActionName string `json:"action_name"`
	}{GestureID: rec.ID, PluginName: "lights", ActionName: "toggle"})

	resp, err := client.Post(ts.URL+"/api/actions", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/actions error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	resp.Body.Close()
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
