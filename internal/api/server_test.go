package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cwirth/forcelayout/pkg/graph"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

func testServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return NewServer(runner, logger)
}

func testRequestBody(t *testing.T) []byte {
	t.Helper()
	req := LayoutRequest{
		Graph: graph.Document{
			Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			Edges: []graph.Link{
				{Source: "a", Target: "b"},
				{Source: "b", Target: "c"},
			},
		},
		Options: pipeline.Options{
			Iterations: 10,
			Formats:    []string{pipeline.FormatJSON},
		},
	}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return data
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestLayoutEndpoint(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader(testRequestBody(t)))
	if err != nil {
		t.Fatalf("POST /v1/layout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 200, body: %s", resp.StatusCode, body)
	}

	var lr LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if lr.RunID == "" {
		t.Error("run_id should be set")
	}
	if lr.Stats.NodeCount != 3 || lr.Stats.EdgeCount != 2 {
		t.Errorf("stats = %+v, want 3 nodes / 2 edges", lr.Stats)
	}
	if len(lr.Layout.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(lr.Layout.Positions))
	}
	if len(lr.Artifacts[pipeline.FormatJSON]) == 0 {
		t.Error("missing json artifact")
	}
}

func TestLayoutEndpointDeterministicAcrossRequests(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	fetch := func() LayoutResponse {
		resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader(testRequestBody(t)))
		if err != nil {
			t.Fatalf("POST /v1/layout: %v", err)
		}
		defer resp.Body.Close()
		var lr LayoutResponse
		if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return lr
	}

	first, second := fetch(), fetch()
	for i := range first.Layout.Positions {
		if first.Layout.Positions[i] != second.Layout.Positions[i] {
			t.Fatal("identical requests should produce identical positions")
		}
	}
}

func TestLayoutEndpointBadJSON(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/layout", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /v1/layout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var er struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if er.Error.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", er.Error.Code)
	}
}

func TestLayoutEndpointInvalidGraph(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	req := LayoutRequest{
		Graph: graph.Document{
			Nodes: []graph.Node{{ID: "a"}},
			Edges: []graph.Link{{Source: "a", Target: "missing"}},
		},
	}
	data, _ := json.Marshal(req)

	resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/layout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLayoutEndpointInvalidOptions(t *testing.T) {
	srv := httptest.NewServer(testServer().Handler())
	defer srv.Close()

	req := LayoutRequest{
		Graph: graph.Document{Nodes: []graph.Node{{ID: "a"}, {ID: "b"}}},
		Options: pipeline.Options{
			Formats: []string{"bmp"},
		},
	}
	data, _ := json.Marshal(req)

	resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /v1/layout: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}
