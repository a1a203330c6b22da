package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"go-tower-defense-sim/internal/config"
	"go-tower-defense-sim/internal/defs"
	"go-tower-defense-sim/internal/storage"
	"go-tower-defense-sim/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*Manager, *gin.Engine) {
	t.Helper()
	store, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	m := NewManager(defs.DefaultLibrary(), config.Defaults(), store)
	t.Cleanup(m.CloseAll)
	return m, SetupRouter(m)
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r http.Handler) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/sessions", CreateRequest{Map: "classic", Seed: 5})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID == "" {
		t.Fatal("Expected a session id")
	}
	return resp.ID
}

func getState(t *testing.T, r http.Handler, id string) StateResponse {
	t.Helper()
	w := do(t, r, http.MethodGet, "/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var st StateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestSessions_CreateAndState(t *testing.T) {
	_, r := newTestServer(t)
	id := createSession(t, r)

	st := getState(t, r, id)
	if st.Map != "classic" || st.Gold != config.DefaultStartGold || st.Lives != config.DefaultStartLives {
		t.Errorf("Expected fresh classic game, got %+v", st)
	}
	if len(st.Towers) != 1 {
		t.Errorf("Expected the initial tower, got %d", len(st.Towers))
	}

	if w := do(t, r, http.MethodGet, "/sessions/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/sessions", CreateRequest{Map: "atlantis"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown map, got %d", w.Code)
	}
}

func TestSessions_BuildResults(t *testing.T) {
	_, r := newTestServer(t)
	id := createSession(t, r)

	w := do(t, r, http.MethodPost, "/sessions/"+id+"/towers", BuildRequest{Kind: "TOWER_SHOOT", Row: 5, Col: 5})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var res ResultResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	if !res.OK || res.ID == 0 {
		t.Errorf("Expected ok with id, got %+v", res)
	}

	cases := []struct {
		req  BuildRequest
		code int
	}{
		{BuildRequest{Kind: "TOWER_SHOOT", Row: 0, Col: 0}, http.StatusBadRequest},
		{BuildRequest{Kind: "TOWER_NOPE", Row: 8, Col: 8}, http.StatusNotFound},
		{BuildRequest{Kind: "TOWER_SHOOT", Row: 5, Col: 5}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if w := do(t, r, http.MethodPost, "/sessions/"+id+"/towers", tc.req); w.Code != tc.code {
			t.Errorf("%+v: expected %d, got %d", tc.req, tc.code, w.Code)
		}
	}

	if w := do(t, r, http.MethodPost, "/sessions/"+id+"/towers/abc/upgrade", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad tower id, got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/sessions/"+id+"/towers/999/sell", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for missing tower, got %d", w.Code)
	}
	w = do(t, r, http.MethodPost, "/sessions/"+id+"/towers/"+strconv.Itoa(int(res.ID))+"/fire", nil)
	json.Unmarshal(w.Body.Bytes(), &res)
	if w.Code != http.StatusConflict || res.Reason != "tower cannot do that" {
		t.Errorf("Expected 409 not capable, got %d %+v", w.Code, res)
	}

	if st := getState(t, r, id); st.Gold != config.DefaultStartGold-15 {
		t.Errorf("Expected gold %d, got %d", config.DefaultStartGold-15, st.Gold)
	}
}

func TestSessions_SaveAndRestore(t *testing.T) {
	m, r := newTestServer(t)
	id := createSession(t, r)
	do(t, r, http.MethodPost, "/sessions/"+id+"/towers", BuildRequest{Kind: "TOWER_FAST", Row: 9, Col: 3})

	if w := do(t, r, http.MethodPost, "/sessions/"+id+"/save", SaveRequest{Name: "slot"}); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 on save, got %d: %s", w.Code, w.Body.String())
	}
	w := do(t, r, http.MethodPost, "/sessions/restore", SaveRequest{Name: "slot"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201 on restore, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.ID == id {
		t.Error("Expected a new session id")
	}
	if m.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", m.Len())
	}
	if st := getState(t, r, resp.ID); len(st.Towers) != 2 {
		t.Errorf("Expected 2 towers after restore, got %d", len(st.Towers))
	}

	if w := do(t, r, http.MethodDelete, "/sessions/"+id, nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", w.Code)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", m.Len())
	}
}

func TestSessions_PauseAndSpeed(t *testing.T) {
	_, r := newTestServer(t)
	id := createSession(t, r)

	w := do(t, r, http.MethodPost, "/sessions/"+id+"/pause", nil)
	if !strings.Contains(w.Body.String(), `"paused":true`) {
		t.Errorf("Expected paused, got %s", w.Body.String())
	}
	w = do(t, r, http.MethodPost, "/sessions/"+id+"/speed", SpeedRequest{Index: 2})
	if !strings.Contains(w.Body.String(), `"speed":4`) {
		t.Errorf("Expected speed 4, got %s", w.Body.String())
	}
}

func TestWebsocket_StreamsHooks(t *testing.T) {
	_, r := newTestServer(t)
	srv := httptest.NewServer(r)
	defer srv.Close()
	id := createSession(t, r)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil || msg.Type != "snapshot" {
		t.Fatalf("Expected snapshot frame first, got %q (%v)", msg.Type, err)
	}

	body, _ := json.Marshal(BuildRequest{Kind: "TOWER_SHOOT", Row: 5, Col: 5})
	resp, err := http.Post(srv.URL+"/sessions/"+id+"/towers", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	resp.Body.Close()

	for {
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Expected tower_built frame, got error %v", err)
		}
		if msg.Type == "tower_built" {
			break
		}
	}
}
