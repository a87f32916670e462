package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Absle/swt-gen/internal/subsector"
)

const testAdminKey = "test-key"

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	for seed := int64(1); seed <= 50; seed++ {
		sub, err := subsector.Generate("Spinward Reach", seed, 0, subsector.DefaultGrid)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sub.Worlds) >= 3 && len(sub.Worlds) < 80 {
			srv := NewServer(sub, nil, 0, testAdminKey, nil)
			return srv, srv.Handler()
		}
	}
	t.Fatal("no seed in 1..50 produced a mixed subsector")
	return nil, nil
}

func coords(srv *Server) (occupied, empty subsector.Coordinate) {
	var haveOcc, haveEmpty bool
	for _, c := range srv.sub.Grid.Coordinates() {
		if srv.sub.Occupied(c) && !haveOcc {
			occupied, haveOcc = c, true
		}
		if !srv.sub.Occupied(c) && !haveEmpty {
			empty, haveEmpty = c, true
		}
	}
	return occupied, empty
}

func do(t *testing.T, h http.Handler, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/v1/status", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Name    string `json:"name"`
		Variant string `json:"variant"`
		Worlds  int    `json:"worlds"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "Spinward Reach" || got.Variant != subsector.VariantGM || got.Worlds < 3 {
		t.Fatalf("unexpected status payload: %+v", got)
	}
}

func TestWorldLookup(t *testing.T) {
	srv, h := newTestServer(t)
	occ, empty := coords(srv)

	if rec := do(t, h, http.MethodGet, "/api/v1/world/"+occ.String(), "", false); rec.Code != http.StatusOK {
		t.Errorf("occupied hex status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/world/"+empty.String(), "", false); rec.Code != http.StatusNotFound {
		t.Errorf("empty hex status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/world/zzzz", "", false); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed hex status = %d, want 400", rec.Code)
	}
}

func TestMutationsRequireAuth(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)
	path := "/api/v1/world/" + occ.String() + "/edit"
	body := `{"field":"tech_level","value":"9"}`

	if rec := do(t, h, http.MethodPost, path, body, false); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated edit status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer wrong-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong-key edit status = %d, want 401", rec.Code)
	}

	srv.AdminKey = ""
	if rec := do(t, h, http.MethodPost, path, body, false); rec.Code != http.StatusForbidden {
		t.Errorf("disabled-admin edit status = %d, want 403", rec.Code)
	}
}

func TestEditField(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)

	rec := do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/edit",
		`{"field":"tech_level","value":"15"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := srv.sub.World(occ).TechLevel; got != 15 {
		t.Errorf("tech level = %d after edit, want 15", got)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/edit",
		`{"field":"atmosphere","value":"99"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("out-of-range edit status = %d, want 400", rec.Code)
	}
}

func TestMoveConflict(t *testing.T) {
	srv, h := newTestServer(t)
	var occ []subsector.Coordinate
	for _, c := range srv.sub.Grid.Coordinates() {
		if srv.sub.Occupied(c) {
			occ = append(occ, c)
		}
	}

	rec := do(t, h, http.MethodPost, "/api/v1/world/"+occ[0].String()+"/move",
		`{"to":"`+occ[1].String()+`"}`, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("move onto occupied hex status = %d, want 409", rec.Code)
	}
}

func TestDeleteWorld(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)

	if rec := do(t, h, http.MethodDelete, "/api/v1/world/"+occ.String(), "", true); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/world/"+occ.String(), "", false); rec.Code != http.StatusNotFound {
		t.Errorf("deleted hex lookup status = %d, want 404", rec.Code)
	}
}

func TestPlayerSafeView(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)
	srv.sub.World(occ).Notes = "gm eyes only"

	rec := do(t, h, http.MethodGet, "/api/v1/subsector/player-safe", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "gm eyes only") {
		t.Fatal("player-safe view leaked GM notes")
	}
	if srv.sub.World(occ).Notes != "gm eyes only" {
		t.Fatal("projection mutated the live document")
	}
}

func TestGenerateEndpoint(t *testing.T) {
	srv, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/generate",
		`{"name":"Trailing Marches","seed":99,"abundance_dm":1}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d: %s", rec.Code, rec.Body.String())
	}
	if srv.sub.Name != "Trailing Marches" || srv.sub.Seed != 99 {
		t.Errorf("document not replaced: %q seed %d", srv.sub.Name, srv.sub.Seed)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/generate", `{"columns":-1,"rows":5}`, true)
	if rec.Code != http.StatusInternalServerError && rec.Code != http.StatusBadRequest {
		t.Errorf("degenerate grid status = %d", rec.Code)
	}
}

func TestExports(t *testing.T) {
	_, h := newTestServer(t)
	cases := []struct {
		path, contentType string
	}{
		{"/api/v1/export/svg", "image/svg+xml"},
		{"/api/v1/export/csv", "text/csv"},
		{"/api/v1/export/markdown", "text/markdown"},
		{"/api/v1/export/archive", "application/zstd"},
	}
	for _, c := range cases {
		rec := do(t, h, http.MethodGet, c.path, "", false)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", c.path, rec.Code)
			continue
		}
		if got := rec.Header().Get("Content-Type"); got != c.contentType {
			t.Errorf("%s content type = %q, want %q", c.path, got, c.contentType)
		}
	}
}

func TestSaveWithoutDB(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/v1/save", `{"slot":"x"}`, true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("save without db status = %d, want 503", rec.Code)
	}
}

func TestFactionLifecycle(t *testing.T) {
	srv, h := newTestServer(t)
	occ, empty := coords(srv)

	if rec := do(t, h, http.MethodPost, "/api/v1/factions", `{"name":"Imperium","color":"#b03030"}`, true); rec.Code != http.StatusOK {
		t.Fatalf("add faction status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/faction/Imperium/claim",
		`{"hex":"`+empty.String()+`"}`, true); rec.Code != http.StatusConflict {
		t.Errorf("claim on empty hex status = %d, want 409", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/faction/Imperium/claim",
		`{"hex":"`+occ.String()+`"}`, true); rec.Code != http.StatusOK {
		t.Errorf("claim status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/faction/Imperium", "", true); rec.Code != http.StatusOK {
		t.Errorf("remove faction status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodDelete, "/api/v1/faction/Imperium", "", true); rec.Code != http.StatusNotFound {
		t.Errorf("remove missing faction status = %d, want 404", rec.Code)
	}
}

func TestSnapshotRevert(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)
	wantTech := srv.sub.World(occ).TechLevel

	rec := do(t, h, http.MethodGet, "/api/v1/world/"+occ.String()+"/snapshot", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", rec.Code)
	}
	var snap struct {
		World json.RawMessage `json:"world"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	edited := "15"
	if wantTech == 15 {
		edited = "0"
	}
	body := `{"field":"tech_level","value":"` + edited + `"}`
	if rec := do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/edit", body, true); rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d", rec.Code)
	}
	if srv.sub.World(occ).TechLevel == wantTech {
		t.Fatal("edit did not change the tech level")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/revert",
		`{"world":`+string(snap.World)+`}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("revert status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := srv.sub.World(occ).TechLevel; got != wantTech {
		t.Fatalf("tech level after revert = %d, want %d", got, wantTech)
	}
}

func TestRevertToEmptyHex(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)

	rec := do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/revert", `{"world":null}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("revert status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/world/"+occ.String(), "", false); rec.Code != http.StatusNotFound {
		t.Errorf("reverted-to-empty hex lookup status = %d, want 404", rec.Code)
	}
}

func TestRerollField(t *testing.T) {
	srv, h := newTestServer(t)
	occ, _ := coords(srv)
	epoch := srv.sub.Epoch

	rec := do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/reroll",
		`{"field":"population"}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("reroll status = %d: %s", rec.Code, rec.Body.String())
	}
	if srv.sub.Epoch != epoch+1 {
		t.Errorf("epoch = %d after reroll, want %d", srv.sub.Epoch, epoch+1)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/world/"+occ.String()+"/reroll",
		`{"field":"gravity"}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field reroll status = %d, want 400", rec.Code)
	}
}

func TestExportQuota(t *testing.T) {
	q := newExportQuota(2, time.Hour)
	if ok, _ := q.take("1.2.3.4 /api/v1/export/svg"); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := q.take("1.2.3.4 /api/v1/export/svg"); !ok {
		t.Fatal("second request should pass")
	}
	ok, retry := q.take("1.2.3.4 /api/v1/export/svg")
	if ok {
		t.Fatal("third request should be rejected")
	}
	if retry < 1 {
		t.Fatalf("retry hint = %d, want at least 1s", retry)
	}
	if ok, _ := q.take("1.2.3.4 /api/v1/export/csv"); !ok {
		t.Fatal("other routes should have their own budget")
	}
	if ok, _ := q.take("5.6.7.8 /api/v1/export/svg"); !ok {
		t.Fatal("other clients should be unaffected")
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/svg", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	if got := clientKey(req); got != "10.0.0.9" {
		t.Errorf("clientKey = %q, want 10.0.0.9", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := clientKey(req); got != "203.0.113.7" {
		t.Errorf("clientKey with proxy = %q, want 203.0.113.7", got)
	}
}
