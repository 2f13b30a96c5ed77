package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"critter-market/internal/platform/config"
	"critter-market/internal/router"
)

const genesisYAML = `
accounts:
  - account: alice
    balance: 1000
  - account: bob
    balance: 500
creatures:
  - owner: carol
    dna: 0f1e2d3c4b5a69788796a5b4c3d2e1f0
    gender: female
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "genesis.yaml")
	if err := os.WriteFile(path, []byte(genesisYAML), 0o600); err != nil {
		t.Fatalf("write genesis: %v", err)
	}

	h, err := router.NewRouter(context.Background(), router.Options{
		Cfg: config.Config{
			AppName:              "critter-market",
			LogLevel:             "error",
			LogFormat:            "text",
			MaxOwned:             16,
			PricePolicy:          "min",
			BeaconSeed:           "test-seed",
			LedgerExistentialMin: 1,
			GenesisFile:          path,
		},
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

// do arma el request con el header de cuenta del modo dev.
func do(t *testing.T, ts *httptest.Server, method, path, account string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if account != "" {
		req.Header.Set("X-Debug-Account-ID", account)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

type creatureJSON struct {
	ID      string  `json:"id"`
	Owner   string  `json:"owner"`
	DNA     string  `json:"dna"`
	Gender  string  `json:"gender"`
	Price   *uint64 `json:"price"`
	ForSale bool    `json:"for_sale"`
}

func TestAPI_FullLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// 1. health sin auth
	status, _ := do(t, ts, http.MethodGet, "/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("1. health: expected 200, got %d", status)
	}

	// 2. mint sin cuenta => 401
	status, _ = do(t, ts, http.MethodPost, "/creatures", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("2. mint without account: expected 401, got %d", status)
	}

	// 3. génesis ya corrió: carol tiene su criatura con el dna suministrado
	status, raw := do(t, ts, http.MethodGet, "/creatures", "carol", nil)
	if status != http.StatusOK {
		t.Fatalf("3. list carol: expected 200, got %d", status)
	}
	var carolOwned []creatureJSON
	if err := json.Unmarshal(raw, &carolOwned); err != nil {
		t.Fatalf("3. decode: %v", err)
	}
	if len(carolOwned) != 1 || carolOwned[0].DNA != "0f1e2d3c4b5a69788796a5b4c3d2e1f0" {
		t.Fatalf("3. expected carol's genesis creature, got %#v", carolOwned)
	}

	// 4. alice acuña dos criaturas
	status, raw = do(t, ts, http.MethodPost, "/creatures", "alice", nil)
	if status != http.StatusCreated {
		t.Fatalf("4. mint #1: expected 201, got %d (%s)", status, raw)
	}
	var p1 creatureJSON
	if err := json.Unmarshal(raw, &p1); err != nil {
		t.Fatalf("4. decode: %v", err)
	}
	status, raw = do(t, ts, http.MethodPost, "/creatures", "alice", nil)
	if status != http.StatusCreated {
		t.Fatalf("4. mint #2: expected 201, got %d", status)
	}
	var p2 creatureJSON
	if err := json.Unmarshal(raw, &p2); err != nil {
		t.Fatalf("4. decode: %v", err)
	}

	// 5. cría de las dos
	status, raw = do(t, ts, http.MethodPost, "/creatures/breed", "alice", map[string]string{
		"parent1": p1.ID,
		"parent2": p2.ID,
	})
	if status != http.StatusCreated {
		t.Fatalf("5. breed: expected 201, got %d (%s)", status, raw)
	}
	var child creatureJSON
	if err := json.Unmarshal(raw, &child); err != nil {
		t.Fatalf("5. decode: %v", err)
	}
	if child.Owner != "alice" {
		t.Fatalf("5. expected child owned by alice, got %s", child.Owner)
	}

	// 6. contador global: 1 de génesis + 3 de alice
	status, raw = do(t, ts, http.MethodGet, "/creatures/count", "", nil)
	if status != http.StatusOK {
		t.Fatalf("6. count: expected 200, got %d", status)
	}
	var cnt struct {
		Count uint64 `json:"count"`
	}
	if err := json.Unmarshal(raw, &cnt); err != nil {
		t.Fatalf("6. decode: %v", err)
	}
	if cnt.Count != 4 {
		t.Fatalf("6. expected count 4, got %d", cnt.Count)
	}

	// 7. consulta pública por id
	status, raw = do(t, ts, http.MethodGet, "/creatures/"+p1.ID, "", nil)
	if status != http.StatusOK {
		t.Fatalf("7. get: expected 200, got %d", status)
	}

	// 8. transfer de p1 a bob
	status, raw = do(t, ts, http.MethodPost, "/creatures/"+p1.ID+"/transfer", "alice", map[string]string{"to": "bob"})
	if status != http.StatusNoContent {
		t.Fatalf("8. transfer: expected 204, got %d (%s)", status, raw)
	}
	status, raw = do(t, ts, http.MethodGet, "/creatures/"+p1.ID+"/owner", "", nil)
	if status != http.StatusOK {
		t.Fatalf("8. owner: expected 200, got %d", status)
	}
	var owner struct {
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(raw, &owner); err != nil {
		t.Fatalf("8. decode: %v", err)
	}
	if owner.Owner != "bob" {
		t.Fatalf("8. expected owner bob, got %s", owner.Owner)
	}

	// 9. bob publica p1; el listing aparece
	price := uint64(100)
	status, raw = do(t, ts, http.MethodPut, "/market/creatures/"+p1.ID+"/price", "bob", map[string]any{"price": price})
	if status != http.StatusNoContent {
		t.Fatalf("9. set price: expected 204, got %d (%s)", status, raw)
	}
	status, raw = do(t, ts, http.MethodGet, "/market/listings", "", nil)
	if status != http.StatusOK {
		t.Fatalf("9. listings: expected 200, got %d", status)
	}
	var listings []struct {
		ID    string `json:"id"`
		Price uint64 `json:"price"`
	}
	if err := json.Unmarshal(raw, &listings); err != nil {
		t.Fatalf("9. decode: %v", err)
	}
	if len(listings) != 1 || listings[0].ID != p1.ID || listings[0].Price != 100 {
		t.Fatalf("9. expected p1 listed at 100, got %#v", listings)
	}

	// 10. bid por debajo del precio => 400
	status, _ = do(t, ts, http.MethodPost, "/market/creatures/"+p1.ID+"/buy", "alice", map[string]uint64{"bid": 99})
	if status != http.StatusBadRequest {
		t.Fatalf("10. low bid: expected 400, got %d", status)
	}

	// 11. el dueño no puede comprarse a sí mismo => 409
	status, _ = do(t, ts, http.MethodPost, "/market/creatures/"+p1.ID+"/buy", "bob", map[string]uint64{"bid": 100})
	if status != http.StatusConflict {
		t.Fatalf("11. self buy: expected 409, got %d", status)
	}

	// 12. alice compra p1 al precio publicado (saldo de génesis)
	status, raw = do(t, ts, http.MethodPost, "/market/creatures/"+p1.ID+"/buy", "alice", map[string]uint64{"bid": 100})
	if status != http.StatusOK {
		t.Fatalf("12. buy: expected 200, got %d (%s)", status, raw)
	}
	var bought struct {
		ID    string `json:"id"`
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(raw, &bought); err != nil {
		t.Fatalf("12. decode: %v", err)
	}
	if bought.Owner != "alice" {
		t.Fatalf("12. expected owner alice, got %s", bought.Owner)
	}

	// 13. la compra limpia el listing
	status, raw = do(t, ts, http.MethodGet, "/market/listings", "", nil)
	if status != http.StatusOK {
		t.Fatalf("13. listings: expected 200, got %d", status)
	}
	if err := json.Unmarshal(raw, &listings); err != nil {
		t.Fatalf("13. decode: %v", err)
	}
	if len(listings) != 0 {
		t.Fatalf("13. expected empty listings, got %#v", listings)
	}

	// 14. criatura inexistente => 404
	status, _ = do(t, ts, http.MethodGet, "/creatures/deadbeefdeadbeefdeadbeefdeadbeef", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("14. missing creature: expected 404, got %d", status)
	}
}

func TestAPI_TransferValidation(t *testing.T) {
	ts := newTestServer(t)

	_, raw := do(t, ts, http.MethodPost, "/creatures", "alice", nil)
	var c creatureJSON
	if err := json.Unmarshal(raw, &c); err != nil {
		t.Fatalf("decode mint: %v", err)
	}

	// transferirse a uno mismo => 400
	status, _ := do(t, ts, http.MethodPost, "/creatures/"+c.ID+"/transfer", "alice", map[string]string{"to": "alice"})
	if status != http.StatusBadRequest {
		t.Fatalf("self transfer: expected 400, got %d", status)
	}

	// transferir lo ajeno => 403
	status, _ = do(t, ts, http.MethodPost, "/creatures/"+c.ID+"/transfer", "bob", map[string]string{"to": "carol"})
	if status != http.StatusForbidden {
		t.Fatalf("foreign transfer: expected 403, got %d", status)
	}
}
