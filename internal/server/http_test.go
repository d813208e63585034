package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kestrelgames/summoner/internal/config"
	"github.com/kestrelgames/summoner/internal/game/engine"
	"github.com/kestrelgames/summoner/internal/game/player"
	"github.com/kestrelgames/summoner/internal/game/rng"
)

func testHTTPServer(t *testing.T, state *player.Player) *HTTPServer {
	t.Helper()
	eng := engine.New(state, engine.DefaultConfig(), engine.Options{
		Source: rng.NewSeeded(7),
		Now:    func() int64 { return 0 },
	})
	cfg := config.HTTPConfig{
		Host:          "127.0.0.1",
		Port:          0,
		ReadTimeout:   time.Second,
		WriteTimeout:  time.Second,
		ShutdownGrace: time.Second,
	}
	return NewHTTPServer(eng, zap.NewNop(), cfg)
}

func doJSON(t *testing.T, s *HTTPServer, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestGetPlayer(t *testing.T) {
	p := player.New()
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodGet, "/v1/player", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got player.Player
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Gold, got.Gold)
}

func TestSummonHeroes(t *testing.T) {
	p := player.New()
	p.Gems = 2000
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/summons/heroes", map[string]any{
		"count":       10,
		"target_race": "Elf",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Heroes []json.RawMessage `json:"heroes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Heroes, 10)
}

func TestSummonHeroes_InsufficientGemsIsConflict(t *testing.T) {
	p := player.New()
	p.Gems = 0
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/summons/heroes", map[string]any{
		"count":       10,
		"target_race": "Elf",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "gems")
}

func TestSummonHeroes_BadBodyIsBadRequest(t *testing.T) {
	s := testHTTPServer(t, player.New())

	rec := doJSON(t, s, http.MethodPost, "/v1/summons/heroes", map[string]any{
		"target_race": "Elf",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLevelUp_UnknownCharacterIsNotFound(t *testing.T) {
	p := player.New()
	p.Exp = 10000
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/characters/nope/levelup", map[string]any{
		"levels": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBattleEnd_LossCreditsNothing(t *testing.T) {
	p := player.New()
	goldBefore := p.Gold
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/battles/end", map[string]any{
		"won":     false,
		"chapter": 1,
		"level":   3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var snap player.Player
	got := doJSON(t, s, http.MethodGet, "/v1/player", nil)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &snap))
	assert.Equal(t, goldBefore, snap.Gold)
	assert.Equal(t, 1, snap.StageLevel)
}

func TestSweep_UnclearedChapterIsConflict(t *testing.T) {
	s := testHTTPServer(t, player.New())

	rec := doJSON(t, s, http.MethodPost, "/v1/battles/sweep", map[string]any{
		"chapter": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExchange_BadDirectionIsBadRequest(t *testing.T) {
	s := testHTTPServer(t, player.New())

	rec := doJSON(t, s, http.MethodPost, "/v1/shop/exchanges", map[string]any{
		"direction": "sideways",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExchange_GemToGold(t *testing.T) {
	p := player.New()
	p.Gems = 100
	goldBefore := p.Gold
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/shop/exchanges", map[string]any{
		"direction": "gem_to_gold",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	var snap player.Player
	got := doJSON(t, s, http.MethodGet, "/v1/player", nil)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &snap))
	assert.Greater(t, snap.Gold, goldBefore)
}

func TestExportImportRoundTrip(t *testing.T) {
	p := player.New()
	p.Name = "Archivist"
	p.Gold = 4242
	s := testHTTPServer(t, p)

	exported := doJSON(t, s, http.MethodGet, "/v1/player/export", nil)
	require.Equal(t, http.StatusOK, exported.Code)

	fresh := testHTTPServer(t, player.New())
	req := httptest.NewRequest(http.MethodPost, "/v1/player/import", bytes.NewReader(exported.Body.Bytes()))
	rec := httptest.NewRecorder()
	fresh.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	var snap player.Player
	got := doJSON(t, fresh, http.MethodGet, "/v1/player", nil)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &snap))
	assert.Equal(t, "Archivist", snap.Name)
	assert.Equal(t, 4242, snap.Gold)
}

func TestImport_MalformedIsBadRequest(t *testing.T) {
	s := testHTTPServer(t, player.New())

	req := httptest.NewRequest(http.MethodPost, "/v1/player/import", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReset(t *testing.T) {
	p := player.New()
	p.Gold = 99999
	s := testHTTPServer(t, p)

	rec := doJSON(t, s, http.MethodPost, "/v1/player/reset", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var snap player.Player
	got := doJSON(t, s, http.MethodGet, "/v1/player", nil)
	require.NoError(t, json.Unmarshal(got.Body.Bytes(), &snap))
	assert.Equal(t, player.New().Gold, snap.Gold)
}
