package api

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dungeonmaze/server/internal/testutil"
)

func insertTestPlayer(t *testing.T, db *sql.DB) (int64, string) {
	fixtures := testutil.NewTestFixtures()
	player := fixtures.NewTestPlayer()

	var id int64
	err := db.QueryRow(
		"INSERT INTO players (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id",
		player.Username, player.Email, "hashed",
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert test player: %v", err)
	}
	return id, player.Username
}

func TestGetCurrentPlayerProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	playerID, username := insertTestPlayer(t, db)
	handlers := NewPlayerHandlers(db, testWorldConfig())

	req := testutil.AuthenticatedJSONRequest("GET", "/api/players/me", nil, playerID)
	w := httptest.NewRecorder()
	handlers.GetCurrentPlayerProfile(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var profile PlayerProfile
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if profile.ID != playerID {
		t.Errorf("Expected player ID %d, got %d", playerID, profile.ID)
	}
	if profile.Username != username {
		t.Errorf("Expected username %q, got %q", username, profile.Username)
	}
	if profile.Position != nil {
		t.Error("New player should have no stored position")
	}
	if profile.ActiveChunk != nil {
		t.Error("New player should have no active chunk")
	}
}

func TestGetCurrentPlayerProfileUnauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	handlers := NewPlayerHandlers(db, testWorldConfig())

	req := httptest.NewRequest("GET", "/api/players/me", nil)
	w := httptest.NewRecorder()
	handlers.GetCurrentPlayerProfile(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestGetPlayerProfileForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	playerID, _ := insertTestPlayer(t, db)
	otherID, _ := insertTestPlayer(t, db)
	handlers := NewPlayerHandlers(db, testWorldConfig())

	target := "/api/players/" + strconv.FormatInt(otherID, 10)
	req := testutil.AuthenticatedJSONRequest("GET", target, nil, playerID)
	w := httptest.NewRecorder()
	handlers.GetPlayerProfile(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdatePlayerPosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	playerID, _ := insertTestPlayer(t, db)
	handlers := NewPlayerHandlers(db, testWorldConfig())

	body := []byte(`{"position":{"x":20.0,"y":4.5,"z":-1.0}}`)
	target := "/api/players/" + strconv.FormatInt(playerID, 10) + "/position"
	req := testutil.AuthenticatedJSONRequest("PUT", target, body, playerID)
	w := httptest.NewRecorder()
	handlers.UpdatePlayerPosition(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp UpdatePositionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success response")
	}
	if resp.ActiveChunk.X != 1 || resp.ActiveChunk.Y != 1 {
		t.Errorf("Expected active chunk x=1 y=1, got (%d,%d,%d)",
			resp.ActiveChunk.X, resp.ActiveChunk.Y, resp.ActiveChunk.Z)
	}

	// Profile should now report the stored position and chunk.
	req = testutil.AuthenticatedJSONRequest("GET", "/api/players/me", nil, playerID)
	w = httptest.NewRecorder()
	handlers.GetCurrentPlayerProfile(w, req)

	var profile PlayerProfile
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("Failed to decode profile: %v", err)
	}
	if profile.Position == nil || profile.Position.X != 20.0 {
		t.Errorf("Expected stored position x=20.0, got %+v", profile.Position)
	}
	if profile.ActiveChunk == nil || profile.ActiveChunk.X != 1 {
		t.Errorf("Expected active chunk x=1, got %+v", profile.ActiveChunk)
	}
}

func TestUpdatePlayerPositionRejectsBadBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	playerID, _ := insertTestPlayer(t, db)
	handlers := NewPlayerHandlers(db, testWorldConfig())
	target := "/api/players/" + strconv.FormatInt(playerID, 10) + "/position"

	for _, body := range []string{
		"not json",
		`{"position":{"x":1e999,"y":0,"z":0}}`,
	} {
		req := testutil.AuthenticatedJSONRequest("PUT", target, []byte(body), playerID)
		w := httptest.NewRecorder()
		handlers.UpdatePlayerPosition(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Body %q: expected status 400, got %d", body, w.Code)
		}
	}
}

func TestUpdatePlayerPositionForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CloseDB(t, db)
	testutil.SetupPlayersTable(t, db)

	playerID, _ := insertTestPlayer(t, db)
	otherID, _ := insertTestPlayer(t, db)
	handlers := NewPlayerHandlers(db, testWorldConfig())

	body := []byte(`{"position":{"x":0,"y":0,"z":0}}`)
	target := "/api/players/" + strconv.FormatInt(otherID, 10) + "/position"
	req := testutil.AuthenticatedJSONRequest("PUT", target, body, playerID)
	w := httptest.NewRecorder()
	handlers.UpdatePlayerPosition(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", w.Code)
	}
}
