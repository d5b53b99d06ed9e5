package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ipl-prediction-backend/internal/config"
	"ipl-prediction-backend/internal/repository"
	"ipl-prediction-backend/internal/testutil"
)

func testRouter(t *testing.T) (http.Handler, *serviceSet) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Auth:   config.AuthConfig{JWTSecret: "router-secret", TokenTTLHours: 1},
		Points: config.PointsConfig{PerCorrectVote: 10},
		CORS:   config.CORSConfig{AllowOrigins: []string{"*"}},
	}
	svc := newServiceSet(cfg, repository.NewStore(db), nil)
	return newRouter(cfg, svc), svc
}

func TestRouterAccessRules(t *testing.T) {
	router, svc := testRouter(t)

	reg, err := svc.auth.Register(context.Background(), "fan", "fanpass1", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	admin, err := svc.auth.CreateAdmin(context.Background(), "boss", "bosspass")
	if err != nil {
		t.Fatalf("CreateAdmin() error = %v", err)
	}
	adminToken, _ := svc.auth.GenerateToken(admin.ID, admin.Role)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
		{"public teams", http.MethodGet, "/api/v1/teams", "", "", http.StatusOK},
		{"public leaderboard", http.MethodGet, "/api/v1/leaderboard", "", "", http.StatusOK},
		{"public polls", http.MethodGet, "/api/v1/polls", "", "", http.StatusOK},
		{"me needs auth", http.MethodGet, "/api/v1/me", "", "", http.StatusUnauthorized},
		{"me", http.MethodGet, "/api/v1/me", reg.Token, "", http.StatusOK},
		{"fan cannot create team", http.MethodPost, "/api/v1/teams", reg.Token, `{"name":"Punjab Kings","short_name":"PBKS"}`, http.StatusForbidden},
		{"admin creates team", http.MethodPost, "/api/v1/teams", adminToken, `{"name":"Punjab Kings","short_name":"PBKS"}`, http.StatusCreated},
		{"duplicate team", http.MethodPost, "/api/v1/teams", adminToken, `{"name":"Punjab Kings","short_name":"PK"}`, http.StatusConflict},
		{"settle missing poll", http.MethodPost, "/api/v1/polls/42/settle", adminToken, `{"correct_option_id":1}`, http.StatusNotFound},
		{"unread count", http.MethodGet, "/api/v1/notifications/unread-count", reg.Token, "", http.StatusOK},
		{"mark all read", http.MethodPost, "/api/v1/notifications/read-all", reg.Token, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestHealthBody(t *testing.T) {
	router, _ := testRouter(t)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["status"] != "ok" {
		t.Errorf("body = %s, err = %v", w.Body.String(), err)
	}
}

func TestLoadTeams(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teams.yaml")
	content := "teams:\n  - name: Gujarat Titans\n    short_name: GT\n  - name: Lucknow Super Giants\n    short_name: LSG\n    logo_url: https://example.com/lsg.png\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	teams, err := loadTeams(path)
	if err != nil {
		t.Fatalf("loadTeams() error = %v", err)
	}
	if len(teams) != 2 || teams[1].ShortName != "LSG" || teams[1].LogoURL != "https://example.com/lsg.png" {
		t.Errorf("teams = %+v", teams)
	}

	empty := filepath.Join(dir, "empty.yaml")
	os.WriteFile(empty, []byte("teams: []\n"), 0o644)
	if _, err := loadTeams(empty); err == nil {
		t.Error("loadTeams(empty) error = nil, want error")
	}
	if _, err := loadTeams(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("loadTeams(missing) error = nil, want error")
	}
}
