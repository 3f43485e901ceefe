package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/config"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type stubLoader struct {
	restaurants []*domain.Restaurant
}

func (s *stubLoader) LoadRestaurants() ([]*domain.Restaurant, error) {
	return s.restaurants, nil
}

func testRestaurants() []*domain.Restaurant {
	return []*domain.Restaurant{
		{Name: "Seoul 116", Hours: "Mon-Sun 11 am - 4 am"},
		{Name: "Bonchon", Hours: "Mon-Wed 5 pm - 12:30 am  / Thu-Fri 5 pm - 1:30 am  / Sat 3 pm - 1:30 am  / Sun 3 pm - 11:30 pm"},
		{Name: "The Cheesecake Factory", Hours: "Mon-Thu 11 am - 11 pm  / Fri-Sat 11 am - 12:30 am  / Sun 10 am - 11 pm"},
		{Name: "42nd Street Oyster Bar", Hours: "Mon-Sat 11 am - 12 am  / Sun 12 pm - 2 am"},
		{Name: "Garland", Hours: "Tues-Fri, Sun 11:30 am - 10 pm  / Sat 5:30 pm - 11 pm"},
	}
}

func newTestHandler(t *testing.T, loaded bool) (*Handler, *stubLoader) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Admin.Username = "admin"
	cfg.Admin.PasswordHash = string(hash)
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 1

	loader := &stubLoader{restaurants: testRestaurants()}
	cat := catalog.New(loader)
	if loaded {
		if _, err := cat.Reload(); err != nil {
			t.Fatal(err)
		}
	}

	h, err := NewHandler(cfg, nil, cat, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.RegisterRoutes()
	return h, loader
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func queryOpen(h *Handler, datetime, restaurant string) *httptest.ResponseRecorder {
	q := url.Values{}
	q.Set("datetime_str", datetime)
	if restaurant != "" {
		q.Set("restaurant", restaurant)
	}
	req := httptest.NewRequest(http.MethodGet, "/open-restaurants?"+q.Encode(), nil)
	rr := httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, req)
	return rr
}

func namesOf(t *testing.T, resp Response) []string {
	t.Helper()
	raw, ok := resp.Data.([]any)
	if !ok {
		t.Fatalf("expected list data, got %T", resp.Data)
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		names = append(names, v.(string))
	}
	return names
}

func TestGetOpenRestaurants(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := queryOpen(h, "2024-11-26 22:01", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeResponse(t, rr)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	expected := []string{"42nd Street Oyster Bar", "Bonchon", "Seoul 116", "The Cheesecake Factory"}
	if names := namesOf(t, resp); !slices.Equal(names, expected) {
		t.Fatalf("expected %v, got %v", expected, names)
	}
}

func TestGetOpenRestaurants_Filter(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := queryOpen(h, "2024-11-27 14:00", "Bonchon")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if names := namesOf(t, decodeResponse(t, rr)); len(names) != 0 {
		t.Fatalf("expected Bonchon closed, got %v", names)
	}

	rr = queryOpen(h, "2024-11-27 00:00", "Bonchon")
	if names := namesOf(t, decodeResponse(t, rr)); !slices.Equal(names, []string{"Bonchon"}) {
		t.Fatalf("expected Bonchon open, got %v", names)
	}
}

func TestGetOpenRestaurants_NoneOpen(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := queryOpen(h, "2024-11-27 5:00", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if names := namesOf(t, decodeResponse(t, rr)); len(names) != 0 {
		t.Fatalf("expected nothing open, got %v", names)
	}
}

func TestGetOpenRestaurants_InvalidDateTime(t *testing.T) {
	h, _ := newTestHandler(t, true)

	for _, input := range []string{"2024-11-27", ""} {
		rr := queryOpen(h, input, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", input, rr.Code)
		}
		if resp := decodeResponse(t, rr); resp.Success || resp.Message == "" {
			t.Fatalf("%q: unexpected response %+v", input, resp)
		}
	}
}

func TestGetOpenRestaurants_NotLoaded(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rr := queryOpen(h, "2024-11-27 14:00", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}

	// 客户端的错误优先于服务器状态
	rr = queryOpen(h, "2024-11-27", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, false)

	rr := httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before loading, got %d", rr.Code)
	}

	if _, err := h.catalog.Reload(); err != nil {
		t.Fatal(err)
	}
	rr = httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func login(t *testing.T, h *Handler, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"username":"admin","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, req)
	return rr
}

func TestLogin(t *testing.T) {
	h, _ := newTestHandler(t, true)

	rr := login(t, h, "wrong")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	rr = login(t, h, "password")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == tokenCookieName && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatal("expected token cookie")
	}
}

func TestReloadDataset(t *testing.T) {
	h, loader := newTestHandler(t, true)

	rr := httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/dataset/reload", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	var cookie *http.Cookie
	for _, c := range login(t, h, "password").Result().Cookies() {
		if c.Name == tokenCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected token cookie")
	}

	req := httptest.NewRequest(http.MethodPost, "/dataset/reload", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if s, _ := h.catalog.Current(); s.Generation != 2 {
		t.Fatalf("expected generation 2, got %d", s.Generation)
	}

	// 坏数据不会替换当前的数据
	loader.restaurants = append(loader.restaurants, &domain.Restaurant{Name: "Broken", Hours: "Someday 1 pm - 2 pm"})
	req = httptest.NewRequest(http.MethodPost, "/dataset/reload", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if resp := decodeResponse(t, rr); !strings.Contains(resp.Message, "Broken") {
		t.Fatalf("expected message to name the bad row, got %q", resp.Message)
	}
	if s, _ := h.catalog.Current(); s.Generation != 2 {
		t.Fatalf("expected generation to stay 2, got %d", s.Generation)
	}
}

func TestReloadDataset_ForgedToken(t *testing.T) {
	h, _ := newTestHandler(t, true)

	req := httptest.NewRequest(http.MethodPost, "/dataset/reload", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "not-a-jwt"})
	rr := httptest.NewRecorder()
	h.Mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}
