package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"todo-app/internal/config"
	"todo-app/internal/security"
	"todo-app/internal/testutil"
)

type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
	bearer  string
}

type response struct {
	code int
	body map[string]interface{}
	w    *httptest.ResponseRecorder
}

func (c *client) do(method, path string, body interface{}) response {
	c.t.Helper()
	req := testutil.MakeRequest(method, path, body, c.cookies...)
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	var decoded map[string]interface{}
	testutil.AssertJSON(c.t, w, &decoded)
	return response{code: w.Code, body: decoded, w: w}
}

func (c *client) login(username, password string) response {
	c.t.Helper()
	res := c.do("POST", "/login", map[string]string{"username": username, "password": password})
	if res.code == http.StatusOK {
		c.cookies = res.w.Result().Cookies()
	}
	return res
}

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	database := testutil.SetupTestDB(t)
	cfg := config.Default()
	cfg.BcryptCost = bcrypt.MinCost

	sessions := security.NewSessionManager(database, time.Hour)
	cookies := security.NewCookieCodec(security.CookieOptions{
		Name:     cfg.CookieName,
		SameSite: cfg.SameSite(),
		TTL:      time.Hour,
	}, []byte("0123456789abcdef0123456789abcdef"), nil)

	return Setup(database, sessions, cookies, cfg)
}

func register(t *testing.T, h http.Handler, username, password string) {
	t.Helper()
	c := &client{t: t, h: h}
	res := c.do("POST", "/register", map[string]string{"username": username, "password": password, "confirm": password})
	if res.code != http.StatusOK || res.body["success"] != true {
		t.Fatalf("register %s: %d %v", username, res.code, res.body)
	}
}

func expect(t *testing.T, res response, code int, message string) {
	t.Helper()
	if res.code != code {
		t.Errorf("status = %d, want %d (body %v)", res.code, code, res.body)
		return
	}
	if message != "" && res.body["message"] != message {
		t.Errorf("message = %v, want %q", res.body["message"], message)
	}
}

func idOf(t *testing.T, res response) int64 {
	t.Helper()
	id, ok := res.body["id"].(float64)
	if !ok {
		t.Fatalf("no id in %v", res.body)
	}
	return int64(id)
}

func TestRegisterAndLogin(t *testing.T) {
	h := setupServer(t)
	anon := &client{t: t, h: h}

	register(t, h, "alice", "pw")

	expect(t, anon.do("POST", "/register", map[string]string{"username": "alice", "password": "x", "confirm": "x"}),
		http.StatusBadRequest, "Username already exists")
	expect(t, anon.do("POST", "/register", map[string]string{"username": "carol", "password": "x", "confirm": "y"}),
		http.StatusBadRequest, "Passwords do not match")
	expect(t, anon.do("POST", "/register", map[string]string{"username": "carol"}),
		http.StatusBadRequest, "All fields required")

	expect(t, anon.login("alice", "wrong"), http.StatusUnauthorized, "Invalid username or password")
	expect(t, anon.login("nobody", "pw"), http.StatusUnauthorized, "Invalid username or password")

	alice := &client{t: t, h: h}
	res := alice.login("alice", "pw")
	expect(t, res, http.StatusOK, "Login successful")

	var session *http.Cookie
	for _, c := range alice.cookies {
		if c.Name == "user-session" {
			session = c
		}
	}
	if session == nil {
		t.Fatal("no session cookie set")
	}
	if !session.HttpOnly || session.Path != "/" || session.MaxAge != 3600 {
		t.Errorf("cookie = %+v", session)
	}

	me := alice.do("GET", "/me", nil)
	expect(t, me, http.StatusOK, "")
	user, _ := me.body["user"].(map[string]interface{})
	if user["username"] != "alice" || user["name"] != "alice" {
		t.Errorf("me = %v", me.body)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash exposed")
	}
}

func TestAliceScenario(t *testing.T) {
	h := setupServer(t)
	register(t, h, "alice", "pw")
	alice := &client{t: t, h: h}
	alice.login("alice", "pw")

	board := idOf(t, alice.do("POST", "/add-list", map[string]string{"title": "Groceries"}))
	// the browser client sends listId as a string
	milk := idOf(t, alice.do("POST", "/add-item", map[string]interface{}{"listId": fmt.Sprint(board), "title": "Milk"}))
	idOf(t, alice.do("POST", "/add-item", map[string]interface{}{"listId": board, "title": "Eggs"}))

	expect(t, alice.do("PUT", fmt.Sprintf("/edit-item/%d", milk), map[string]string{"status": "done"}), http.StatusOK, "")

	lists := alice.do("GET", "/get-list", nil)
	expect(t, lists, http.StatusOK, "")
	list, _ := lists.body["list"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("list = %v", lists.body)
	}
	if first := list[0].(map[string]interface{}); first["item_count"] != float64(2) || first["title"] != "Groceries" {
		t.Errorf("board = %v", first)
	}

	items := alice.do("GET", fmt.Sprintf("/get-items/%d", board), nil)
	expect(t, items, http.StatusOK, "")
	got, _ := items.body["items"].([]interface{})
	if len(got) != 2 {
		t.Fatalf("items = %v", items.body)
	}
	if first := got[0].(map[string]interface{}); first["title"] != "Milk" || first["status"] != "done" {
		t.Errorf("first item = %v", first)
	}
	if info, _ := items.body["listInfo"].(map[string]interface{}); info["title"] != "Groceries" {
		t.Errorf("listInfo = %v", items.body["listInfo"])
	}

	expect(t, alice.do("PUT", fmt.Sprintf("/edit-list/%d", board), map[string]string{"title": "Shopping"}), http.StatusOK, "")
	expect(t, alice.do("PUT", fmt.Sprintf("/edit-list/%d", board), map[string]string{"title": "  "}), http.StatusBadRequest, "")
	expect(t, alice.do("PUT", fmt.Sprintf("/edit-item/%d", milk), map[string]string{}), http.StatusBadRequest, "")
	expect(t, alice.do("PUT", fmt.Sprintf("/edit-item/%d", milk), map[string]string{"status": "archived"}), http.StatusBadRequest, "")
	expect(t, alice.do("POST", "/add-item", map[string]interface{}{"listId": "groceries", "title": "x"}), http.StatusBadRequest, "")
	expect(t, alice.do("POST", "/add-item", map[string]interface{}{"title": "x"}), http.StatusBadRequest, "")
	expect(t, alice.do("PUT", "/edit-list/abc", map[string]string{"title": "x"}), http.StatusNotFound, "Not found")

	expect(t, alice.do("DELETE", fmt.Sprintf("/delete-list/%d", board), nil), http.StatusOK, "")
	expect(t, alice.do("GET", fmt.Sprintf("/get-items/%d", board), nil), http.StatusNotFound, "Not found")
	expect(t, alice.do("DELETE", fmt.Sprintf("/delete-list/%d", board), nil), http.StatusNotFound, "Not found")
	expect(t, alice.do("DELETE", fmt.Sprintf("/delete-item/%d", milk), nil), http.StatusNotFound, "Not found")
}

func TestBobCannotTouchAlicesData(t *testing.T) {
	h := setupServer(t)
	register(t, h, "alice", "pw")
	register(t, h, "bob", "pw")
	alice := &client{t: t, h: h}
	alice.login("alice", "pw")
	board := idOf(t, alice.do("POST", "/add-list", map[string]string{"title": "Groceries"}))
	item := idOf(t, alice.do("POST", "/add-item", map[string]interface{}{"listId": board, "title": "Milk"}))

	// without a session everything is 401, whether or not the target exists
	anon := &client{t: t, h: h}
	for _, tc := range []struct{ method, path string }{
		{"GET", "/get-list"},
		{"GET", "/me"},
		{"POST", "/add-list"},
		{"PUT", fmt.Sprintf("/edit-list/%d", board)},
		{"PUT", "/edit-list/999999"},
		{"DELETE", fmt.Sprintf("/delete-list/%d", board)},
		{"GET", fmt.Sprintf("/get-items/%d", board)},
		{"POST", "/add-item"},
		{"PUT", fmt.Sprintf("/edit-item/%d", item)},
		{"DELETE", "/delete-item/999999"},
	} {
		expect(t, anon.do(tc.method, tc.path, map[string]string{"title": "x"}), http.StatusUnauthorized, "Not logged in")
	}

	bob := &client{t: t, h: h}
	bob.login("bob", "pw")
	lists := bob.do("GET", "/get-list", nil)
	if list, _ := lists.body["list"].([]interface{}); len(list) != 0 {
		t.Errorf("bob sees %v", list)
	}
	expect(t, bob.do("GET", fmt.Sprintf("/get-items/%d", board), nil), http.StatusNotFound, "Not found")
	expect(t, bob.do("PUT", fmt.Sprintf("/edit-list/%d", board), map[string]string{"title": "Mine"}), http.StatusNotFound, "Not found")
	expect(t, bob.do("DELETE", fmt.Sprintf("/delete-list/%d", board), nil), http.StatusNotFound, "Not found")
	expect(t, bob.do("POST", "/add-item", map[string]interface{}{"listId": board, "title": "Sneaky"}), http.StatusNotFound, "Not found")
	expect(t, bob.do("PUT", fmt.Sprintf("/edit-item/%d", item), map[string]string{"status": "done"}), http.StatusNotFound, "Not found")
	expect(t, bob.do("DELETE", fmt.Sprintf("/delete-item/%d", item), nil), http.StatusNotFound, "Not found")

	items := alice.do("GET", fmt.Sprintf("/get-items/%d", board), nil)
	got, _ := items.body["items"].([]interface{})
	if len(got) != 1 || got[0].(map[string]interface{})["status"] != "pending" {
		t.Errorf("alice's items changed: %v", items.body)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	h := setupServer(t)
	register(t, h, "alice", "pw")
	alice := &client{t: t, h: h}
	alice.login("alice", "pw")
	stolen := alice.cookies

	res := alice.do("POST", "/logout", nil)
	expect(t, res, http.StatusOK, "")
	cleared := false
	for _, c := range res.w.Result().Cookies() {
		if c.Name == "user-session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the cookie")
	}

	replay := &client{t: t, h: h, cookies: stolen}
	expect(t, replay.do("GET", "/get-list", nil), http.StatusUnauthorized, "Not logged in")

	// logging out again, or without a session, still succeeds
	expect(t, replay.do("POST", "/logout", nil), http.StatusOK, "")
	expect(t, (&client{t: t, h: h}).do("POST", "/logout", nil), http.StatusOK, "")
}

func TestBearerToken(t *testing.T) {
	h := setupServer(t)
	register(t, h, "alice", "pw")
	res := (&client{t: t, h: h}).login("alice", "pw")
	token, _ := res.body["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", res.body)
	}

	api := &client{t: t, h: h, bearer: token}
	expect(t, api.do("GET", "/get-list", nil), http.StatusOK, "")
	expect(t, api.do("POST", "/logout", nil), http.StatusOK, "")
	expect(t, api.do("GET", "/get-list", nil), http.StatusUnauthorized, "Not logged in")
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	h := setupServer(t)
	c := &client{t: t, h: h}
	expect(t, c.do("GET", "/health", nil), http.StatusOK, "")
	expect(t, c.do("GET", "/nope", nil), http.StatusNotFound, "Not found")

	res := c.do("GET", "/health", nil)
	if res.w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}
