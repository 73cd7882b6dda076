package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LiquidN2/natours/auth"
	"github.com/LiquidN2/natours/auth/authtest"
	"github.com/LiquidN2/natours/store"
	"github.com/LiquidN2/natours/store/memory"
)

func newTestEngine(t *testing.T) (*auth.Engine, *memory.Store) {
	t.Helper()
	users := memory.New()
	engine, err := auth.New().
		WithConfig(authtest.Config()).
		WithStore(users).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return engine, users
}

func signupToken(t *testing.T, engine *auth.Engine, email string) (*store.User, string) {
	t.Helper()
	res, err := engine.Signup(context.Background(), auth.SignupRequest{
		Name:            "Lily Tran",
		Email:           email,
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return res.User, res.Token
}

// echoUser writes the resolved principal's email, or "-" when anonymous.
func echoUser(w http.ResponseWriter, r *http.Request) {
	if user, ok := UserFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(user.Email))
		return
	}
	_, _ = w.Write([]byte("-"))
}

func TestProtect(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, token := signupToken(t, engine, "lily@example.com")
	h := Protect(engine)(http.HandlerFunc(echoUser))

	// Header credential.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "lily@example.com" {
		t.Fatalf("header credential: %d %q", rec.Code, rec.Body.String())
	}

	// Cookie credential.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie credential: %d", rec.Code)
	}

	// The header wins over the cookie.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad header with good cookie: %d, want 401", rec.Code)
	}

	for name, mutate := range map[string]func(*http.Request){
		"no credential":  func(r *http.Request) {},
		"garbage token":  func(r *http.Request) { r.Header.Set("Authorization", "Bearer garbage") },
		"wrong scheme":   func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) },
		"empty bearer":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
		"empty cookie":   func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: ""}) },
		"loggedout slug": func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: "loggedout"}) },
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mutate(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d, want 401", rec.Code)
			}
		})
	}
}

func TestMaybeUser(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, token := signupToken(t, engine, "lily@example.com")
	h := MaybeUser(engine)(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "-" {
		t.Fatalf("anonymous: %d %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Body.String() != "lily@example.com" {
		t.Fatalf("authenticated: %q", rec.Body.String())
	}

	// A bad token degrades to anonymous instead of failing.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "-" {
		t.Fatalf("bad token: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole(store.RoleAdmin, store.RoleLeadGuide)(ok)

	serve := func(user *store.User) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(ContextWithUser(req.Context(), user))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := serve(&store.User{Role: store.RoleAdmin}); code != http.StatusNoContent {
		t.Fatalf("admin: %d", code)
	}
	if code := serve(&store.User{Role: store.RoleLeadGuide}); code != http.StatusNoContent {
		t.Fatalf("lead-guide: %d", code)
	}
	if code := serve(&store.User{Role: store.RoleUser}); code != http.StatusForbidden {
		t.Fatalf("user: %d, want 403", code)
	}
	if code := serve(nil); code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d, want 401", code)
	}
}
