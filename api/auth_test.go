package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/missiondeck/api"
	"github.com/garnizeh/missiondeck/internal/repository/memory"
	"github.com/garnizeh/missiondeck/pkg/models"
	"github.com/garnizeh/missiondeck/pkg/repository"
	"github.com/garnizeh/missiondeck/pkg/repository/mock"
)

func hashed(t *testing.T, pw string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	checkToken := func(t *testing.T, b []byte) {
		var ar struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(b, &ar); err != nil {
			t.Fatalf("unmarshal token: %v", err)
		}
		if ar.Token == "" {
			t.Fatalf("empty token")
		}
		tok, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil })
		if err != nil {
			t.Fatalf("invalid token: %v", err)
		}
		sub, err := tok.Claims.GetSubject()
		if err != nil || sub == "" {
			t.Fatalf("missing sub claim")
		}
		if exp, err := tok.Claims.GetExpirationTime(); err != nil || exp == nil || exp.Before(time.Now()) {
			t.Fatalf("invalid exp claim")
		}
	}

	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(t *testing.T, m *mock.Mocks)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Signup_InvalidRequest",
			path:       "/signup",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Email",
			path:       "/signup",
			body:       map[string]string{"password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_MissingFields_Password",
			path:       "/signup",
			body:       map[string]string{"email": "alice@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_BlankEmail",
			path:       "/signup",
			body:       map[string]string{"email": "   ", "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_WrongType",
			path:       "/signup",
			body:       map[string]any{"email": 42, "password": "s3cret"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signup_Success",
			path:       "/signup",
			body:       map[string]string{"email": "Alice@Example.com", "password": "s3cret"},
			wantStatus: http.StatusCreated,
			checkBody:  checkToken,
		},
		{
			name: "Signup_DuplicateEmail",
			path: "/signup",
			body: map[string]string{"email": "dup@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Users.Stored = &models.User{ID: "u-1", Email: "dup@example.com"}
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "Signup_LostInsertRace",
			path: "/signup",
			body: map[string]string{"email": "race@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Users.CreateErr = fmt.Errorf("email race@example.com: %w", repository.ErrConflict)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "Signup_StoreFailure",
			path: "/signup",
			body: map[string]string{"email": "new@example.com", "password": "pw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Users.CreateErr = fmt.Errorf("disk full")
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Signin_InvalidRequest",
			path:       "/signin",
			body:       "not a json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingFields_Password",
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Signin_MissingUser",
			path:       "/signin",
			body:       map[string]string{"email": "missing@example.com", "password": "nop"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Signin_Success",
			path: "/signin",
			body: map[string]string{"email": "bob@example.com", "password": "hunter2"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Users.Stored = &models.User{ID: "u-2", Email: "bob@example.com", PasswordHash: hashed(t, "hunter2")}
			},
			wantStatus: http.StatusOK,
			checkBody:  checkToken,
		},
		{
			name: "Signin_WrongPassword",
			path: "/signin",
			body: map[string]string{"email": "c@example.com", "password": "wrongpw"},
			prepare: func(t *testing.T, m *mock.Mocks) {
				m.Users.Stored = &models.User{ID: "u-3", Email: "c@example.com", PasswordHash: hashed(t, "rightpw")}
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Signout_OK",
			path:       "/signout",
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				if !bytes.Contains(b, []byte("signed out")) {
					t.Fatalf("unexpected body: %s", string(b))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			if tt.prepare != nil {
				tt.prepare(t, mocks)
			}
			handler := api.NewAuthHandler(mocks.Users, secret, tokenDur)

			var bodyReader io.Reader
			switch b := tt.body.(type) {
			case nil:
			case string:
				bodyReader = bytes.NewReader([]byte(b))
			default:
				data, _ := json.Marshal(b)
				bodyReader = bytes.NewReader(data)
			}
			req := httptest.NewRequest(http.MethodPost, tt.path, bodyReader)
			w := httptest.NewRecorder()

			switch tt.path {
			case "/signup":
				handler.Signup(w, req)
			case "/signin":
				handler.Signin(w, req)
			case "/signout":
				handler.Signout(w, req)
			default:
				t.Fatalf("unknown path %s", tt.path)
			}

			res := w.Result()
			defer res.Body.Close()
			data, _ := io.ReadAll(res.Body)
			if res.StatusCode != tt.wantStatus {
				t.Fatalf("%s: expected status %d got %d body=%s", tt.name, tt.wantStatus, res.StatusCode, string(data))
			}
			if tt.checkBody != nil {
				tt.checkBody(t, data)
			}
		})
	}
}

func TestSignup_StoresNormalizedUser(t *testing.T) {
	mocks := mock.NewMocks()
	handler := api.NewAuthHandler(mocks.Users, "testsecret", time.Hour)

	body := bytes.NewReader([]byte(`{"email":"  Carol@Example.COM ","password":"pw"}`))
	w := httptest.NewRecorder()
	handler.Signup(w, httptest.NewRequest(http.MethodPost, "/signup", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	u := mocks.Users.Stored
	if u == nil {
		t.Fatal("user not stored")
	}
	if u.Email != "carol@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.ID == "" {
		t.Fatal("user id not assigned")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw")) != nil {
		t.Fatal("stored hash does not match password")
	}
}

func TestSignup_ConcurrentSameEmail(t *testing.T) {
	store := memory.New()
	handler := api.NewAuthHandler(store, "testsecret", time.Hour)

	const n = 8
	codes := make(chan int, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := bytes.NewReader([]byte(`{"email":"same@example.com","password":"pw"}`))
			w := httptest.NewRecorder()
			handler.Signup(w, httptest.NewRequest(http.MethodPost, "/signup", body))
			codes <- w.Code
		}()
	}
	wg.Wait()
	close(codes)

	created, conflicts := 0, 0
	for c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", c)
		}
	}
	if created != 1 || conflicts != n-1 {
		t.Fatalf("created=%d conflicts=%d, want 1 and %d", created, conflicts, n-1)
	}
}
