package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"hrclient/internal/domain/attendance"
	"hrclient/internal/platform/securestore"
	"hrclient/internal/session"
)

func signToken(t *testing.T, userID string, permissions []string) string {
	t.Helper()
	claims := session.Claims{
		UserID:      userID,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	vault := securestore.NewFileVault(filepath.Join(t.TempDir(), "session.vault"), "test-pass")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(vault, logger)
	return New(server.URL, store, server.Client(), logger), store
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(map[string]any{"data": data}))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"message": message})
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID string
	router := chi.NewRouter()
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		writeData(t, w, []map[string]string{{"id": "c1", "name": "Acme"}})
	})

	client, store := newTestClient(t, router)
	token := signToken(t, "u-1", nil)
	require.NoError(t, store.SetToken(token, "refresh-1"))

	companies, err := client.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, "Bearer "+token, gotAuth)
	require.NotEmpty(t, gotRequestID)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var sawHeader bool
	router := chi.NewRouter()
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		writeData(t, w, []map[string]string{})
	})

	client, _ := newTestClient(t, router)
	_, err := client.Companies(context.Background())
	require.NoError(t, err)
	require.False(t, sawHeader, "no Authorization header may be attached with an empty session")
}

func TestLoginUppercasesUsernameAndStoresTokens(t *testing.T) {
	accessToken := signToken(t, "u-7", []string{"hr"})
	router := chi.NewRouter()
	router.Post("/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "MSFD001", body["username"])
		require.Equal(t, "secret", body["password"])
		writeData(t, w, map[string]string{"access_token": accessToken, "refresh_token": "refresh-7"})
	})

	client, store := newTestClient(t, router)
	claims, err := client.Login(context.Background(), "  msfd001 ", "secret")
	require.NoError(t, err)
	require.True(t, claims.IsHR(), "hr permission must route to the HR area")

	state := store.Current()
	require.Equal(t, accessToken, state.AccessToken)
	require.Equal(t, "refresh-7", state.RefreshToken)
	require.Equal(t, "u-7", state.Claims.UserID)
}

func TestForbiddenTriggersSingleRefreshAndReplay(t *testing.T) {
	oldToken := signToken(t, "u-1", nil)
	newToken := signToken(t, "u-1", []string{"attendance"})

	var refreshCalls, dataCalls atomic.Int32
	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		require.Equal(t, "u-1", r.URL.Query().Get("user_id"))
		require.Equal(t, "refresh-1", r.URL.Query().Get("token"))
		require.Empty(t, r.Header.Get("Authorization"), "refresh call must be unauthenticated")
		writeData(t, w, map[string]string{"access_token": newToken})
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		if r.Header.Get("Authorization") == "Bearer "+newToken {
			writeData(t, w, []map[string]string{{"id": "c1", "name": "Acme"}})
			return
		}
		writeError(w, http.StatusForbidden, "token stale")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(oldToken, "refresh-1"))

	companies, err := client.Companies(context.Background())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh call")
	require.Equal(t, int32(2), dataCalls.Load(), "original request replayed exactly once")
	require.Equal(t, newToken, store.Current().AccessToken)
	require.Equal(t, "refresh-1", store.Current().RefreshToken, "refresh token must be unchanged")
}

func TestSecondForbiddenDoesNotRefreshAgain(t *testing.T) {
	oldToken := signToken(t, "u-1", nil)
	newToken := signToken(t, "u-1", nil)

	var refreshCalls, dataCalls atomic.Int32
	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeData(t, w, map[string]string{"access_token": newToken})
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		dataCalls.Add(1)
		writeError(w, http.StatusForbidden, "still forbidden")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(oldToken, "refresh-1"))

	_, err := client.Companies(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.Equal(t, int32(1), refreshCalls.Load(), "replay failure must not trigger another refresh")
	require.Equal(t, int32(2), dataCalls.Load())
}

func TestRefreshRejectedClearsSessionAndSignals(t *testing.T) {
	oldToken := signToken(t, "u-1", nil)

	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "refresh token expired")
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "token stale")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(oldToken, "refresh-1"))

	var expired atomic.Bool
	client.OnSessionExpired(func() { expired.Store(true) })

	_, err := client.Companies(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, expired.Load(), "expired signal must fire")

	state := store.Current()
	require.Empty(t, state.AccessToken)
	require.Empty(t, state.RefreshToken)
	require.Nil(t, state.Claims)
}

func TestRefreshWithoutUsableTokenRejectsWithOriginalError(t *testing.T) {
	oldToken := signToken(t, "u-1", nil)

	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeData(t, w, map[string]string{})
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "token stale")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(oldToken, "refresh-1"))

	_, err := client.Companies(context.Background())
	require.ErrorIs(t, err, ErrRefreshNoToken)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr, "original error must be surfaced")
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.True(t, store.Current().Authenticated(), "session is not cleared on a tokenless refresh")
}

func TestMissingRefreshTokenFails(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "token stale")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(signToken(t, "u-1", nil), ""))

	var expired atomic.Bool
	client.OnSessionExpired(func() { expired.Store(true) })

	_, err := client.Companies(context.Background())
	require.ErrorIs(t, err, ErrNoRefreshToken)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, expired.Load())
	require.False(t, store.Current().Authenticated())
}

func TestUnauthorizedAlwaysEndsSession(t *testing.T) {
	var refreshCalls atomic.Int32
	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(signToken(t, "u-1", nil), "refresh-1"))

	var expired atomic.Bool
	client.OnSessionExpired(func() { expired.Store(true) })

	_, err := client.Companies(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, expired.Load())
	require.False(t, store.Current().Authenticated())
	require.Zero(t, refreshCalls.Load(), "plain unauthenticated must never attempt a refresh")
}

func TestConcurrentForbiddenRequestsShareOneRefresh(t *testing.T) {
	oldToken := signToken(t, "u-1", nil)
	newToken := signToken(t, "u-1", nil)

	var refreshCalls atomic.Int32
	router := chi.NewRouter()
	router.Get("/users/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeData(t, w, map[string]string{"access_token": newToken})
	})
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+newToken {
			writeData(t, w, []map[string]string{})
			return
		}
		writeError(w, http.StatusForbidden, "token stale")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(oldToken, "refresh-1"))

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.Companies(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), refreshCalls.Load(), "concurrent failures must share a single refresh")
}

func TestEnvelopeMismatchFailsLoudly(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/companies", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"unexpected":"shape"}`))
	})

	client, _ := newTestClient(t, router)
	_, err := client.Companies(context.Background())
	require.ErrorIs(t, err, ErrEnvelope)
}

func TestUploadAttendanceImage(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/attendance/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "check-in-image.jpg", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, "jpeg-bytes", string(content))
		writeData(t, w, "https://cdn.example.com/u/img-1.jpg")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(signToken(t, "u-1", nil), "refresh-1"))

	url, err := client.UploadAttendanceImage(context.Background(), "check-in-image.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/u/img-1.jpg", url)
}

func TestOfficeCheckInOmitsMediaKeys(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/attendance/check-in", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "OFFICE", payload["check_in_type"])
		require.NotContains(t, payload, "image_url")
		require.NotContains(t, payload, "location")
		writeData(t, w, map[string]string{"id": "rec-1"})
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(signToken(t, "u-1", nil), "refresh-1"))

	err := client.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID:  "e-1",
		CheckInType: attendance.TypeOffice,
		CheckInTime: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestAPIErrorMessage(t *testing.T) {
	router := chi.NewRouter()
	router.Post("/attendance/check-in", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusConflict, "already checked in for today")
	})

	client, store := newTestClient(t, router)
	require.NoError(t, store.SetToken(signToken(t, "u-1", nil), "refresh-1"))

	err := client.CheckIn(context.Background(), attendance.CheckInRequest{
		EmployeeID:  "e-1",
		CheckInType: attendance.TypeOffice,
		CheckInTime: time.Now().UTC(),
	})
	require.Error(t, err)
	require.Equal(t, "already checked in for today", Message(err, "fallback"))
	require.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
}
