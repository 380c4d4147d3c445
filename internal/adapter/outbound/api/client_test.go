package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/session"
)

func TestDoAttachesAuthorizationAndJSONContentType(t *testing.T) {
	var gotAuth, gotContentType, gotRequestID string
	var gotBody LoginRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok", TokenType: "bearer", ExpiresIn: 1800})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	client.SetCredential(session.Credential{Token: "secret-token", Scheme: "Bearer"})

	var resp TokenResponse
	err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   LoginRequest{Email: "a@example.com", Password: "pw"},
	}, &resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("unexpected content-type: %q", gotContentType)
	}
	if gotRequestID == "" {
		t.Error("expected X-Request-ID header")
	}
	if gotBody.Email != "a@example.com" {
		t.Errorf("unexpected body: %+v", gotBody)
	}
	if resp.AccessToken != "tok" || resp.TokenType != "bearer" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDoAnonymousWhenNoCredential(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoClearCredential(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	client.SetCredential(session.Credential{Token: "tok", Scheme: "Bearer"})
	client.ClearCredential()

	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("expected no Authorization header after clear, got %q", gotAuth)
	}
}

func TestDoMultipartOmitsJSONContentTypeButKeepsAuth(t *testing.T) {
	var gotAuth, gotContentType string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		f, _, err := r.FormFile("avatar")
		if err != nil {
			t.Fatalf("missing avatar file: %v", err)
		}
		defer f.Close()
		gotFile, _ = io.ReadAll(f)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	form, err := NewFileForm("avatar", "me.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatal(err)
	}

	client := NewClient(WithBaseURL(server.URL))
	client.SetCredential(session.Credential{Token: "tok", Scheme: "Bearer"})

	err = client.Do(context.Background(), Request{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Form:   form,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer tok" {
		t.Errorf("expected Authorization on multipart request, got %q", gotAuth)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data; boundary=") {
		t.Errorf("expected multipart content type with boundary, got %q", gotContentType)
	}
	if string(gotFile) != "png-bytes" {
		t.Errorf("unexpected file contents: %q", gotFile)
	}
}

func TestDoExtractsDetailFromErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("expected errors.Is(err, ErrHTTPStatus), err type: %T", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", statusErr.Status)
	}
	if statusErr.Detail != "Incorrect email or password" {
		t.Errorf("unexpected detail: %q", statusErr.Detail)
	}
	if statusErr.Error() != "Incorrect email or password" {
		t.Errorf("unexpected message: %q", statusErr.Error())
	}
}

func TestDoFallsBackToTemplatedMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"}, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.Error() != "HTTP error: 502 Bad Gateway" {
		t.Errorf("unexpected message: %q", statusErr.Error())
	}
}

func TestDoClassifiesTransportFailure(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(WithBaseURL(server.URL))
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/auth/me"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected errors.Is(err, ErrTransport), err type: %T", err)
	}
	if errors.Is(err, ErrHTTPStatus) {
		t.Error("transport failures must not classify as HTTP errors")
	}
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if transportErr.Cause == nil {
		t.Error("expected underlying cause to be preserved")
	}
}

func TestDoRecordsMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	client := NewClient(WithBaseURL(server.URL), WithMetrics(m))

	if err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products"}, nil); err != nil {
		t.Fatal(err)
	}

	got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "200"))
	if got != 1 {
		t.Errorf("expected 1 request recorded, got %v", got)
	}
}

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"structured detail", `{"detail":[{"loc":["body","email"],"msg":"invalid"}]}`, ""},
		{"no detail", `{"message":"nope"}`, ""},
		{"not json", `<html></html>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractDetail([]byte(tc.body)); got != tc.want {
				t.Errorf("extractDetail(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Setenv("REVIEWHUB_API_URL", "")
	t.Setenv("REVIEWHUB_API_TIMEOUT", "")

	client := NewClient()
	if client.BaseURL() != DefaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", DefaultBaseURL, client.BaseURL())
	}
}

func TestNewClientEnvOverride(t *testing.T) {
	t.Setenv("REVIEWHUB_API_URL", "http://api.internal:9000")

	client := NewClient()
	if client.BaseURL() != "http://api.internal:9000" {
		t.Errorf("expected env base URL, got %q", client.BaseURL())
	}
}
