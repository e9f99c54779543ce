package boundary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient("https://boundary.example.com:9200")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	if client.Addr() != "https://boundary.example.com:9200" {
		t.Errorf("unexpected addr: %s", client.Addr())
	}

	if _, err := NewClient(""); err == nil {
		t.Error("NewClient should reject an empty address")
	}
}

func TestAuthenticate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/auth-methods/ampw_1234567890:authenticate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("authenticate must not send a prior token")
		}

		var req authenticateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Attributes.LoginName != "svc-remover" {
			t.Errorf("unexpected login_name: %s", req.Attributes.LoginName)
		}
		if req.Attributes.Password != "s3cret" {
			t.Errorf("unexpected password: %s", req.Attributes.Password)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"attributes":{"token":"at_token123"}}`)
	}))

	token, err := client.Authenticate(context.Background(), "ampw_1234567890", "svc-remover", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if token != "at_token123" {
		t.Errorf("unexpected token: %s", token)
	}
}

func TestAuthenticateNoToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"attributes":{}}`)
	}))

	_, err := client.Authenticate(context.Background(), "ampw_1", "svc-remover", "s3cret")
	assertActionError(t, err, apperrors.ErrCodeNoToken, false)
	if !strings.Contains(err.Error(), "no token returned") {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestAuthenticateFailureClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{http.StatusTooManyRequests, apperrors.ErrCodeRateLimit, true},
		{http.StatusUnauthorized, apperrors.ErrCodeAuthFailed, false},
		{http.StatusForbidden, apperrors.ErrCodeAuthFailed, false},
		{http.StatusInternalServerError, apperrors.ErrCodeServer, true},
		{http.StatusBadGateway, apperrors.ErrCodeServer, true},
		{http.StatusServiceUnavailable, apperrors.ErrCodeServer, true},
		{http.StatusBadRequest, apperrors.ErrCodeUnexpectedStatus, false},
		{http.StatusNotFound, apperrors.ErrCodeUnexpectedStatus, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			}))

			_, err := client.Authenticate(context.Background(), "ampw_1", "svc-remover", "s3cret")
			assertActionError(t, err, tt.wantCode, tt.retryable)

			// Credentials never leak into error text
			if strings.Contains(err.Error(), "s3cret") || strings.Contains(err.Error(), "svc-remover") {
				t.Errorf("error leaks credentials: %v", err)
			}
		})
	}
}

func TestReadGroup(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/groups/g_1234567890" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer at_token123" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		fmt.Fprint(w, `{"id":"g_1234567890","name":"operators","version":5}`)
	}))

	group, err := client.ReadGroup(context.Background(), "g_1234567890", "at_token123")
	if err != nil {
		t.Fatalf("ReadGroup() error: %v", err)
	}
	if group.Version != 5 {
		t.Errorf("unexpected version: %d", group.Version)
	}
	if group.ID != "g_1234567890" {
		t.Errorf("unexpected id: %s", group.ID)
	}
}

func TestReadGroupVersionZero(t *testing.T) {
	// version 0 is present, just unusual; only absence is malformed
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"g_1","version":0}`)
	}))

	group, err := client.ReadGroup(context.Background(), "g_1", "at_token123")
	if err != nil {
		t.Fatalf("ReadGroup() error: %v", err)
	}
	if group.Version != 0 {
		t.Errorf("unexpected version: %d", group.Version)
	}
}

func TestReadGroupNoVersion(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"g_1","name":"operators"}`)
	}))

	_, err := client.ReadGroup(context.Background(), "g_1", "at_token123")
	assertActionError(t, err, apperrors.ErrCodeNoVersion, false)
}

func TestReadGroupFailureClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{http.StatusTooManyRequests, apperrors.ErrCodeRateLimit, true},
		{http.StatusUnauthorized, apperrors.ErrCodeTokenExpired, false},
		{http.StatusNotFound, apperrors.ErrCodeNotFound, false},
		{http.StatusInternalServerError, apperrors.ErrCodeServer, true},
		{http.StatusGatewayTimeout, apperrors.ErrCodeServer, true},
		{http.StatusForbidden, apperrors.ErrCodeUnexpectedStatus, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.ReadGroup(context.Background(), "g_1", "at_token123")
			assertActionError(t, err, tt.wantCode, tt.retryable)
		})
	}
}

func TestReadGroupNotFoundNamesGroup(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.ReadGroup(context.Background(), "g_missing", "at_token123")
	if !strings.Contains(err.Error(), "group not found: g_missing") {
		t.Errorf("error should name the group: %v", err)
	}
}

func TestRemoveMembers(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/groups/g_1234567890:remove-members" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer at_token123" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req removeMembersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Version != 5 {
			t.Errorf("unexpected version: %d", req.Version)
		}
		if len(req.MemberIDs) != 1 || req.MemberIDs[0] != "u_1234567890" {
			t.Errorf("unexpected member_ids: %v", req.MemberIDs)
		}

		fmt.Fprint(w, `{"id":"g_1234567890","version":6}`)
	}))

	err := client.RemoveMembers(context.Background(), "g_1234567890", "at_token123", 5, "u_1234567890")
	if err != nil {
		t.Fatalf("RemoveMembers() error: %v", err)
	}
}

func TestRemoveMembersFailureClassification(t *testing.T) {
	tests := []struct {
		status    int
		wantCode  apperrors.ErrorCode
		retryable bool
	}{
		{http.StatusTooManyRequests, apperrors.ErrCodeRateLimit, true},
		{http.StatusUnauthorized, apperrors.ErrCodeTokenExpired, false},
		{http.StatusNotFound, apperrors.ErrCodeNotFound, false},
		{http.StatusConflict, apperrors.ErrCodeConflict, false},
		{http.StatusInternalServerError, apperrors.ErrCodeServer, true},
		{http.StatusServiceUnavailable, apperrors.ErrCodeServer, true},
		{http.StatusBadRequest, apperrors.ErrCodeUnexpectedStatus, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			err := client.RemoveMembers(context.Background(), "g_1", "at_token123", 5, "u_1")
			assertActionError(t, err, tt.wantCode, tt.retryable)
		})
	}
}

func TestUnexpectedStatusIncludesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"malformed group id"}`)
	}))

	err := client.RemoveMembers(context.Background(), "g_1", "at_token123", 5, "u_1")
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error should carry the status: %v", err)
	}
	if !strings.Contains(err.Error(), "malformed group id") {
		t.Errorf("error should carry the response body: %v", err)
	}
}

func TestUnexpectedStatusTruncatesBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, strings.Repeat("x", 4096))
	}))

	err := client.RemoveMembers(context.Background(), "g_1", "at_token123", 5, "u_1")
	if len(err.Error()) > 1024 {
		t.Errorf("error body should be truncated, got %d bytes", len(err.Error()))
	}
	if !strings.Contains(err.Error(), "...") {
		t.Errorf("truncated body should be marked: %v", err)
	}
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// The leading byte shifts every 4-byte rune off the truncation
	// boundary, so a naive byte slice would split one in half.
	body := []byte("x" + strings.Repeat("🙂", 200))

	got := truncate(body)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated body should be marked: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated body must stay valid UTF-8: %q", got)
	}
	if len(got) > maxErrorBody+3 {
		t.Errorf("truncated body too long: %d bytes", len(got))
	}
}

func TestTruncateShortBodyUntouched(t *testing.T) {
	if got := truncate([]byte("short")); got != "short" {
		t.Errorf("short bodies must pass through unchanged, got %q", got)
	}
}

func TestTransportErrorIsUntagged(t *testing.T) {
	// A client pointed at a closed port fails at the transport layer; such
	// errors stay untagged so the orchestration boundary classifies them.
	client, err := NewClient("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	_, err = client.Authenticate(context.Background(), "ampw_1", "svc-remover", "s3cret")
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if apperrors.IsRetryable(err) {
		t.Error("transport errors must not be pre-tagged retryable")
	}
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ReadGroup(ctx, "g_1", "at_token123")
	if err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

func assertActionError(t *testing.T, err error, wantCode apperrors.ErrorCode, retryable bool) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error")
	}

	actionErr := apperrors.Classify(err)
	if actionErr.Code != wantCode {
		t.Errorf("error code = %s, want %s (err: %v)", actionErr.Code, wantCode, err)
	}
	if actionErr.Retryable() != retryable {
		t.Errorf("retryable = %v, want %v (err: %v)", actionErr.Retryable(), retryable, err)
	}
}
