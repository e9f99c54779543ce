// Package boundary is a minimal client for the three IAM API calls the
// removal sequence performs: authenticate, read group, remove members.
// Each call maps its HTTP failure modes onto the Retryable|Fatal taxonomy.
package boundary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"unicode/utf8"

	apperrors "github.com/felixgeelhaar/groupctl/internal/errors"
)

// maxErrorBody bounds how much of a response body is copied into error
// messages, enough to diagnose without flooding the log stream.
const maxErrorBody = 512

// Client talks to a Boundary-compatible IAM API.
type Client struct {
	addr       string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests and
// for frameworks that inject their own transport with timeout policy.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the API at addr. Timeouts are deliberately
// not set here; the invoking framework owns deadline policy through the
// context it passes to each call.
func NewClient(addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, apperrors.NewMissingAddressError("--addr", "GROUPCTL_ADDR")
	}

	c := &Client{
		addr:       addr,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Addr returns the configured base address
func (c *Client) Addr() string {
	return c.addr
}

// Authenticate exchanges the login credentials for a short-lived session
// token via POST /v1/auth-methods/{id}:authenticate. The credentials appear
// only in the request body, never in errors or logs.
func (c *Client) Authenticate(ctx context.Context, authMethodID, loginName, password string) (string, error) {
	path := fmt.Sprintf("/v1/auth-methods/%s:authenticate", url.PathEscape(authMethodID))
	payload := authenticateRequest{
		Attributes: authenticateAttributes{
			LoginName: loginName,
			Password:  password,
		},
	}

	status, body, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return "", err
	}

	switch {
	case is2xx(status):
		var resp authenticateResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("unmarshal authenticate response: %w", err)
		}
		if resp.Attributes.Token == "" {
			return "", apperrors.NewNoTokenError()
		}
		return resp.Attributes.Token, nil
	case status == http.StatusTooManyRequests:
		return "", apperrors.NewRateLimitError("authentication")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "", apperrors.NewAuthenticationError()
	case status >= 500:
		return "", apperrors.NewServerError("authentication", status)
	default:
		return "", apperrors.NewUnexpectedStatusError("authentication", status, http.StatusText(status), truncate(body))
	}
}

// ReadGroup fetches current group metadata via GET /v1/groups/{id}. The
// returned Version is the mandatory precondition for RemoveMembers.
func (c *Client) ReadGroup(ctx context.Context, groupID, token string) (*Group, error) {
	path := fmt.Sprintf("/v1/groups/%s", url.PathEscape(groupID))

	status, body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case is2xx(status):
		var resp groupResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal group response: %w", err)
		}
		if resp.Version == nil {
			return nil, apperrors.NewNoVersionError()
		}
		return &Group{ID: resp.ID, Name: resp.Name, Version: *resp.Version}, nil
	case status == http.StatusTooManyRequests:
		return nil, apperrors.NewRateLimitError("group read")
	case status == http.StatusUnauthorized:
		return nil, apperrors.NewTokenExpiredError()
	case status == http.StatusNotFound:
		return nil, apperrors.NewGroupNotFoundError(groupID)
	case status >= 500:
		return nil, apperrors.NewServerError("group read", status)
	default:
		return nil, apperrors.NewUnexpectedStatusError("group read", status, http.StatusText(status), truncate(body))
	}
}

// RemoveMembers removes the given members from a group via
// POST /v1/groups/{id}:remove-members. version must match the server's
// current group version or the call fails with a 409 conflict, which is
// surfaced Fatal: a caller wanting the removal to proceed re-runs the whole
// authenticate/read/remove sequence against a fresh version.
func (c *Client) RemoveMembers(ctx context.Context, groupID, token string, version int, memberIDs ...string) error {
	path := fmt.Sprintf("/v1/groups/%s:remove-members", url.PathEscape(groupID))
	payload := removeMembersRequest{
		Version:   version,
		MemberIDs: memberIDs,
	}

	status, body, err := c.do(ctx, http.MethodPost, path, token, payload)
	if err != nil {
		return err
	}

	switch {
	case is2xx(status):
		return nil
	case status == http.StatusTooManyRequests:
		return apperrors.NewRateLimitError("member removal")
	case status == http.StatusUnauthorized:
		return apperrors.NewTokenExpiredError()
	case status == http.StatusNotFound:
		return apperrors.NewMemberNotFoundError()
	case status == http.StatusConflict:
		return apperrors.NewConflictError()
	case status >= 500:
		return apperrors.NewServerError("member removal", status)
	default:
		return apperrors.NewUnexpectedStatusError("member removal", status, http.StatusText(status), truncate(body))
	}
}

// do performs one API call and returns the status and raw body. Transport
// failures come back untagged; the orchestration boundary classifies them.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.addr+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}

	// Back up to a rune boundary so the error message stays valid UTF-8
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut]) + "..."
}
