package rescue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Gateway defines every backend call the client makes. It is implemented by
// *Client; controllers depend on the interface so tests can substitute fakes.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	FetchPets(ctx context.Context) ([]Pet, error)
	FetchApplications(ctx context.Context) ([]Application, error)
	FetchTasks(ctx context.Context) ([]Task, error)
	FetchAdoptionsByMonth(ctx context.Context) ([]MonthlyCount, error)
	FetchDonationsSummary(ctx context.Context) (DonationsSummary, error)
	FetchPetsByStatus(ctx context.Context) ([]StatusCount, error)
	FetchSettings(ctx context.Context) (Organization, error)
	SaveSettings(ctx context.Context, org Organization) error
	FetchPortal(ctx context.Context) (PortalSummary, error)
	FetchVetPets(ctx context.Context) ([]Pet, error)
	FetchMedicalRecords(ctx context.Context, petID int64) ([]MedicalRecord, error)
}

// Ensure Client implements Gateway at compile time.
var _ Gateway = (*Client)(nil)

// TokenSource supplies the bearer credential attached to each request.
type TokenSource interface {
	Token() (string, bool)
}

// Client talks to the RescueWorks HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "rescuetui/0.1"
	defaultTimeout   = 10 * time.Second
	maxBodyBytes     = 1 << 20

	headerRequestID = "X-Request-ID"
)

// Option customises a Client.
type Option func(*Client)

// WithTokenSource attaches bearer tokens read from ts on every request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient swaps the underlying transport client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var payload TokenResponse
	body := strings.NewReader(form.Encode())
	if err := c.do(ctx, http.MethodPost, "/auth/token", body, "application/x-www-form-urlencoded", &payload); err != nil {
		return "", err
	}
	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		return "", fmt.Errorf("login response missing access_token")
	}
	return token, nil
}

// FetchPets lists the organization's pets.
func (c *Client) FetchPets(ctx context.Context) ([]Pet, error) {
	var pets []Pet
	if err := c.get(ctx, "/pets", &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// FetchApplications lists adoption and foster applications.
func (c *Client) FetchApplications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := c.get(ctx, "/applications", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// FetchTasks lists organization tasks.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FetchAdoptionsByMonth returns the monthly adoption series.
func (c *Client) FetchAdoptionsByMonth(ctx context.Context) ([]MonthlyCount, error) {
	var series []MonthlyCount
	if err := c.get(ctx, "/stats/adoptions_by_month", &series); err != nil {
		return nil, err
	}
	return series, nil
}

// FetchDonationsSummary returns the donation aggregate.
func (c *Client) FetchDonationsSummary(ctx context.Context) (DonationsSummary, error) {
	var summary DonationsSummary
	if err := c.get(ctx, "/stats/donations_summary", &summary); err != nil {
		return DonationsSummary{}, err
	}
	return summary, nil
}

// FetchPetsByStatus returns the pet status histogram.
func (c *Client) FetchPetsByStatus(ctx context.Context) ([]StatusCount, error) {
	var buckets []StatusCount
	if err := c.get(ctx, "/stats/pets_by_status", &buckets); err != nil {
		return nil, err
	}
	return buckets, nil
}

// FetchSettings returns the organization settings.
func (c *Client) FetchSettings(ctx context.Context) (Organization, error) {
	var payload SettingsEnvelope
	if err := c.get(ctx, "/settings", &payload); err != nil {
		return Organization{}, err
	}
	return payload.Organization, nil
}

// SaveSettings replaces the organization settings wholesale.
func (c *Client) SaveSettings(ctx context.Context, org Organization) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	raw, err := json.Marshal(SettingsEnvelope{Organization: org})
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return c.do(ctx, http.MethodPut, "/settings", bytes.NewReader(raw), "application/json", nil)
}

// FetchPortal returns the signed-in user's applications, foster pets and tasks.
func (c *Client) FetchPortal(ctx context.Context) (PortalSummary, error) {
	var summary PortalSummary
	if err := c.get(ctx, "/portal/me", &summary); err != nil {
		return PortalSummary{}, err
	}
	return summary, nil
}

// FetchVetPets lists the pets visible to veterinary staff.
func (c *Client) FetchVetPets(ctx context.Context) ([]Pet, error) {
	var pets []Pet
	if err := c.get(ctx, "/vet/pets", &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// FetchMedicalRecords lists medical records for one pet.
func (c *Client) FetchMedicalRecords(ctx context.Context, petID int64) ([]MedicalRecord, error) {
	if petID <= 0 {
		return nil, fmt.Errorf("pet id required")
	}
	var records []MedicalRecord
	path := "/vet/pets/" + strconv.FormatInt(petID, 10) + "/medical"
	if err := c.get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, path, nil, "", dest)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dest any) error {
	// Join rather than resolve so a base path prefix such as /api survives.
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tooLarge := len(raw) > maxBodyBytes
	if tooLarge {
		raw = raw[:maxBodyBytes]
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(raw),
		}
	}
	if tooLarge {
		return fmt.Errorf("%s %s: %w", method, path, ErrResponseTooLarge)
	}
	if dest == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ErrResponseTooLarge reports a success body over the 1 MiB read limit.
var ErrResponseTooLarge = errors.New("response too large")

// ErrUnauthorized matches APIErrors caused by a missing or rejected token.
var ErrUnauthorized = errors.New("unauthorized")

// APIError reports a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses.
func (e *APIError) Is(target error) bool {
	if target != ErrUnauthorized {
		return false
	}
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// errorDetail pulls the FastAPI {"detail": ...} message out of an error body.
func errorDetail(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Detail) == 0 {
		return truncateDetail(trimmed)
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	// Validation errors arrive as a list of objects.
	return truncateDetail(string(payload.Detail))
}

func truncateDetail(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
