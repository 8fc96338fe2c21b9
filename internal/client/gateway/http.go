package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkorobov/passdash/internal/client/models"
)

// HTTPVault talks JSON over HTTP to the vault service. The session token is
// attached to every request; the service validates it per call (the backend
// is stateless per request).
type HTTPVault struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewHTTPVault creates a vault client for the given base URL, e.g.
// "http://127.0.0.1:5000".
func NewHTTPVault(baseURL string) *HTTPVault {
	return &HTTPVault{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken installs the session token used for subsequent requests.
func (v *HTTPVault) SetToken(token string) {
	v.token = token
}

// SessionExpiry reports when the current session token expires. The token is
// parsed without signature verification: the value only drives the
// auto-logout countdown, the service remains the authority on validity.
func (v *HTTPVault) SessionExpiry() (time.Time, error) {
	if v.token == "" {
		return time.Time{}, errors.New("no session token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(v.token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing session token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("session token has no expiry")
	}
	return exp.Time, nil
}

// do executes one JSON request. A transport failure comes back as a
// *RequestError; a non-2xx response is mapped through apiError.
func (v *HTTPVault) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, v.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v.token != "" {
		req.Header.Set("Authorization", "Bearer "+v.token)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return &RequestError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Err: err}
	}

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &e)
		return v.apiError(resp.StatusCode, e.Error)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &RequestError{Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

func (v *HTTPVault) apiError(status int, message string) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		if message == "" {
			return ErrNotFound
		}
		return fmt.Errorf("%s: %w", message, ErrNotFound)
	default:
		return &ServerError{Status: status, Message: message}
	}
}

// listedEntry mirrors CredentialEntry with an optional id: the service
// identifies entries by their position in the collection and may omit the
// key entirely.
type listedEntry struct {
	ID           *int   `json:"id"`
	Title        string `json:"title"`
	Website      string `json:"website"`
	Username     string `json:"username"`
	Secret       string `json:"password"`
	SecretHidden bool   `json:"password_hidden"`
	Category     string `json:"category"`
	Notes        string `json:"notes"`
	CreatedAt    int64  `json:"created_at"`
	ModifiedAt   int64  `json:"modified_at"`
}

func (v *HTTPVault) List(ctx context.Context) ([]models.CredentialEntry, error) {
	var out struct {
		Entries []listedEntry `json:"entries"`
	}
	if err := v.do(ctx, http.MethodGet, "/api/passwords", nil, &out); err != nil {
		return nil, err
	}

	entries := make([]models.CredentialEntry, len(out.Entries))
	for i, le := range out.Entries {
		// Positional identity: an entry without an explicit id is addressed
		// by its index in the collection, which is what the per-entry
		// endpoints expect.
		id := i
		if le.ID != nil {
			id = *le.ID
		}
		entries[i] = models.CredentialEntry{
			ID:           id,
			Title:        le.Title,
			Website:      le.Website,
			Username:     le.Username,
			Secret:       le.Secret,
			SecretHidden: le.SecretHidden,
			Category:     le.Category,
			Notes:        le.Notes,
			CreatedAt:    le.CreatedAt,
			ModifiedAt:   le.ModifiedAt,
		}
	}
	return entries, nil
}

func (v *HTTPVault) Create(ctx context.Context, fields models.EntryFields) (int, error) {
	var out struct {
		Entry models.CredentialEntry `json:"entry"`
	}
	if err := v.do(ctx, http.MethodPost, "/api/passwords", fields, &out); err != nil {
		return 0, err
	}
	return out.Entry.ID, nil
}

func (v *HTTPVault) Update(ctx context.Context, id int, fields models.EntryFields) error {
	return v.do(ctx, http.MethodPut, fmt.Sprintf("/api/passwords/%d", id), fields, nil)
}

func (v *HTTPVault) Delete(ctx context.Context, id int) error {
	return v.do(ctx, http.MethodDelete, fmt.Sprintf("/api/passwords/%d", id), nil, nil)
}

func (v *HTTPVault) Decrypt(ctx context.Context, id int) (string, error) {
	var out struct {
		Password string `json:"password"`
	}
	err := v.do(ctx, http.MethodGet, fmt.Sprintf("/api/passwords/decrypt/%d", id), nil, &out)
	if err != nil {
		var srvErr *ServerError
		if errors.As(err, &srvErr) {
			return "", fmt.Errorf("%s: %w", srvErr.Error(), ErrDecrypt)
		}
		return "", err
	}
	return out.Password, nil
}

func (v *HTTPVault) Generate(ctx context.Context, opts models.GeneratorOptions) (Generated, error) {
	var out Generated
	if err := v.do(ctx, http.MethodPost, "/api/generate-password", opts, &out); err != nil {
		return Generated{}, err
	}
	return out, nil
}

func (v *HTTPVault) ShareCreate(ctx context.Context, entryID, expirationHours, accessLimit int) (ShareGrant, error) {
	in := struct {
		EntryID         int `json:"entry_id"`
		ExpirationHours int `json:"expiration_hours"`
		AccessCount     int `json:"access_count"`
	}{entryID, expirationHours, accessLimit}

	var out ShareGrant
	if err := v.do(ctx, http.MethodPost, "/api/share", in, &out); err != nil {
		return ShareGrant{}, err
	}
	return out, nil
}

func (v *HTTPVault) ShareList(ctx context.Context) ([]models.ShareRecord, error) {
	var out struct {
		Shares []models.ShareRecord `json:"shares"`
	}
	if err := v.do(ctx, http.MethodGet, "/api/shares", nil, &out); err != nil {
		return nil, err
	}
	return out.Shares, nil
}

func (v *HTTPVault) ShareRevoke(ctx context.Context, shareID string) error {
	return v.do(ctx, http.MethodDelete, "/api/shares/"+shareID, nil, nil)
}

func (v *HTTPVault) ShareConsume(ctx context.Context, shareID, accessKey string) (models.SharedEntry, error) {
	in := struct {
		AccessKey string `json:"access_key"`
	}{accessKey}

	var out struct {
		Entry models.SharedEntry `json:"entry"`
	}
	err := v.do(ctx, http.MethodPost, "/api/shared/"+shareID, in, &out)
	if err != nil {
		var srvErr *ServerError
		if errors.As(err, &srvErr) && srvErr.Status == http.StatusForbidden {
			if strings.Contains(strings.ToLower(srvErr.Message), "expired") {
				return models.SharedEntry{}, fmt.Errorf("%s: %w", srvErr.Error(), ErrExpired)
			}
			return models.SharedEntry{}, fmt.Errorf("%s: %w", srvErr.Error(), ErrAccessDenied)
		}
		return models.SharedEntry{}, err
	}
	return out.Entry, nil
}

func (v *HTTPVault) GetSettings(ctx context.Context) (Settings, error) {
	var out Settings
	if err := v.do(ctx, http.MethodGet, "/api/settings", nil, &out); err != nil {
		return Settings{}, err
	}
	return out, nil
}

func (v *HTTPVault) SaveSettings(ctx context.Context, s Settings) error {
	return v.do(ctx, http.MethodPost, "/api/settings", s, nil)
}
