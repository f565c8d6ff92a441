package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/device"
	"github.com/smazurov/lichtwerk/internal/version"
)

// DefaultTimeout bounds every HTTP call.
const DefaultTimeout = 5 * time.Second

// HTTP implements Transport against the controller's REST API.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTP creates a transport for the server at baseURL, e.g.
// "http://ledstrip.local:8090".
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// mutationResponse is the part of every mutation response the client uses.
type mutationResponse struct {
	State models.StatusData `json:"state"`
}

// problem is huma's RFC 9457 error body.
type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (h *HTTP) Status(ctx context.Context) (models.StatusData, error) {
	var st models.StatusData
	err := h.do(ctx, "get_status", http.MethodGet, "/api/status", nil, &st)
	return st, err
}

func (h *HTTP) SetPower(ctx context.Context, on bool) (models.StatusData, error) {
	return h.mutate(ctx, "set_power", "/api/power", map[string]any{"power": on})
}

func (h *HTTP) SetColor(ctx context.Context, c device.Color) (models.StatusData, error) {
	return h.mutate(ctx, "set_color", "/api/color", c)
}

func (h *HTTP) SetBrightness(ctx context.Context, level int) (models.StatusData, error) {
	return h.mutate(ctx, "set_brightness", "/api/brightness", map[string]any{"brightness": level})
}

func (h *HTTP) SetSpeed(ctx context.Context, speed int) (models.StatusData, error) {
	return h.mutate(ctx, "set_speed", "/api/speed", map[string]any{"speed": speed})
}

func (h *HTTP) SetEffect(ctx context.Context, effectID string) (models.StatusData, error) {
	return h.mutate(ctx, "set_effect", "/api/effect", map[string]any{"effect": effectID})
}

func (h *HTTP) SetEffectOption(ctx context.Context, effectID, key string, value any) (models.StatusData, error) {
	return h.mutate(ctx, "set_effect_option", "/api/effect_option", map[string]any{
		"effect": effectID,
		"key":    key,
		"value":  value,
	})
}

// Effects lists the server's effect catalogue.
func (h *HTTP) Effects(ctx context.Context) ([]models.EffectData, error) {
	var out models.EffectsData
	if err := h.do(ctx, "list_effects", http.MethodGet, "/api/effects", nil, &out); err != nil {
		return nil, err
	}
	return out.Effects, nil
}

func (h *HTTP) mutate(ctx context.Context, op, path string, body any) (models.StatusData, error) {
	var out mutationResponse
	err := h.do(ctx, op, http.MethodPost, path, body, &out)
	return out.State, err
}

func (h *HTTP) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &TransportError{Op: op, Status: resp.StatusCode}
		var p problem
		if json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&p) == nil {
			terr.Detail = p.Detail
			if terr.Detail == "" {
				terr.Detail = p.Title
			}
		}
		return terr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
