package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lichtwerk/internal/statusled"
)

// StatusLEDResponse reports the board indicator LED.
type StatusLEDResponse struct {
	Body struct {
		LED               string   `json:"led" example:"ACT" doc:"sysfs name of the indicator LED, empty without hardware"`
		Pattern           string   `json:"pattern" example:"solid" doc:"Current pattern: off, solid or heartbeat"`
		AvailablePatterns []string `json:"available_patterns" doc:"Patterns the indicator uses"`
	}
}

// registerStatusLEDRoutes registers the indicator endpoint.
func (s *Server) registerStatusLEDRoutes() {
	// Only register if the status LED manager is running
	if s.options.StatusLED == nil {
		s.logger.Debug("Status LED not available, skipping status LED routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-status-led",
		Method:      http.MethodGet,
		Path:        "/api/status_led",
		Summary:     "Get Status LED",
		Description: "Board LED mirroring the render loop: solid while rendering, heartbeat on hardware errors",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*StatusLEDResponse, error) {
		resp := &StatusLEDResponse{}
		resp.Body.LED = s.options.StatusLED.LED()
		resp.Body.Pattern = string(s.options.StatusLED.Pattern())
		for _, p := range statusled.Patterns {
			resp.Body.AvailablePatterns = append(resp.Body.AvailablePatterns, string(p))
		}
		return resp, nil
	})
}
