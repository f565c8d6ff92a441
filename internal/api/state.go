package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/control"
	"github.com/smazurov/lichtwerk/internal/effects"
)

const statusOK = "ok"

// toStatusData converts a control status for the wire.
func toStatusData(st control.Status) models.StatusData {
	data := models.NewStatusData(st.State, st.EffectName)
	data.Revision = st.Revision
	return data
}

// registerStateRoutes registers the status read and the mutation endpoints.
func (s *Server) registerStateRoutes() {
	mutationErrors := []int{400, 422, 500}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/api/status",
		Summary:     "Get Status",
		Description: "Current device state including active effect options",
		Tags:        []string{"state"},
	}, func(_ context.Context, _ *struct{}) (*models.StatusResponse, error) {
		return &models.StatusResponse{Body: toStatusData(s.control.Status())}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-power",
		Method:      http.MethodPost,
		Path:        "/api/power",
		Summary:     "Set Power",
		Description: "Switch the strip on or off",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.PowerRequest) (*models.PowerResponse, error) {
		st, err := s.control.SetPower(input.Body.Power)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.PowerResponse{}
		resp.Body.Status = statusOK
		resp.Body.Power = st.Power
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color",
		Method:      http.MethodPost,
		Path:        "/api/color",
		Summary:     "Set Color",
		Description: "Set the base color. Channels outside 0-255 are clamped.",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.ColorRequest) (*models.ColorResponse, error) {
		st, err := s.control.SetColor(input.Body)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.ColorResponse{}
		resp.Body.Status = statusOK
		resp.Body.Color = st.Color
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-brightness",
		Method:      http.MethodPost,
		Path:        "/api/brightness",
		Summary:     "Set Brightness",
		Description: "Set global brightness. Values outside 0-255 are clamped.",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.BrightnessRequest) (*models.BrightnessResponse, error) {
		st, err := s.control.SetBrightness(input.Body.Brightness)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.BrightnessResponse{}
		resp.Body.Status = statusOK
		resp.Body.Brightness = st.Brightness
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-speed",
		Method:      http.MethodPost,
		Path:        "/api/speed",
		Summary:     "Set Speed",
		Description: "Set animation speed. Values outside 1-100 are clamped.",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.SpeedRequest) (*models.SpeedResponse, error) {
		st, err := s.control.SetSpeed(input.Body.Speed)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.SpeedResponse{}
		resp.Body.Status = statusOK
		resp.Body.Speed = st.Speed
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-effect",
		Method:      http.MethodPost,
		Path:        "/api/effect",
		Summary:     "Set Effect",
		Description: "Switch the active effect. Effect options are reset to the new effect's defaults.",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.EffectRequest) (*models.EffectResponse, error) {
		st, err := s.control.SetEffect(input.Body.Effect)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.EffectResponse{}
		resp.Body.Status = statusOK
		resp.Body.Effect = st.Effect
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-effect-option",
		Method:      http.MethodPost,
		Path:        "/api/effect_option",
		Summary:     "Set Effect Option",
		Description: "Set one option of the active effect. Rejected when the effect is not active.",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.EffectOptionRequest) (*models.EffectOptionResponse, error) {
		st, err := s.control.SetEffectOption(input.Body.Effect, input.Body.Key, input.Body.Value)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.EffectOptionResponse{}
		resp.Body.Status = statusOK
		resp.Body.Effect = st.Effect
		resp.Body.Key = input.Body.Key
		resp.Body.Value = st.EffectOptions[input.Body.Key]
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-theater-mode",
		Method:      http.MethodPost,
		Path:        "/api/theater_mode",
		Summary:     "Set Theater Mode",
		Description: "Shorthand for the theater effect's rainbow option",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.TheaterModeRequest) (*models.TheaterModeResponse, error) {
		st, err := s.control.SetEffectOption(effects.Theater, effects.OptionRainbow, input.Body.Rainbow)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.TheaterModeResponse{}
		resp.Body.Status = statusOK
		resp.Body.Rainbow = st.EffectOptions.Bool(effects.OptionRainbow)
		resp.Body.State = toStatusData(st)
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-color-mode",
		Method:      http.MethodPost,
		Path:        "/api/color_mode",
		Summary:     "Set Color Mode",
		Description: "Shorthand for the meteor_adv effect's color_mode option",
		Tags:        []string{"state"},
		Errors:      mutationErrors,
	}, func(_ context.Context, input *models.ColorModeRequest) (*models.ColorModeResponse, error) {
		st, err := s.control.SetEffectOption(effects.MeteorAdv, effects.OptionColorMode, input.Body.Mode)
		if err != nil {
			return nil, controlError(err)
		}
		resp := &models.ColorModeResponse{}
		resp.Body.Status = statusOK
		resp.Body.ColorMode = st.EffectOptions.String(effects.OptionColorMode, "")
		resp.Body.State = toStatusData(st)
		return resp, nil
	})
}
