package api

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lichtwerk/internal/device"
)

// controlError converts a control service error into a huma status error.
func controlError(err error) error {
	var (
		verr    *device.ValidationError
		unknown *device.UnknownEffectError
		invalid *device.InvalidOptionError
	)
	switch {
	case errors.As(err, &verr):
		return huma.Error422UnprocessableEntity(verr.Error(), &huma.ErrorDetail{
			Location: "body." + verr.Field,
			Message:  verr.Message,
		})
	case errors.As(err, &unknown):
		return huma.Error400BadRequest(unknown.Error(), &huma.ErrorDetail{
			Location: "body.effect",
			Message:  "unknown effect",
			Value:    unknown.Effect,
		})
	case errors.As(err, &invalid):
		loc := "body.effect"
		if invalid.Key != "" {
			loc = "body." + invalid.Key
		}
		return huma.Error400BadRequest(invalid.Error(), &huma.ErrorDetail{
			Location: loc,
			Message:  invalid.Message,
		})
	default:
		return huma.Error500InternalServerError("failed to update state", err)
	}
}
