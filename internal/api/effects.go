package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lichtwerk/internal/api/models"
	"github.com/smazurov/lichtwerk/internal/effects"
)

func (s *Server) registerEffectRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-effects",
		Method:      http.MethodGet,
		Path:        "/api/effects",
		Summary:     "List Effects",
		Description: "Available effects in presentation order with their option schemas",
		Tags:        []string{"effects"},
	}, func(_ context.Context, _ *struct{}) (*models.EffectsResponse, error) {
		list := s.control.Registry().List()
		data := make([]models.EffectData, 0, len(list))
		for _, d := range list {
			data = append(data, toEffectData(d))
		}
		return &models.EffectsResponse{
			Body: models.EffectsData{Effects: data, Count: len(data)},
		}, nil
	})
}

func toEffectData(d effects.Descriptor) models.EffectData {
	opts := make([]models.EffectOptionData, 0, len(d.Options))
	for _, o := range d.Options {
		od := models.EffectOptionData{
			Key:         o.Key,
			Kind:        string(o.Kind),
			Default:     o.Default,
			Choices:     o.Choices,
			Description: o.Description,
		}
		if o.Kind == effects.KindInt {
			od.Min, od.Max = &o.Min, &o.Max
		}
		opts = append(opts, od)
	}
	return models.EffectData{
		ID:             d.ID,
		Name:           d.DisplayName,
		UsesColor:      d.UsesColor,
		UsesBrightness: d.UsesBrightness,
		UsesSpeed:      d.UsesSpeed,
		Options:        opts,
	}
}
