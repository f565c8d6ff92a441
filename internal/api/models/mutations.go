package models

import "github.com/smazurov/lichtwerk/internal/device"

// Mutation request bodies carry no range constraints: out-of-range numbers
// are clamped by the controller rather than rejected.

type PowerRequest struct {
	Body struct {
		Power bool `json:"power" example:"true" doc:"Switch the strip on or off"`
	}
}

type ColorRequest struct {
	Body device.Color
}

type BrightnessRequest struct {
	Body struct {
		Brightness int `json:"brightness" example:"128" doc:"Brightness (clamped to 0-255)"`
	}
}

type SpeedRequest struct {
	Body struct {
		Speed int `json:"speed" example:"50" doc:"Speed (clamped to 1-100)"`
	}
}

type EffectRequest struct {
	Body struct {
		Effect string `json:"effect" example:"rainbow" doc:"Effect id from /api/effects"`
	}
}

type EffectOptionRequest struct {
	Body struct {
		Effect string `json:"effect" example:"theater" doc:"Effect the option belongs to; must be the active effect"`
		Key    string `json:"key" example:"rainbow" doc:"Option name"`
		Value  any    `json:"value" doc:"Option value; numeric strings and on/off are accepted"`
	}
}

type TheaterModeRequest struct {
	Body struct {
		Rainbow bool `json:"rainbow" example:"true" doc:"Use wheel colors for the theater effect"`
	}
}

type ColorModeRequest struct {
	Body struct {
		Mode string `json:"mode" example:"static" doc:"meteor_adv color mode: static or changing"`
	}
}

// Mutation responses echo the changed field next to the full new state.

type PowerResponse struct {
	Body struct {
		Status string     `json:"status" example:"ok"`
		Power  bool       `json:"power" example:"true"`
		State  StatusData `json:"state"`
	}
}

type ColorResponse struct {
	Body struct {
		Status string       `json:"status" example:"ok"`
		Color  device.Color `json:"color"`
		State  StatusData   `json:"state"`
	}
}

type BrightnessResponse struct {
	Body struct {
		Status     string     `json:"status" example:"ok"`
		Brightness int        `json:"brightness" example:"128"`
		State      StatusData `json:"state"`
	}
}

type SpeedResponse struct {
	Body struct {
		Status string     `json:"status" example:"ok"`
		Speed  int        `json:"speed" example:"50"`
		State  StatusData `json:"state"`
	}
}

type EffectResponse struct {
	Body struct {
		Status string     `json:"status" example:"ok"`
		Effect string     `json:"effect" example:"rainbow"`
		State  StatusData `json:"state"`
	}
}

type EffectOptionResponse struct {
	Body struct {
		Status string     `json:"status" example:"ok"`
		Effect string     `json:"effect" example:"theater"`
		Key    string     `json:"key" example:"rainbow"`
		Value  any        `json:"value"`
		State  StatusData `json:"state"`
	}
}

type TheaterModeResponse struct {
	Body struct {
		Status  string     `json:"status" example:"ok"`
		Rainbow bool       `json:"rainbow" example:"true"`
		State   StatusData `json:"state"`
	}
}

type ColorModeResponse struct {
	Body struct {
		Status    string     `json:"status" example:"ok"`
		ColorMode string     `json:"color_mode" example:"static"`
		State     StatusData `json:"state"`
	}
}
