package server

import (
	"github.com/pipecalc/pipecalc/internal/exchanger"
	"github.com/pipecalc/pipecalc/internal/pump"
	"github.com/pipecalc/pipecalc/internal/units"
)

type errcode int

const (
	errBadRequest errcode = 10001 + iota
	errTooManyRequests
	errInternalServer
)

func (e errcode) String() string {
	switch e {
	case errBadRequest:
		return "invalid request"
	case errTooManyRequests:
		return "too many requests"
	case errInternalServer:
		return "internal error"
	default:
		return "unknown error"
	}
}

type apiResponse struct {
	Code    errcode `json:"code"`
	Message string  `json:"message"`
	Data    any     `json:"data,omitempty"`
}

func success(data any) apiResponse {
	return apiResponse{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

func fail(code errcode, message string) apiResponse {
	return apiResponse{
		Code:    code,
		Message: message,
	}
}

// pumpRequest is the pump duty plus the optional reciprocating and
// viscous service corrections.
type pumpRequest struct {
	pump.Input
	Acceleration *accelerationRequest `json:"acceleration,omitempty"`
	Viscous      *viscousRequest      `json:"viscous,omitempty"`
}

type accelerationRequest struct {
	Config      pump.PlungerConfig `json:"config"`
	SpeedRPM    float64            `json:"speed_rpm"`
	FluidFactor float64            `json:"fluid_factor"`
}

type viscousRequest struct {
	SpeedRPM float64 `json:"speed_rpm"`
}

// bundleRequest asks for a tube-count estimate on its own, without a
// thermal rating. Pattern defaults to triangular and Passes to 1; Head
// set additionally sizes the bundle and shell diameters.
type bundleRequest struct {
	ShellDiameter units.Quantity    `json:"shell_diameter"`
	TubeOD        units.Quantity    `json:"tube_od"`
	Pitch         units.Quantity    `json:"pitch"`
	Pattern       exchanger.Pattern `json:"pattern,omitempty"`
	Passes        int               `json:"passes,omitempty"`
	Head          exchanger.Head    `json:"head,omitempty"`
}

type bundleResponse struct {
	exchanger.TubeCountEstimate
	BundleDiameter float64 `json:"bundle_diameter_m,omitempty"`
	ShellDiameter  float64 `json:"shell_diameter_m,omitempty"`
}
