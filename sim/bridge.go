// Package sim is the boundary to an external particle-transport engine.
//
// The engine itself is not part of this module. sim defines the contract a
// bridge implements (Bridge), splits a requested event count into chunks
// (Plan), drives a bridge over those chunks concurrently with seeded random
// beam energies (RunSample), hands the geometry to the bridge as
// deterministic CBOR (EncodeGeometry) and bins the returned hits by depth
// (DepthProfile, LayerProfile).
package sim

import (
	"context"
	"errors"
)

// ErrBridge wraps failures reported by a Bridge.
var ErrBridge = errors.New("sim: bridge failed")

// Request asks the bridge for Events primaries of Particle at EnergyMeV.
// Threads of zero leaves the thread count to the bridge.
type Request struct {
	Particle  string  `json:"particle"`
	EnergyMeV float64 `json:"energy_mev"`
	Events    int     `json:"events"`
	Threads   int     `json:"threads,omitempty"`
}

// Hit is one energy deposit. Coordinates are in mm with z along the
// calorimeter depth axis.
type Hit struct {
	Event   int     `json:"event" cbor:"1,keyasint"`
	EdepMeV float64 `json:"edep_mev" cbor:"2,keyasint"`
	XMM     float64 `json:"x_mm" cbor:"3,keyasint"`
	YMM     float64 `json:"y_mm" cbor:"4,keyasint"`
	ZMM     float64 `json:"z_mm" cbor:"5,keyasint"`
}

// Bridge runs one transport call against a previously configured geometry.
type Bridge interface {
	Simulate(ctx context.Context, req Request) ([]Hit, error)
}

// BridgeFunc adapts a function to Bridge.
type BridgeFunc func(ctx context.Context, req Request) ([]Hit, error)

// Simulate calls f.
func (f BridgeFunc) Simulate(ctx context.Context, req Request) ([]Hit, error) {
	return f(ctx, req)
}
