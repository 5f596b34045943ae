package sim

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/xraph/calo/geometry"
)

// GeometryFormatVersion is the version written by EncodeGeometry.
const GeometryFormatVersion = 1

type layerWire struct {
	Thickness float64 `cbor:"1,keyasint"`
	Material  string  `cbor:"2,keyasint"`
	Sensitive bool    `cbor:"3,keyasint"`
}

type geometryWire struct {
	Version int         `cbor:"1,keyasint"`
	AreaM2  float64     `cbor:"2,keyasint"`
	Layers  []layerWire `cbor:"3,keyasint"`
}

var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		ShortestFloat: cbor.ShortestFloatNone,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("sim: cbor enc mode: %v", err))
	}
	return em
}()

// EncodeGeometry serializes d for a bridge process. Equal descriptors
// always encode to identical bytes.
func EncodeGeometry(d *geometry.Descriptor) ([]byte, error) {
	w := geometryWire{Version: GeometryFormatVersion, AreaM2: d.AreaM2()}
	for _, l := range d.Layers() {
		w.Layers = append(w.Layers, layerWire(l))
	}
	data, err := encMode.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("sim: encode geometry: %w", err)
	}
	return data, nil
}

// DecodeGeometry reverses EncodeGeometry, re-validating every layer.
func DecodeGeometry(data []byte, opts ...geometry.Option) (*geometry.Descriptor, error) {
	var w geometryWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("sim: decode geometry: %w", err)
	}
	if w.Version != GeometryFormatVersion {
		return nil, fmt.Errorf("sim: decode geometry: unsupported version %d", w.Version)
	}
	layers := make([]geometry.Layer, len(w.Layers))
	for i, l := range w.Layers {
		layers[i] = geometry.Layer(l)
	}
	return geometry.FromLayers(w.AreaM2, layers, opts...)
}
