package material

import "math"

// AreaRect returns the face area in m² of a width×height slab given in cm.
// AreaRect(50, 50) == 0.25.
func AreaRect(widthCm, heightCm float64) float64 {
	return widthCm * heightCm * 1e-4
}

// AreaCylinder returns the face area in m² of a right circular cylinder of
// the given radius in cm.
func AreaCylinder(radiusCm float64) float64 {
	r := radiusCm * 1e-2
	return math.Pi * r * r
}

// Cost prices a slab: thickness (cm) × area (m²) × unit price.
func Cost(l Lookuper, material string, thicknessCm, areaM2 float64) (float64, error) {
	p, err := l.Lookup(material)
	if err != nil {
		return 0, err
	}
	return thicknessCm * areaM2 * p.Price, nil
}
