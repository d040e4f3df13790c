package orrery

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// OrbitalToParent rotates a position from the orbital plane (node line along
// the local x axis, y normal to the plane) into the parent body's frame, by
// tilting about the node line by the inclination and then swinging the node
// line by the longitude of the ascending node. Angles in radians.
func OrbitalToParent(planar []float64, incl, node float64) []float64 {
	// R1/R2 are passive rotations, so active ones take the negated angle.
	return MxV33(R2(-node), MxV33(R1(-incl), planar))
}

// smallAngleDCM returns the first-order rotation matrix for a small body-frame
// rotation δ = ω·dt. The caller is expected to re-orthonormalize the attitude
// after accumulating these.
func smallAngleDCM(δ []float64) *mat64.Dense {
	return mat64.NewDense(3, 3, []float64{
		1, -δ[2], δ[1],
		δ[2], 1, -δ[0],
		-δ[1], δ[0], 1})
}

// orthonormalize rebuilds a drifting direction cosine matrix into a proper
// rotation, keeping the forward (3rd) column exact.
func orthonormalize(m *mat64.Dense) {
	fw := unit([]float64{m.At(0, 2), m.At(1, 2), m.At(2, 2)})
	up := []float64{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	right := unit(cross(up, fw))
	up = cross(fw, right)
	m.SetCol(0, right)
	m.SetCol(1, up)
	m.SetCol(2, fw)
}
