package core

// OrthonormalBasis is a local coordinate frame of three mutually
// perpendicular unit vectors
type OrthonormalBasis struct {
	U, V, W Vec3
}

// NewOrthonormalBasis builds a frame with W along direction.
// up must not be parallel to direction, otherwise V is undefined.
func NewOrthonormalBasis(direction, up Vec3) OrthonormalBasis {
	w := direction.Normalize()
	v := up.Cross(w).Normalize()
	u := w.Cross(v)

	return OrthonormalBasis{U: u, V: v, W: w}
}

// Apply maps local coordinates (x, y, z) into world space
func (b OrthonormalBasis) Apply(x, y, z float64) Vec3 {
	return b.U.Multiply(x).Add(b.V.Multiply(y)).Add(b.W.Multiply(z))
}
