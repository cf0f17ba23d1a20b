package core

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 represents a free 3D vector (a direction or displacement)
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3(r3.Add(r3.Vec(v), r3.Vec(other)))
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3(r3.Sub(r3.Vec(v), r3.Vec(other)))
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3(r3.Scale(scalar, r3.Vec(v)))
}

// Divide returns the vector scaled by the inverse of a scalar
func (v Vec3) Divide(scalar float64) Vec3 {
	return v.Multiply(1.0 / scalar)
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return r3.Norm(r3.Vec(v))
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return r3.Norm2(r3.Vec(v))
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return r3.Dot(r3.Vec(v), r3.Vec(other))
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3(r3.Cross(r3.Vec(v), r3.Vec(other)))
}

// Normalize returns a unit vector in the same direction.
// The zero vector has no direction; its result has NaN components.
func (v Vec3) Normalize() Vec3 {
	return v.Divide(v.Length())
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Point3 represents an affine position in 3D space
type Point3 struct {
	X, Y, Z float64
}

// NewPoint3 creates a new Point3
func NewPoint3(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

// Subtract returns the displacement from other to p
func (p Point3) Subtract(other Point3) Vec3 {
	return Vec3(r3.Sub(r3.Vec(p), r3.Vec(other)))
}

// Add translates the point by a displacement
func (p Point3) Add(displacement Vec3) Point3 {
	return Point3(r3.Add(r3.Vec(p), r3.Vec(displacement)))
}

// DistanceTo returns the displacement vector pointing from p to other
func (p Point3) DistanceTo(other Point3) Vec3 {
	return other.Subtract(p)
}

// Displace moves the point by a displacement, same as Add
func (p Point3) Displace(displacement Vec3) Point3 {
	return p.Add(displacement)
}

// ToVec3 reinterprets the point as its displacement from the origin
func (p Point3) ToVec3() Vec3 {
	return Vec3(p)
}
