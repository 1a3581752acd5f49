package object

import "github.com/tomz197/swarm/internal/physics"

// Kinematic is a position with a unit facing and a scalar speed.
// Movement always follows the facing.
type Kinematic struct {
	X, Y   float64 // Top-left position
	FX, FY float64 // Facing, unit length or zero
	Speed  float64 // Pixels per second
}

// Face points the actor from (fromX, fromY) toward (tx, ty).
// A target on top of the origin leaves the facing at zero.
func (k *Kinematic) Face(fromX, fromY, tx, ty float64) {
	k.FX, k.FY = physics.Unit(tx-fromX, ty-fromY)
}

// Steer blends the facing toward the direction (dx, dy) by weight and
// re-normalizes: facing = unit((1-weight)*facing + weight*unit(d)).
func (k *Kinematic) Steer(dx, dy, weight float64) {
	tx, ty := physics.Unit(dx, dy)
	k.FX, k.FY = physics.Unit(
		(1-weight)*k.FX+weight*tx,
		(1-weight)*k.FY+weight*ty,
	)
}

// Advance moves along the facing for dt seconds.
func (k *Kinematic) Advance(dt float64) {
	k.X += k.FX * k.Speed * dt
	k.Y += k.FY * k.Speed * dt
}
