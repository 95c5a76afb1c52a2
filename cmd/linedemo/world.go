package main

import (
	"math/rand/v2"

	"github.com/jakecoffman/cp"
)

const (
	worldWidth  = 1280
	worldHeight = 720
)

// newWorld builds a box of static walls with bodies dropping into it and a
// pendulum hanging from the ceiling.
func newWorld(bodies int, gravity float64, rng *rand.Rand) *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	walls := [][2]cp.Vector{
		{{X: 40, Y: worldHeight - 40}, {X: worldWidth - 40, Y: worldHeight - 40}},
		{{X: 40, Y: 40}, {X: 40, Y: worldHeight - 40}},
		{{X: worldWidth - 40, Y: 40}, {X: worldWidth - 40, Y: worldHeight - 40}},
		{{X: 300, Y: 420}, {X: 620, Y: 480}},
	}
	for _, w := range walls {
		shape := space.AddShape(cp.NewSegment(space.StaticBody, w[0], w[1], 2))
		shape.SetFriction(0.8)
		shape.SetElasticity(0.2)
	}

	for i := 0; i < bodies; i++ {
		x := 100 + rng.Float64()*(worldWidth-200)
		y := 60 + rng.Float64()*200
		if i%2 == 0 {
			w, h := 16+rng.Float64()*24, 16+rng.Float64()*24
			body := space.AddBody(cp.NewBody(1, cp.MomentForBox(1, w, h)))
			body.SetPosition(cp.Vector{X: x, Y: y})
			body.SetAngle(rng.Float64() * 3)
			shape := space.AddShape(cp.NewBox(body, w, h, 0))
			shape.SetFriction(0.7)
			continue
		}
		r := 8 + rng.Float64()*14
		body := space.AddBody(cp.NewBody(1, cp.MomentForCircle(1, 0, r, cp.Vector{})))
		body.SetPosition(cp.Vector{X: x, Y: y})
		shape := space.AddShape(cp.NewCircle(body, r, cp.Vector{}))
		shape.SetFriction(0.7)
		shape.SetElasticity(0.4)
	}

	anchor := cp.Vector{X: worldWidth - 240, Y: 60}
	bob := space.AddBody(cp.NewBody(2, cp.MomentForCircle(2, 0, 18, cp.Vector{})))
	bob.SetPosition(cp.Vector{X: anchor.X + 160, Y: anchor.Y + 40})
	space.AddShape(cp.NewCircle(bob, 18, cp.Vector{}))
	space.AddConstraint(cp.NewPinJoint(space.StaticBody, bob, anchor, cp.Vector{}))

	return space
}
