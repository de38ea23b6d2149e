package evergreen

import (
	"github.com/golang/geo/r3"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float64 fields simultaneously. Create one with
// TweenVector and call Update(dt) each frame; the group writes the eased
// values straight into the target fields.
//
// There is no global animation manager. Owners call Update themselves.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the fields.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenVector creates a TweenGroup that animates v to the target point over
// duration seconds using the easing function.
func TweenVector(v *r3.Vector, to r3.Vector, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(v.Z), float32(to.Z), duration, fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	g.fields[2] = &v.Z
	return g
}
