package layout

import "math"

const (
	// minSpeedEfficiency floors the controller's efficiency factor so a long
	// oscillating stretch cannot freeze the layout entirely.
	minSpeedEfficiency = 0.05

	// maxSpeedRise caps how much the global speed may rise in one iteration
	// relative to its current value. Letting it jump destabilizes convergence.
	maxSpeedRise = 0.5
)

// speedController derives the global integration step from scalar feedback:
// the aggregate swinging (mass-weighted force oscillation) and traction
// (mass-weighted net push) of the system. Its speed and efficiency state
// persist across iterations of a single run.
type speedController struct {
	jitterTolerance float64
	speed           float64
	speedEfficiency float64
}

func newSpeedController(jitterTolerance float64) *speedController {
	return &speedController{
		jitterTolerance: jitterTolerance,
		speed:           1.0,
		speedEfficiency: 1.0,
	}
}

// step retunes the global speed from this iteration's forces, advances every
// node's position with a per-node damping factor, and rolls the force
// accumulators over for the next iteration's swing measurement. It reports
// the measured swinging and traction.
func (c *speedController) step(nodes []node) (swinging, traction float64) {
	for i := range nodes {
		n := &nodes[i]
		dx := n.oldDX - n.dx
		dy := n.oldDY - n.dy
		swinging += n.mass * math.Sqrt(dx*dx+dy*dy)
		sx := n.oldDX + n.dx
		sy := n.oldDY + n.dy
		traction += 0.5 * n.mass * math.Sqrt(sx*sx+sy*sy)
	}

	// No net force anywhere: nothing to integrate and no signal to retune
	// from. Roll the accumulators and leave the speed state untouched.
	if traction == 0 {
		for i := range nodes {
			nodes[i].oldDX, nodes[i].oldDY = nodes[i].dx, nodes[i].dy
		}
		return swinging, traction
	}

	// The right jitter tolerance depends on the network: bigger graphs need
	// more, denser ones less. Empirical, inherited from the ForceAtlas2
	// reference tuning.
	count := float64(len(nodes))
	estimatedOptimalJT := 0.05 * math.Sqrt(count)
	minJT := math.Sqrt(estimatedOptimalJT)
	const maxJT = 10.0
	jt := c.jitterTolerance * math.Max(minJT, math.Min(maxJT, estimatedOptimalJT*traction/(count*count)))

	// Strong oscillation: back off hard before it becomes erratic.
	if swinging/traction > 2.0 {
		if c.speedEfficiency > minSpeedEfficiency {
			c.speedEfficiency *= 0.5
		}
		jt = math.Max(jt, c.jitterTolerance)
	}

	targetSpeed := math.Inf(1)
	if swinging > 0 {
		targetSpeed = jt * c.speedEfficiency * traction / swinging
	}

	if swinging > jt*traction {
		if c.speedEfficiency > minSpeedEfficiency {
			c.speedEfficiency *= 0.7
		}
	} else if c.speed < 1000 {
		c.speedEfficiency *= 1.3
	}

	c.speed += math.Min(targetSpeed-c.speed, maxSpeedRise*c.speed)

	// Integrate with per-node damping: nodes swinging locally get a smaller
	// share of the global speed.
	for i := range nodes {
		n := &nodes[i]
		dx := n.oldDX - n.dx
		dy := n.oldDY - n.dy
		localSwing := n.mass * math.Sqrt(dx*dx+dy*dy)
		factor := c.speed / (1.0 + math.Sqrt(c.speed*localSwing))
		n.x += n.dx * factor
		n.y += n.dy * factor
		n.oldDX, n.oldDY = n.dx, n.dy
	}
	return swinging, traction
}
