package animate

// pid corrects the sleep interval of the render loop so that the measured
// loop time tracks the setpoint. Output is clamped to [-setpoint, setpoint].
type pid struct {
	kp, ki, kd float64
	setpoint   float64

	integral  float64
	lastInput float64
	hasLast   bool
	output    float64
	auto      bool
}

func newPID(gains [3]float64, setpoint float64) *pid {
	return &pid{
		kp:       gains[0],
		ki:       gains[1],
		kd:       gains[2],
		setpoint: setpoint,
		auto:     true,
	}
}

func (p *pid) clamp(v float64) float64 {
	return min(max(v, -p.setpoint), p.setpoint)
}

// update feeds one measured loop time, dt seconds after the previous one.
func (p *pid) update(input, dt float64) float64 {
	if !p.auto {
		return p.output
	}
	err := p.setpoint - input
	p.integral = p.clamp(p.integral + p.ki*err*dt)
	var derivative float64
	if p.hasLast && dt > 0 {
		derivative = (input - p.lastInput) / dt
	}
	p.output = p.clamp(p.kp*err + p.integral - p.kd*derivative)
	p.lastInput = input
	p.hasLast = true
	return p.output
}

// suspend freezes the output while the loop is not rendering.
func (p *pid) suspend() {
	p.auto = false
}

// resume restarts from the last output without a derivative kick.
func (p *pid) resume() {
	if p.auto {
		return
	}
	p.auto = true
	p.integral = p.clamp(p.output)
	p.hasLast = false
}
