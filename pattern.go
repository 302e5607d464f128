package treelight

import (
	"fmt"
	"math"
	"math/rand"
)

// Pattern is one animated light pattern. Sample reads the color of a single
// pixel for the current frame; Advance moves the pattern to the next frame.
// A pattern instance belongs to exactly one scheduler slot and is thrown
// away when its scene ends.
type Pattern interface {
	// Sample returns the color of the pixel at the given index.
	Sample(i int) Color
	// Advance advances the pattern by one frame.
	Advance()
}

// Kind identifies one of the built-in patterns.
type Kind uint8

const (
	KindRainbow Kind = iota
	KindMovingDots
	KindHarmonicDots
	KindCombinedDots
	KindFadingSpots
	KindBreathing
	KindSparkling

	numKinds
)

// NumKinds is the number of built-in pattern kinds.
const NumKinds = int(numKinds)

func (k Kind) String() string {
	switch k {
	case KindRainbow:
		return "rainbow"
	case KindMovingDots:
		return "moving-dots"
	case KindHarmonicDots:
		return "harmonic-dots"
	case KindCombinedDots:
		return "combined-dots"
	case KindFadingSpots:
		return "fading-spots"
	case KindBreathing:
		return "breathing"
	case KindSparkling:
		return "sparkling"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// NewPattern creates a fresh pattern of the given kind. Randomized parameters
// are drawn from rng, which the pattern keeps for any per-frame randomness.
func NewPattern(k Kind, numLEDs int, rng *rand.Rand) Pattern {
	switch k {
	case KindRainbow:
		return newRainbow(rng)
	case KindMovingDots:
		return newMovingDots(1.0, 1.0, rng)
	case KindHarmonicDots:
		return newHarmonicDots(numLEDs, rng)
	case KindCombinedDots:
		return newCombinedDots(numLEDs, rng)
	case KindFadingSpots:
		return newFadingSpots(numLEDs, rng)
	case KindBreathing:
		return newBreathing(numLEDs, rng)
	case KindSparkling:
		return newSparkling(numLEDs, rng)
	default:
		panic("invalid pattern kind")
	}
}

// rainbow scrolls the hue wheel along the strip while a slow sine wave
// modulates brightness.
type rainbow struct {
	hue   int
	pos   float64
	wave  float64
	shift float64
}

func newRainbow(rng *rand.Rand) *rainbow {
	return &rainbow{
		wave:  float64(rng.Intn(3)+2) / 10,
		shift: float64(rng.Intn(80)+20) / 200,
	}
}

func (p *rainbow) Sample(i int) Color {
	c := Wheel(p.hue + i)
	return c.Scale(math.Sin(float64(i)*p.wave+p.pos)*0.4 + 0.6)
}

func (p *rainbow) Advance() {
	p.hue = (p.hue + 1) & 255
	p.pos += p.shift
}

// movingDots lights the crests of a sine wave in a single hue. Everything
// below the 0.1 envelope threshold stays dark, leaving separated dots that
// drift along the strip.
type movingDots struct {
	phase      float64
	brightness float64
	color      Color
	wave       float64
	shift      float64
}

func newMovingDots(brightness, speed float64, rng *rand.Rand) *movingDots {
	return &movingDots{
		brightness: brightness,
		color:      Wheel(rng.Intn(256)),
		wave:       float64(rng.Intn(3)+2) / 10,
		shift:      float64(rng.Intn(200)-100) / 200 * speed,
	}
}

func (p *movingDots) Sample(i int) Color {
	m := math.Sin(float64(i)*p.wave+p.phase) * p.brightness
	if m < 0.1 {
		return Color{}
	}
	return p.color.Scale(m)
}

func (p *movingDots) Advance() {
	p.phase += p.shift
}

// harmonicDots is like movingDots but with a wavelength that divides the
// strip length evenly (1 to 3 periods) and a sharpened envelope, producing
// fewer, narrower dots.
type harmonicDots struct {
	phase float64
	color Color
	wave  float64
	speed float64
}

func newHarmonicDots(numLEDs int, rng *rand.Rand) *harmonicDots {
	return &harmonicDots{
		color: Wheel(rng.Intn(256)),
		wave:  2 * math.Pi * float64(rng.Intn(3)+1) / float64(numLEDs),
		speed: float64(rng.Intn(200)-100) / 200,
	}
}

func (p *harmonicDots) Sample(i int) Color {
	m := math.Sin(float64(i)*p.wave+p.phase)*4 - 3
	if m < 0.1 {
		return Color{}
	}
	return p.color.Scale(m)
}

func (p *harmonicDots) Advance() {
	p.phase += p.speed
}

// combinedDots layers a dim, slow movingDots under a harmonicDots pass.
type combinedDots struct {
	dim  *movingDots
	harm *harmonicDots
}

func newCombinedDots(numLEDs int, rng *rand.Rand) *combinedDots {
	return &combinedDots{
		dim:  newMovingDots(0.2, 0.1, rng),
		harm: newHarmonicDots(numLEDs, rng),
	}
}

func (p *combinedDots) Sample(i int) Color {
	return p.dim.Sample(i).Add(p.harm.Sample(i))
}

func (p *combinedDots) Advance() {
	p.dim.Advance()
	p.harm.Advance()
}

// fadingSpots lights random pixels for a 24-frame lifecycle: a quick ramp to
// full over the first 5 frames, then a long fade back to dark.
type fadingSpots struct {
	life  []int
	color Color
	rng   *rand.Rand
}

func newFadingSpots(numLEDs int, rng *rand.Rand) *fadingSpots {
	return &fadingSpots{
		life:  make([]int, numLEDs),
		color: Wheel(rng.Intn(256)),
		rng:   rng,
	}
}

func (p *fadingSpots) Sample(i int) Color {
	s := p.life[i]
	switch {
	case s == 0:
		return Color{}
	case s < 20:
		return p.color.Scale(float64(s) / 20)
	default:
		return p.color.Scale(float64(25-s) / 5)
	}
}

func (p *fadingSpots) Advance() {
	for i, s := range p.life {
		if s > 0 {
			p.life[i] = s - 1
		}
	}
	if p.rng.Intn(5) == 0 {
		i := p.rng.Intn(len(p.life))
		if p.life[i] == 0 {
			p.life[i] = 24
		}
	}
}

// Breathing envelope shared by breathing and sparkling. Each pixel walks its
// phase down from breatheFull and wraps, so the background dims toward
// breatheHalf and brightens back.
const (
	breatheHalf = 50
	breatheFull = breatheHalf * 2
	flashRise   = 20
	flashFall   = 5
)

func breatheEnvelope(s int) float64 {
	if s < breatheHalf {
		return float64(breatheHalf-s) / breatheHalf
	}
	return float64(s-breatheHalf) / breatheHalf
}

// breathing shows a dim breathing background with occasional bright flashes
// of a second hue. A flashed pixel ramps the accent color up over the
// background, then the decay window shows the accent alone.
type breathing struct {
	phase []int
	flash Color
	base  Color
	rng   *rand.Rand
}

func newBreathing(numLEDs int, rng *rand.Rand) *breathing {
	p := &breathing{
		phase: make([]int, numLEDs),
		flash: Wheel(rng.Intn(256)),
		base:  FixColor(rng.Intn(7)).Scale(0.08),
		rng:   rng,
	}
	for i := range p.phase {
		p.phase[i] = rng.Intn(breatheFull)
	}
	return p
}

func (p *breathing) Sample(i int) Color {
	s := p.phase[i]
	if s <= breatheFull {
		return p.base.Scale(breatheEnvelope(s))
	}
	if s < breatheFull+flashRise {
		c := p.flash.Scale(float64(s-breatheFull) / flashRise)
		return p.base.Add(c)
	}
	return p.flash.Scale(float64(breatheFull+flashRise+flashFall-s) / flashFall)
}

func (p *breathing) Advance() {
	for i, s := range p.phase {
		if s > 0 {
			p.phase[i] = s - 1
		} else {
			p.phase[i] = breatheFull
		}
	}
	if p.rng.Intn(10) == 0 {
		i := p.rng.Intn(len(p.phase))
		if p.phase[i] <= breatheFull {
			p.phase[i] = breatheFull + flashRise + flashFall - 1
		}
	}
}

// sparkling reuses the breathing background, but instead of scheduled
// flashes every pixel has a small per-sample chance of firing at full
// brightness for a single frame.
type sparkling struct {
	phase []int
	flash Color
	base  Color
	rng   *rand.Rand
}

func newSparkling(numLEDs int, rng *rand.Rand) *sparkling {
	p := &sparkling{
		phase: make([]int, numLEDs),
		flash: Wheel(rng.Intn(256)),
		base:  FixColor(rng.Intn(7)).Scale(0.08),
		rng:   rng,
	}
	for i := range p.phase {
		p.phase[i] = rng.Intn(breatheFull)
	}
	return p
}

func (p *sparkling) Sample(i int) Color {
	if p.rng.Intn(len(p.phase)*10) == 0 {
		return p.flash
	}
	return p.base.Scale(breatheEnvelope(p.phase[i]))
}

func (p *sparkling) Advance() {
	for i, s := range p.phase {
		if s > 0 {
			p.phase[i] = s - 1
		} else {
			p.phase[i] = breatheFull
		}
	}
}
