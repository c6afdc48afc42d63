package physics

// Ground keeps the single static floor body. Resize replaces it, so at most
// one ground body is alive at any time.
type Ground struct {
	HalfThickness float64
	Friction      float64

	id        BodyID
	halfWidth float64
}

// NewGround creates a ground manager; no body exists until Resize.
func NewGround(halfThickness, friction float64) *Ground {
	return &Ground{HalfThickness: halfThickness, Friction: friction}
}

// Resize destroys the current floor, if any, and creates a new one whose
// half-width equals viewportWidth, so it spans [-W, W] around the origin.
func (g *Ground) Resize(w *World, viewportWidth float64) error {
	if g.id != 0 {
		w.DestroyBody(g.id)
		g.id = 0
		g.halfWidth = 0
	}

	id, err := w.CreateStaticGround(viewportWidth, g.HalfThickness, g.Friction)
	if err != nil {
		return err
	}
	g.id = id
	g.halfWidth = viewportWidth
	return nil
}

// Body returns the live ground handle, or 0 before the first Resize.
func (g *Ground) Body() BodyID {
	return g.id
}

// HalfWidth returns the half-width of the live ground body.
func (g *Ground) HalfWidth() float64 {
	return g.halfWidth
}
