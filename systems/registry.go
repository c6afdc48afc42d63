package systems

// Frame phase identifiers. The perf collector and the HUD both key on these.
const (
	PhasePhysics = "physics"
	PhaseSprites = "sprites"
	PhaseDebug   = "debug"
	PhaseHUD     = "hud"
)

// PhaseInfo describes one timed part of a frame for display.
type PhaseInfo struct {
	ID          string
	Name        string
	Description string
}

// PhaseRegistry lists the frame phases in execution order.
type PhaseRegistry struct {
	phases []PhaseInfo
	byID   map[string]PhaseInfo
}

// NewPhaseRegistry creates a registry holding the standard frame phases.
func NewPhaseRegistry() *PhaseRegistry {
	r := &PhaseRegistry{byID: make(map[string]PhaseInfo)}
	r.Register(PhaseInfo{ID: PhasePhysics, Name: "Physics", Description: "Fixed-step world integration"})
	r.Register(PhaseInfo{ID: PhaseSprites, Name: "Sprites", Description: "Entity sprite drawing"})
	r.Register(PhaseInfo{ID: PhaseDebug, Name: "Debug", Description: "Fixture wireframes"})
	r.Register(PhaseInfo{ID: PhaseHUD, Name: "HUD", Description: "Overlay text and controls"})
	return r
}

// Register appends a phase. Re-registering an ID replaces its display info
// but keeps its original position.
func (r *PhaseRegistry) Register(info PhaseInfo) {
	if _, ok := r.byID[info.ID]; ok {
		for i := range r.phases {
			if r.phases[i].ID == info.ID {
				r.phases[i] = info
			}
		}
	} else {
		r.phases = append(r.phases, info)
	}
	r.byID[info.ID] = info
}

// Name returns the display name for a phase ID, or the ID itself.
func (r *PhaseRegistry) Name(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all phases in order.
func (r *PhaseRegistry) All() []PhaseInfo {
	return r.phases
}

// IDs returns all phase IDs in order.
func (r *PhaseRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, info := range r.phases {
		ids[i] = info.ID
	}
	return ids
}
