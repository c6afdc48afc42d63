package systems

import "testing"

func TestPhaseRegistryOrder(t *testing.T) {
	r := NewPhaseRegistry()
	want := []string{PhasePhysics, PhaseSprites, PhaseDebug, PhaseHUD}
	ids := r.IDs()
	if len(ids) != len(want) {
		t.Fatalf("IDs() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("IDs()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestPhaseRegistryReplace(t *testing.T) {
	r := NewPhaseRegistry()
	r.Register(PhaseInfo{ID: PhasePhysics, Name: "Box2D"})
	if r.Name(PhasePhysics) != "Box2D" {
		t.Errorf("Name = %q, want Box2D", r.Name(PhasePhysics))
	}
	if len(r.All()) != 4 || r.IDs()[0] != PhasePhysics {
		t.Errorf("replacing moved or duplicated the phase: %v", r.IDs())
	}
	if r.Name("unknown") != "unknown" {
		t.Error("unknown IDs should fall back to themselves")
	}
}
