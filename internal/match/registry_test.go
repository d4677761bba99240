package match

import "testing"

func TestRegistryResolveOrder(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(strategyFunc{name: "semantic"})
	reg.Register(strategyFunc{name: "deterministic"})

	resolved, err := reg.Resolve([]string{"deterministic", "semantic"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(resolved) != 2 || resolved[0].Name() != "deterministic" || resolved[1].Name() != "semantic" {
		t.Fatalf("resolution must follow the requested order, got %d entries", len(resolved))
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(strategyFunc{name: "deterministic"})

	if _, err := reg.Resolve([]string{"deterministic", "oracle"}); err == nil {
		t.Fatalf("unknown strategy name must fail resolution")
	}
}
