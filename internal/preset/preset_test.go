package preset_test

import (
	"testing"

	"gifpress/internal/preset"
)

func TestLookupKnownPresets(t *testing.T) {
	low, ok := preset.Lookup("low")
	if !ok {
		t.Fatal("expected low preset to exist")
	}
	if low.FPS != 10 || low.Width != 480 || low.Colors != 128 {
		t.Fatalf("unexpected low preset: %+v", low)
	}

	max, ok := preset.Lookup("max")
	if !ok {
		t.Fatal("expected max preset to exist")
	}
	if max.FPS != preset.SourceFPS {
		t.Fatalf("expected max preset to keep the source rate, got fps %d", max.FPS)
	}
	if max.Width != 2160 || max.Colors != 256 {
		t.Fatalf("unexpected max preset: %+v", max)
	}
}

func TestLookupUnknownPreset(t *testing.T) {
	if _, ok := preset.Lookup("ultra"); ok {
		t.Fatal("expected lookup miss for unknown preset")
	}
}

func TestNamesOrdered(t *testing.T) {
	names := preset.Names()
	want := []string{"low", "medium", "high", "max"}
	if len(names) != len(want) {
		t.Fatalf("expected %d presets, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected preset %q at position %d, got %q", name, i, names[i])
		}
	}
}

func TestDefaultNameExists(t *testing.T) {
	if _, ok := preset.Lookup(preset.DefaultName); !ok {
		t.Fatalf("default preset %q not registered", preset.DefaultName)
	}
}
