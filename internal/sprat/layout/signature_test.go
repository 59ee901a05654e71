package layout

import (
	"testing"

	"github.com/pedroac/sprat/internal/sprat/source"
)

func baseInputs() SignatureInputs {
	return SignatureInputs{
		Profile:         "default",
		Mode:            ModeCompact,
		Objective:       ObjectiveGPU,
		MaxWidth:        2048,
		MaxHeight:       2048,
		Padding:         2,
		MaxCombinations: 64,
		Scale:           1.0,
		TrimTransparent: true,
		SourceOrder:     false,
		Sources: []source.Image{
			{Path: "b.png", Size: 100, ModTimeTicks: 1},
			{Path: "a.png", Size: 200, ModTimeTicks: 2},
		},
	}
}

func TestSignatureIsDeterministic(t *testing.T) {
	in := baseInputs()
	if Signature(in) != Signature(in) {
		t.Error("Signature must be deterministic for identical inputs")
	}
}

func TestSignatureIndependentOfSourceOrdering(t *testing.T) {
	in1 := baseInputs()
	in2 := baseInputs()
	in2.Sources = []source.Image{in1.Sources[1], in1.Sources[0]}
	if Signature(in1) != Signature(in2) {
		t.Error("Signature should not depend on the order sources were discovered in")
	}
}

func TestSignatureChangesWithPadding(t *testing.T) {
	in1 := baseInputs()
	in2 := baseInputs()
	in2.Padding = 3
	if Signature(in1) == Signature(in2) {
		t.Error("Signature must change when padding changes")
	}
}

func TestSeedSignatureIgnoresPadding(t *testing.T) {
	in1 := baseInputs()
	in2 := baseInputs()
	in2.Padding = 99
	if SeedSignature(in1) != SeedSignature(in2) {
		t.Error("SeedSignature must be independent of padding")
	}
}

func TestSeedSignatureDiffersFromFullSignature(t *testing.T) {
	in := baseInputs()
	if Signature(in) == SeedSignature(in) {
		t.Error("full signature and seed signature should diverge when padding is nonzero")
	}
}

func TestSignatureChangesWithSourceContent(t *testing.T) {
	in1 := baseInputs()
	in2 := baseInputs()
	in2.Sources[0].Size = 999
	if Signature(in1) == Signature(in2) {
		t.Error("Signature must change when a source's fingerprint changes")
	}
}
