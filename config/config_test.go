package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() config should validate, got %v", err)
	}
}

func TestDefaultMatchesReferenceSizing(t *testing.T) {
	cfg := Default()
	if cfg.NLevels != 1_000_001 {
		t.Fatalf("NLevels = %d, want 1,000,001", cfg.NLevels)
	}
	if cfg.NumSymbols != 50 {
		t.Fatalf("NumSymbols = %d, want 50", cfg.NumSymbols)
	}
}

func TestValidateRejectsNonPowerOfTwoRingSize(t *testing.T) {
	cfg := Default()
	cfg.InputRingSize = 100
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-power-of-2 input ring size")
	}
}

func TestValidateRejectsZeroSymbols(t *testing.T) {
	cfg := Default()
	cfg.NumSymbols = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero symbols")
	}
}
