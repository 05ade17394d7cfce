package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewFingerprint("hello world"), 0},
		{"b nil", NewFingerprint("hello world"), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewFingerprint("Di Fara Pizza")
	b := NewFingerprint("di fara pizza")
	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityDisjoint(t *testing.T) {
	a := NewFingerprint("Katz Delicatessen")
	b := NewFingerprint("Joe Pizza")
	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(different) = %v, want 0", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewFingerprint("Tatiana Restaurant")
	b := NewFingerprint("Tatiana Grill")
	if ab, ba := CosineSimilarity(a, b), CosineSimilarity(b, a); ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := &Fingerprint{weights: map[string]float64{}, norm: 0}
	if got := CosineSimilarity(a, NewFingerprint("hello world")); got != 0 {
		t.Errorf("CosineSimilarity(zero norm) = %v, want 0", got)
	}
}

func TestNewFingerprintWeightsVenueWords(t *testing.T) {
	// pho:2, bar:0.5
	fp := NewFingerprint("pho pho bar")
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if want := math.Sqrt(4.25); math.Abs(fp.norm-want) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, want)
	}
	if fp.Terms() != 2 {
		t.Errorf("Terms() = %d, want 2", fp.Terms())
	}
}

func TestNewFingerprintEmpty(t *testing.T) {
	if fp := NewFingerprint("a & b"); fp != nil {
		t.Error("expected nil for text without multi-character tokens")
	}
	if fp := NewFingerprint("The and of"); fp != nil {
		t.Error("expected nil for a name made only of fillers")
	}
	var nilFP *Fingerprint
	if nilFP.Terms() != 0 {
		t.Error("expected zero tokens for nil fingerprint")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "Di Fara", []string{"di", "fara"}},
		{"punctuation", "Joe's Pizza, NYC!", []string{"joe", "pizza", "nyc"}},
		{"accents kept", "Café Lalo", []string{"café", "lalo"}},
		{"fillers dropped", "The House of Prime Rib", []string{"house", "prime", "rib"}},
		{"empty", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNameSimilarity(t *testing.T) {
	if got := NameSimilarity("Joe's Pizza", "Joes Pizza"); got != 1 {
		t.Fatalf("expected slug-equal names to score 1, got %v", got)
	}
	partial := NameSimilarity("Tatiana", "Tatiana Restaurant")
	if partial <= 0.5 || partial >= 1 {
		t.Fatalf("expected partial match in (0.5,1), got %v", partial)
	}
	if got := NameSimilarity("The Spotted Pig", "Spotted Pig"); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected leading article to be ignored, got %v", got)
	}
	if got := NameSimilarity("Tatiana", "Peter Luger"); got != 0 {
		t.Fatalf("expected unrelated names to score 0, got %v", got)
	}
}
