package util

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"  Ibuprofeno 400mg ", "ibuprofeno 400mg"},
		{"PARACETAMOL", "paracetamol"},
		{"Ácido Fólico", "acido folico"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeName(tc.input); got != tc.want {
			t.Fatalf("NormalizeName(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripDiacritics(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Descripción", "Descripcion"},
		{"fórmula genérica", "formula generica"},
		{"ñoño", "nono"},
		{"sin acentos", "sin acentos"},
	}
	for _, tc := range cases {
		if got := StripDiacritics(tc.input); got != tc.want {
			t.Fatalf("StripDiacritics(%q)=%q want %q", tc.input, got, tc.want)
		}
	}
}

func TestSimilarityIdentity(t *testing.T) {
	for _, s := range []string{"ibuprofeno", "a", "amoxicilina 500mg"} {
		if got := Similarity(s, s); got != 1 {
			t.Fatalf("Similarity(%q,%q)=%v want 1", s, s, got)
		}
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a, b := "ibuprofeno 400", "ibuprofeno 600"
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("similarity not symmetric for %q / %q", a, b)
	}
}

func TestSimilarityBounds(t *testing.T) {
	if got := Similarity("", "ibuprofeno"); got != 0 {
		t.Fatalf("empty input similarity=%v want 0", got)
	}
	if got := Similarity("xy", "ab"); got != 0 {
		t.Fatalf("disjoint similarity=%v want 0", got)
	}
	if got := Similarity("ibuprofeno", "ibuprofen"); got <= 0.7 || got >= 1 {
		t.Fatalf("near-match similarity=%v want in (0.7,1)", got)
	}
}
