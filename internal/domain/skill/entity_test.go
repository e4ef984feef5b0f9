package skill

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{"C++", "c++"},
		{"C#", "c#"},
		{"Node.js", "nodejs"},
		{"  Machine Learning  ", "machinelearning"},
		{"PostgreSQL 16", "postgresql16"},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeName_KeepsCVariantsDistinct(t *testing.T) {
	if NormalizeName("C") == NormalizeName("C++") || NormalizeName("C") == NormalizeName("C#") {
		t.Fatalf("C, C++ and C# must normalize to distinct names")
	}
}
