package debug

import "testing"

func TestBoolEnv(t *testing.T) {
	for _, tc := range []struct {
		val  string
		want bool
	}{
		{"", false},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"0", false},
		{"false", false},
		{"junk", false},
	} {
		t.Setenv("GLTF_DEBUG_TESTFLAG", tc.val)
		if got := boolEnv("GLTF_DEBUG_TESTFLAG"); got != tc.want {
			t.Errorf("boolEnv(%q) = %v, want %v", tc.val, got, tc.want)
		}
	}
}
