package confd

import "testing"

func TestCleanPath(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/":                "/",
		"//listeners":      "/listeners",
		"/listeners//*:80": "/listeners/*:80",
		"/a%2Fb":           "/a/b",
		"/has%20space":     "/has space",
	}

	for in, want := range cases {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}
