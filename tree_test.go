package confd

import "testing"

func TestSplitPath(t *testing.T) {
	cases := map[string][]string{
		"/":                      nil,
		"":                       nil,
		"/listeners":             {"listeners"},
		"/listeners/":            {"listeners"},
		"/listeners/127.0.0.1:80": {"listeners", "127.0.0.1:80"},
	}

	for in, want := range cases {
		got := splitPath(in)
		if len(got) != len(want) {
			t.Fatalf("splitPath(%q) = %v, want %v", in, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("splitPath(%q) = %v, want %v", in, got, want)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	root := map[string]interface{}{
		"listeners": map[string]interface{}{
			"127.0.0.1:80": map[string]interface{}{
				"pass": "applications/blog",
			},
		},
		"applications": map[string]interface{}{},
	}

	v, ok := resolve(root, []string{"listeners", "127.0.0.1:80", "pass"})
	if !ok {
		t.Fatal("expected resolve to succeed")
	}
	if v != "applications/blog" {
		t.Fatalf("got %v", v)
	}

	if _, ok := resolve(root, []string{"listeners", "does-not-exist"}); ok {
		t.Fatal("expected resolve to fail on missing key")
	}

	if _, ok := resolve(root, []string{"applications", "blog", "type"}); ok {
		t.Fatal("expected resolve to fail descending into an empty object")
	}
}

func TestResolveArrayIndex(t *testing.T) {
	root := map[string]interface{}{
		"listeners": []interface{}{"a", "b", "c"},
	}

	v, ok := resolve(root, []string{"listeners", "1"})
	if !ok || v != "b" {
		t.Fatalf("got %v, %v", v, ok)
	}

	if _, ok := resolve(root, []string{"listeners", "9"}); ok {
		t.Fatal("expected out-of-range index to fail")
	}

	if _, ok := resolve(root, []string{"listeners", "x"}); ok {
		t.Fatal("expected non-numeric index to fail")
	}
}

func TestEmptyTree(t *testing.T) {
	root := emptyTree().(map[string]interface{})
	if _, ok := root["listeners"]; !ok {
		t.Fatal("expected listeners key")
	}
	if _, ok := root["applications"]; !ok {
		t.Fatal("expected applications key")
	}
}
