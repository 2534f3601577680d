package confd

import (
	"strconv"
	"strings"
)

// Value is a JSON value as decoded by encoding/json: map[string]interface{},
// []interface{}, string, float64, bool, or nil. The configuration tree is
// always a Value; internal nodes are never reference-counted, so a Value
// can be shared across snapshots until one of them clones it.
type Value interface{}

// emptyTree is the literal initial state of a fresh controller (§6).
func emptyTree() Value {
	return map[string]interface{}{
		"listeners":    map[string]interface{}{},
		"applications": map[string]interface{}{},
	}
}

// splitPath turns a '/'-separated address into path segments. The root
// path "/" (and "") yields no segments. A single trailing slash is
// insignificant and stripped; anything beyond that is a literal segment
// (possibly empty, which will simply fail to resolve).
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// normalizePath strips at most one trailing slash, except when the path is
// exactly "/" (§4.C).
func normalizePath(path string) string {
	if path == "/" || path == "" {
		return "/"
	}
	return strings.TrimSuffix(path, "/")
}

// resolve walks root along segments and returns the value found there.
// ok is false if any segment fails to address anything (missing object
// key, out-of-range or non-numeric array index, or indexing into a
// scalar).
func resolve(root Value, segments []string) (Value, bool) {
	cur := root
	for _, seg := range segments {
		switch v := cur.(type) {
		case map[string]interface{}:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			cur = v[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
