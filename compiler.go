package confd

// Compiler turns (current root, path, new subtree-or-nil) into an edit
// program, and applies that program to produce a candidate root. §1 and §9
// treat the op compiler and the clone-on-write cloner as an external,
// replaceable primitive; Compiler is the interface boundary, and
// defaultCompiler below is the in-package implementation the controller
// uses when none is supplied.
//
// isDelete signals removal (DELETE); newValue is then ignored. With isDelete
// false, a nil newValue stores a JSON null at the path.
type Compiler interface {
	Compile(root Value, segments []string, newValue Value, isDelete bool) (Value, error)
}

// errCompilePathNotFound is returned by a Compiler when the path addresses
// nothing in root (§4.C: surfaced as 404).
var errCompilePathNotFound = newError(errPathNotFound, "path does not exist")

// defaultCompiler is a structural clone-on-write compiler: it walks root
// down to the parent of the target segment, allocates fresh copies of
// every container on that path (so siblings are shared, not duplicated),
// and replaces or deletes the leaf. It never mutates root.
type defaultCompiler struct{}

func (defaultCompiler) Compile(root Value, segments []string, newValue Value, isDelete bool) (Value, error) {
	if len(segments) == 0 {
		// The root itself is addressed: a DELETE replaces it with the
		// canonical empty tree, a PUT replaces it outright (§4.C).
		if isDelete {
			return map[string]interface{}{}, nil
		}
		return newValue, nil
	}

	return cloneEdit(root, segments, newValue, isDelete)
}

// cloneEdit recursively clones the containers along segments, applying the
// edit at the leaf. It returns errCompilePathNotFound if any parent
// segment fails to address an existing container.
func cloneEdit(node Value, segments []string, newValue Value, isDelete bool) (Value, error) {
	seg := segments[0]
	rest := segments[1:]

	switch v := node.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(v))
		for k, val := range v {
			clone[k] = val
		}

		if len(rest) == 0 {
			if isDelete {
				if _, ok := clone[seg]; !ok {
					return nil, errCompilePathNotFound
				}
				delete(clone, seg)
			} else {
				clone[seg] = newValue
			}
			return clone, nil
		}

		child, ok := clone[seg]
		if !ok {
			return nil, errCompilePathNotFound
		}

		edited, err := cloneEdit(child, rest, newValue, isDelete)
		if err != nil {
			return nil, err
		}
		clone[seg] = edited
		return clone, nil

	case []interface{}:
		idx, ok := arrayIndex(seg, len(v))
		if !ok {
			return nil, errCompilePathNotFound
		}

		clone := make([]interface{}, len(v))
		copy(clone, v)

		if len(rest) == 0 {
			if isDelete {
				clone = append(clone[:idx], clone[idx+1:]...)
			} else {
				clone[idx] = newValue
			}
			return clone, nil
		}

		edited, err := cloneEdit(clone[idx], rest, newValue, isDelete)
		if err != nil {
			return nil, err
		}
		clone[idx] = edited
		return clone, nil

	default:
		return nil, errCompilePathNotFound
	}
}

// arrayIndex parses seg as a non-negative decimal index within [0, n).
func arrayIndex(seg string, n int) (int, bool) {
	if seg == "" {
		return 0, false
	}
	idx := 0
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
		idx = idx*10 + int(r-'0')
	}
	if idx >= n {
		return 0, false
	}
	return idx, true
}
