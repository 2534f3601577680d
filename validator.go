package confd

import "fmt"

// Validator decides whether a candidate tree is acceptable before it is
// ever handed to the Serializer (§4.C). Like Compiler, this is modeled as
// an external, replaceable primitive (§1, §9); defaultValidator is the
// minimal schema check the controller ships with.
type Validator interface {
	Validate(root Value) error
}

// defaultValidator enforces the one structural invariant this controller
// actually depends on elsewhere: "listeners" and "applications", when
// present at the root, must themselves be objects (every other module
// resolves paths like /listeners/<name> expecting an object to descend
// into). Anything else is accepted — schema depth is deliberately shallow,
// consistent with the op compiler/validator being out of this spec's scope.
type defaultValidator struct{}

func (defaultValidator) Validate(root Value) error {
	obj, ok := root.(map[string]interface{})
	if !ok {
		return fmt.Errorf("root must be a JSON object")
	}

	for _, key := range []string{"listeners", "applications"} {
		v, present := obj[key]
		if !present {
			continue
		}
		if _, ok := v.(map[string]interface{}); !ok {
			return fmt.Errorf("%q must be an object", key)
		}
	}

	return nil
}
