package confd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultValidatorAcceptsEmptyTree(t *testing.T) {
	assert.NoError(t, (defaultValidator{}).Validate(emptyTree()))
}

func TestDefaultValidatorRejectsNonObjectRoot(t *testing.T) {
	assert.Error(t, (defaultValidator{}).Validate([]interface{}{1, 2, 3}))
}

func TestDefaultValidatorRejectsNonObjectListeners(t *testing.T) {
	root := map[string]interface{}{
		"listeners": "not-an-object",
	}
	assert.Error(t, (defaultValidator{}).Validate(root))
}

func TestDefaultValidatorAllowsUnknownKeys(t *testing.T) {
	root := map[string]interface{}{
		"listeners":    map[string]interface{}{},
		"applications": map[string]interface{}{},
		"settings":     map[string]interface{}{"http": map[string]interface{}{}},
	}
	assert.NoError(t, (defaultValidator{}).Validate(root))
}
