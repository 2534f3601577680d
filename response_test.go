package confd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfResponseBodyRendersNullLeaf(t *testing.T) {
	resp := newConfResponse(200, nil)
	assert.True(t, resp.isConf)

	body, err := resp.body()
	require.NoError(t, err)
	assert.Equal(t, "null", string(body))
}

func TestJSONResponseBody(t *testing.T) {
	resp := newJSONResponse(200, map[string]string{"success": "Reconfiguration done."})

	body, err := resp.body()
	require.NoError(t, err)
	assert.Contains(t, string(body), "Reconfiguration done.")
}

func TestErrorResponseStatusCodes(t *testing.T) {
	cases := map[errKind]int{
		errInvalidJSON:       400,
		errPathNotFound:      404,
		errInvalidConfig:     400,
		errMethodNotAllowed:  405,
		errApplyRejected:     500,
		errResourceExhausted: 500,
	}

	for kind, status := range cases {
		resp := errorResponse(kind)
		assert.Equal(t, status, resp.status, "kind %v", kind)
	}
}
