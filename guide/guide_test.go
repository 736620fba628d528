package guide

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	doc := Build()
	require.NotNil(t, doc)
	require.NoError(t, doc.Validate())

	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	assert.NotZero(t, buf.Len())
}
