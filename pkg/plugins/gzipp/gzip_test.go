package gzipp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rdbridge/pkg/plugins"
)

func TestGzipRoundTrip(t *testing.T) {
	reg, err := plugins.Load("gzip", nil)
	require.NoError(t, err)

	payload := bytes.Repeat([]byte(`{"a":"app","v":[{"n":"x","v":"1"}]}`), 50)

	transformed, err := plugins.Transform([]plugins.Registration{reg}, payload)
	require.NoError(t, err)
	assert.Less(t, len(transformed), len(payload))

	restored, err := plugins.Restore([]plugins.Registration{reg}, transformed)
	require.NoError(t, err)
	assert.Equal(t, payload, restored)
}

func TestGzipRestoreRejectsGarbage(t *testing.T) {
	reg, err := plugins.Load("gzip", nil)
	require.NoError(t, err)

	_, err = plugins.Restore([]plugins.Registration{reg}, []byte("not gzip"))
	assert.Error(t, err)
}
