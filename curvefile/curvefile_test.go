package curvefile

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/chain"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var P = querycurve.P

const easeYAML = `
name: ease
points:
  - at: [0, 0]
    handles: [[-1, 0], [0.5, 0]]
  - at: [1, 1]
    handles: [[0.5, 1], [2, 1]]
`

func TestParseDefaults(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d, err := Parse([]byte(easeYAML))
	require.NoError(t, err)
	assert.Equal(t, Version, d.Version)
	assert.Equal(t, "ease", d.Name)
	assert.Equal(t, []float64{1, 1}, d.Scale)
	assert.Equal(t, []float64{0, 0}, d.Offset)
	curve, err := d.Curve()
	require.NoError(t, err)
	token, err := chain.EncodeCurve(curve)
	require.NoError(t, err)
	assert.Equal(t, "fxSK-fxSK-0-0-0-0-KyjA-0-KyjA-fxSK-fxSK-fxSK", token)
}

func TestRanges(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d, err := Parse([]byte(`
range:
  x: [-6, -4]
  y: [20, 24]
points:
  - at: [0, 0]
  - at: [1, 1]
`))
	require.NoError(t, err)
	assert.Nil(t, d.Scale)
	curve, err := d.Curve()
	require.NoError(t, err)
	assert.Equal(t, P(2, 4), curve.Scale)
	assert.Equal(t, P(-3, 5), curve.Offset)
	// default handles
	assert.Equal(t, P(0.05, 0), curve.Points[0].Right())
}

func TestSmooth(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	d, err := Parse([]byte(`
smooth: true
points:
  - at: [0, 0]
  - at: [0.5, 1]
  - at: [1, 0]
`))
	require.NoError(t, err)
	curve, err := d.Curve()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, curve.Points[1].Left().Y(), 1e-9)
}

func TestInvalidDefinitions(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for _, src := range []string{
		"version: 2\npoints: []",
		"scale: [1]\npoints: []",
		"range:\n  x: [0, 1]\npoints: []",
		"points:\n  - at: [0, 0, 0]",
		"points:\n  - at: [0, 0]\n    handles: [[0, 0]]",
	} {
		d, err := Parse([]byte(src))
		require.NoError(t, err, src)
		_, err = d.Curve()
		assert.True(t, errors.Is(err, ErrFormat), "%s: %v", src, err)
	}
	d, err := Parse([]byte("scale: [0, 1]\npoints: []"))
	require.NoError(t, err)
	_, err = d.Curve()
	assert.True(t, errors.Is(err, querycurve.ErrZeroScale))
	// points sharing an x are stacked, as clamping does
	d, err = Parse([]byte("points:\n  - at: [0, 0]\n  - at: [0, 1]"))
	require.NoError(t, err)
	curve, err := d.Curve()
	require.NoError(t, err)
	require.Equal(t, 2, curve.N())
	assert.Equal(t, P(0, 1), curve.Points[1].At)
	assert.Equal(t, P(0, 1), curve.Points[1].Left())
	_, err = Parse([]byte("points: {"))
	assert.Error(t, err)
}

func TestWriteAndLoad(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	curve := chain.MustDecodeCurve("21sMy-fxSK--fxSK-fxSK-0-0-0-fxSK-fxSK-0-fxSK-fxSK")
	path := filepath.Join(t.TempDir(), "curve.yaml")
	require.NoError(t, Write(path, FromCurve("offset", curve)))
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "offset", d.Name)
	loaded, err := d.Curve()
	require.NoError(t, err)
	assert.Equal(t, curve, loaded)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	curve := chain.MustDecodeCurve("fxSK-fxSK-0-0-0-0-KyjA-0-KyjA-fxSK-fxSK-fxSK")
	data, err := Marshal(FromCurve("ease", curve))
	require.NoError(t, err)
	assert.Equal(t, `version: 1
name: ease
scale: [1, 1]
offset: [0, 0]
points:
  - at: [0, 0]
    handles: [[-1, 0], [0.5, 0]]
  - at: [1, 1]
    handles: [[0.5, 1], [2, 1]]
`, string(data))
}
