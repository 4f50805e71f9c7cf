/*
Package curvefile reads and writes curve definitions in YAML:

	version: 1
	name: ease-in-out
	range:
	  x: [0, 100]
	  y: [0, 1]
	points:
	  - at: [0, 0]
	    handles: [[-1, 0], [0.5, 0]]
	  - at: [1, 1]
	    handles: [[0.5, 1], [2, 1]]

Coordinates are internal ones. Either scale and offset are given, or a range
per axis, from which scale and offset are derived. Points without handles
get default handles; with smooth set, handles are computed for all points.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curvefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/npillmayer/querycurve"
	"github.com/npillmayer/querycurve/builder"
	"gopkg.in/yaml.v3"
)

// Version is the current version of the file format.
const Version = 1

// ErrFormat indicates a definition which cannot be turned into a curve.
var ErrFormat = errors.New("invalid curve definition")

// Definition is the YAML representation of a curve.
type Definition struct {
	Version int        `yaml:"version"`
	Name    string     `yaml:"name,omitempty"`
	Scale   []float64  `yaml:"scale,flow,omitempty"`
	Offset  []float64  `yaml:"offset,flow,omitempty"`
	Range   *Ranges    `yaml:"range,omitempty"`
	Points  []PointDef `yaml:"points"`
	Smooth  bool       `yaml:"smooth,omitempty"`
}

// Ranges gives the external interval per axis, as [from, to].
type Ranges struct {
	X []float64 `yaml:"x,flow"`
	Y []float64 `yaml:"y,flow"`
}

// PointDef is an anchor with optional handles [left, right].
type PointDef struct {
	At      []float64   `yaml:"at,flow"`
	Handles [][]float64 `yaml:"handles,flow,omitempty"`
}

func (d *Definition) normalize() {
	if d.Version == 0 {
		d.Version = Version
	}
	if d.Range == nil {
		if d.Scale == nil {
			d.Scale = []float64{1, 1}
		}
		if d.Offset == nil {
			d.Offset = []float64{0, 0}
		}
	}
}

// Parse reads a definition from YAML.
func Parse(data []byte) (Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Definition{}, fmt.Errorf("parse curve definition: %w", err)
	}
	d.normalize()
	return d, nil
}

// Load reads a definition from a YAML file.
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Marshal writes a definition as YAML.
func Marshal(d Definition) ([]byte, error) {
	d.normalize()
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&d); err != nil {
		return nil, fmt.Errorf("encode curve definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode curve definition: %w", err)
	}
	return buf.Bytes(), nil
}

// Write writes a definition to a YAML file.
func Write(path string, d Definition) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Builder creates a curve builder for the definition.
func (d Definition) Builder(opts ...builder.Option) (*builder.Builder, error) {
	if d.Version > Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, d.Version)
	}
	curve := querycurve.NewCurve()
	var err error
	if d.Range != nil {
		x, errx := toRange("range.x", d.Range.X)
		y, erry := toRange("range.y", d.Range.Y)
		if err = errors.Join(errx, erry); err != nil {
			return nil, err
		}
		if curve.Scale, curve.Offset, err = querycurve.ScaleOffsetOf(x, y); err != nil {
			return nil, err
		}
	} else {
		if curve.Scale, err = toPair("scale", d.Scale); err != nil {
			return nil, err
		}
		if curve.Offset, err = toPair("offset", d.Offset); err != nil {
			return nil, err
		}
	}
	for i, pd := range d.Points {
		pt, err := pd.point(i)
		if err != nil {
			return nil, err
		}
		curve.Points = append(curve.Points, pt)
	}
	b, err := builder.New(curve, opts...)
	if err != nil {
		return nil, err
	}
	if d.Smooth {
		if err = b.Smooth(); err != nil {
			return nil, fmt.Errorf("smoothing %q: %w", d.Name, err)
		}
	}
	return b, nil
}

// Curve creates the curve for the definition.
func (d Definition) Curve() (querycurve.Curve, error) {
	b, err := d.Builder()
	if err != nil {
		return querycurve.Curve{}, err
	}
	return b.Curve(), nil
}

// FromCurve creates a definition listing all points of curve with their
// handles, rounded to the encoding precision.
func FromCurve(name string, curve querycurve.Curve) Definition {
	d := Definition{
		Version: Version,
		Name:    name,
		Scale:   fromPair(curve.Scale),
		Offset:  fromPair(curve.Offset),
		Points:  make([]PointDef, len(curve.Points)),
	}
	for i, pt := range curve.Points {
		d.Points[i] = PointDef{
			At:      fromPair(pt.At),
			Handles: [][]float64{fromPair(pt.Left()), fromPair(pt.Right())},
		}
	}
	return d
}

func (pd PointDef) point(i int) (querycurve.Point, error) {
	at, err := toPair(fmt.Sprintf("points[%d].at", i), pd.At)
	if err != nil {
		return querycurve.Point{}, err
	}
	pt := querycurve.NewPoint(at)
	if pd.Handles == nil {
		return pt, nil
	}
	if len(pd.Handles) != 2 {
		return pt, fmt.Errorf("%w: points[%d].handles needs 2 entries, has %d", ErrFormat, i, len(pd.Handles))
	}
	for side, h := range pd.Handles {
		if pt.Handle[side], err = toPair(fmt.Sprintf("points[%d].handles[%d]", i, side), h); err != nil {
			return pt, err
		}
	}
	return pt, nil
}

func toPair(field string, v []float64) (querycurve.Pair, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("%w: %s needs 2 values, has %d", ErrFormat, field, len(v))
	}
	return querycurve.P(v[0], v[1]), nil
}

func toRange(field string, v []float64) (querycurve.Range, error) {
	if len(v) != 2 {
		return querycurve.Range{}, fmt.Errorf("%w: %s needs 2 values, has %d", ErrFormat, field, len(v))
	}
	return querycurve.Range{From: v[0], To: v[1]}, nil
}

func fromPair(p querycurve.Pair) []float64 {
	p = p.Round()
	return []float64{p.X(), p.Y()}
}
