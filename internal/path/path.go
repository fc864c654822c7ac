// Package path derives geometry from a recording's frames: the traced
// line string and summary statistics shown by the stats command.
package path

import (
	"math"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/ricksterhd123/recorder/pkg/core"
)

// Stats summarizes the motion a recording captured.
type Stats struct {
	Frames         int
	Duration       time.Duration
	Distance       float64 // 3D path length in world units
	GroundDistance float64 // 2D path length, vertical motion ignored
	Min            core.Vec3
	Max            core.Vec3
}

// LineString builds the XYZ line string traced by the frames. Fewer than
// two frames yield an empty line string.
func LineString(frames []core.Frame) geom.LineString {
	if len(frames) < 2 {
		return geom.LineString{}
	}
	coords := make([]float64, 0, len(frames)*3)
	for _, f := range frames {
		p := f.Position()
		coords = append(coords, p.X, p.Y, p.Z)
	}
	seq := geom.NewSequence(coords, geom.DimXYZ)
	return geom.NewLineString(seq)
}

// Compute derives stats for n frames sampled at sampleRateHz.
func Compute(frames []core.Frame, sampleRateHz int) Stats {
	s := Stats{Frames: len(frames)}
	if sampleRateHz > 0 && len(frames) > 0 {
		s.Duration = time.Duration(len(frames)-1) * time.Second / time.Duration(sampleRateHz)
	}
	if len(frames) == 0 {
		return s
	}

	first := frames[0].Position()
	s.Min, s.Max = first, first
	prev := first
	for _, f := range frames[1:] {
		p := f.Position()
		dx, dy, dz := p.X-prev.X, p.Y-prev.Y, p.Z-prev.Z
		s.Distance += math.Sqrt(dx*dx + dy*dy + dz*dz)
		prev = p

		s.Min.X = math.Min(s.Min.X, p.X)
		s.Min.Y = math.Min(s.Min.Y, p.Y)
		s.Min.Z = math.Min(s.Min.Z, p.Z)
		s.Max.X = math.Max(s.Max.X, p.X)
		s.Max.Y = math.Max(s.Max.Y, p.Y)
		s.Max.Z = math.Max(s.Max.Z, p.Z)
	}

	s.GroundDistance = LineString(frames).Length()
	return s
}
