package pose

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Node is a single named landmark in a skeleton.
type Node struct {
	Name string
}

// Skeleton is an ordered, named set of nodes. Node order is the canonical
// ordering used whenever points must be emitted deterministically.
type Skeleton struct {
	Name  string
	Nodes []Node
}

// NewSkeleton builds a skeleton from plain node names, preserving order.
func NewSkeleton(name string, nodeNames []string) Skeleton {
	nodes := make([]Node, 0, len(nodeNames))
	for _, n := range nodeNames {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		nodes = append(nodes, Node{Name: n})
	}
	return Skeleton{Name: name, Nodes: nodes}
}

// Index returns the position of the named node, or -1 when the skeleton does
// not contain it. Matching uses Unicode case folding so externally authored
// labels such as "Head" still resolve against a "head" node.
func (s Skeleton) Index(name string) int {
	folder := cases.Fold()
	target := folder.String(strings.TrimSpace(name))
	for i, node := range s.Nodes {
		if folder.String(node.Name) == target {
			return i
		}
	}
	return -1
}

// NodeNames returns the node names in skeleton order.
func (s Skeleton) NodeNames() []string {
	names := make([]string, len(s.Nodes))
	for i, node := range s.Nodes {
		names[i] = node.Name
	}
	return names
}

// Point is a 2D landmark position in absolute pixel coordinates.
//
// Visible is a tri-state: nil means the producer never said either way,
// while a non-nil value records an explicit flag. The distinction is kept
// because some annotation sources only flag visibility for a subset of
// their points.
type Point struct {
	X       float64
	Y       float64
	Visible *bool
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// VisibleTrue returns a pointer to true, for building explicitly visible points.
func VisibleTrue() *bool {
	v := true
	return &v
}

// InstancePoint pairs a node name with its point within one instance.
type InstancePoint struct {
	Node  string
	Point Point
}

// Instance is a single subject within a frame: an ordered set of named
// points tied to a skeleton.
type Instance struct {
	Skeleton Skeleton
	Points   []InstancePoint
}

// NewInstance builds an instance over the given skeleton.
func NewInstance(skeleton Skeleton, points []InstancePoint) Instance {
	return Instance{Skeleton: skeleton, Points: points}
}

// NumPoints returns the number of points stored on the instance.
func (in Instance) NumPoints() int {
	return len(in.Points)
}

// PointsInOrder returns the instance points sorted by skeleton node order.
// Points whose node is unknown to the skeleton follow the known ones in
// their original insertion order.
func (in Instance) PointsInOrder() []InstancePoint {
	ordered := make([]InstancePoint, len(in.Points))
	copy(ordered, in.Points)
	sort.SliceStable(ordered, func(i, j int) bool {
		a := in.Skeleton.Index(ordered[i].Node)
		b := in.Skeleton.Index(ordered[j].Node)
		if a < 0 && b < 0 {
			return false
		}
		if a < 0 {
			return false
		}
		if b < 0 {
			return true
		}
		return a < b
	})
	return ordered
}

// Shape describes the dimensions of a video as (frames, height, width, channels).
type Shape struct {
	Frames   int
	Height   int
	Width    int
	Channels int
}

// Video references the media a frame was annotated against. Shape is nil
// when the video dimensions were never resolved.
type Video struct {
	Filename string
	Shape    *Shape
}

// LabeledFrame holds every instance annotated on one frame of a video.
type LabeledFrame struct {
	Video     Video
	FrameIdx  int
	Instances []Instance
}

// NumInstances returns the number of instances on the frame.
func (f LabeledFrame) NumInstances() int {
	return len(f.Instances)
}

// Labels is an ordered collection of labeled frames.
type Labels struct {
	Frames []LabeledFrame
}

// NumFrames returns the number of labeled frames.
func (l Labels) NumFrames() int {
	return len(l.Frames)
}

// NumInstances returns the total instance count across all frames.
func (l Labels) NumInstances() int {
	total := 0
	for _, frame := range l.Frames {
		total += len(frame.Instances)
	}
	return total
}

// Videos returns the distinct video filenames referenced by the collection,
// in first-seen order.
func (l Labels) Videos() []string {
	seen := make(map[string]struct{}, len(l.Frames))
	names := make([]string, 0, len(l.Frames))
	for _, frame := range l.Frames {
		if _, ok := seen[frame.Video.Filename]; ok {
			continue
		}
		seen[frame.Video.Filename] = struct{}{}
		names = append(names, frame.Video.Filename)
	}
	return names
}
