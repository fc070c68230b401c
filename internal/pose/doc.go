// Package pose defines the in-memory label model shared by every format
// converter: videos, labeled frames, instances, and skeleton keypoints.
//
// The model is deliberately small. A Labels value is an ordered list of
// LabeledFrames; each frame references a Video plus a frame index and holds
// zero or more Instances; each instance maps skeleton nodes to 2D points.
// Converters construct these values and read their fields, nothing more.
package pose
