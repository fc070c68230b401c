// Package labelstudio converts between the pose label model and Label
// Studio's JSON task format.
//
// Some nomenclature from the external tool:
//   - a task is one unit of work for an annotator, here always one video
//     frame, and corresponds to a pose.LabeledFrame
//   - an annotation (older exports call it a completion) is one flat list
//     of result items: rectangles marking individuals, single keypoints,
//     and relation edges tying keypoints to their individual
//
// The read path reconstructs frames and instances from that flattened
// hierarchy; the write path flattens the model back out. Both directions
// are pure: file access lives in file.go and nothing else touches disk.
package labelstudio
