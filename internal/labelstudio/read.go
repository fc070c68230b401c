package labelstudio

import (
	"fmt"
	"log/slog"

	"poselabel/internal/logging"
	"poselabel/internal/pose"
)

// ParseTasks converts Label Studio task records into a label collection,
// parsing each task independently and concatenating frames in input order.
// A task missing both annotation keys fails the whole parse with
// ErrMissingAnnotationKey.
func ParseTasks(tasks []Task, skeleton pose.Skeleton, logger *slog.Logger) (pose.Labels, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	frames := make([]pose.LabeledFrame, 0, len(tasks))
	for _, task := range tasks {
		sets, ok := task.AnnotationSets()
		if !ok {
			return pose.Labels{}, wrapTask(task.ID, ErrMissingAnnotationKey)
		}
		frame, err := parseTask(task, sets, skeleton, logger)
		if err != nil {
			return pose.Labels{}, wrapTask(task.ID, err)
		}
		frames = append(frames, frame)
	}
	return pose.Labels{Frames: frames}, nil
}

// parseTask reconstructs one labeled frame from a task's first annotation set.
func parseTask(task Task, sets []Annotation, skeleton pose.Skeleton, logger *slog.Logger) (pose.LabeledFrame, error) {
	if len(sets) == 0 {
		return pose.LabeledFrame{}, fmt.Errorf("annotation set list is empty")
	}
	if len(sets) > 1 {
		logger.Warn("multiple annotation sets found, only taking the first",
			logging.String(logging.FieldTaskID, task.ID.Label()),
			logging.Int("discarded_sets", len(sets)-1))
	}

	results := sets[0].Result

	individuals := filterAndIndex(results, TypeRectangleLabels)
	keypoints := filterAndIndex(results, TypeKeypointLabels)
	relations := buildRelationMap(results)

	// Keypoints consumed by an individual are tracked here rather than
	// removed from the index, so the leftover pass below can skip them.
	claimed := make(map[string]struct{}, keypoints.Len())
	var instances []pose.Instance

	// Multi-subject case: walk individuals in encounter order and claim
	// their related keypoints.
	for _, indvID := range individuals.IDs() {
		var points []pose.InstancePoint
		for _, relID := range relations[indvID] {
			kpt, ok := keypoints.Get(relID)
			if !ok {
				return pose.LabeledFrame{}, fmt.Errorf("relation for individual %q references %q, which is not an unclaimed keypoint", indvID, relID)
			}
			if _, taken := claimed[relID]; taken {
				return pose.LabeledFrame{}, fmt.Errorf("relation for individual %q references %q, which is not an unclaimed keypoint", indvID, relID)
			}
			claimed[relID] = struct{}{}

			point, node, err := keypointToPoint(kpt)
			if err != nil {
				return pose.LabeledFrame{}, err
			}
			// NaN means the annotator never placed this keypoint.
			if point.IsNaN() {
				continue
			}
			points = append(points, pose.InstancePoint{Node: node, Point: point})
		}
		if len(points) > 0 {
			instances = append(instances, pose.NewInstance(skeleton, points))
		}
	}

	// Any keypoints left unclaimed form one extra instance. For a
	// single-subject task this is the only instance; in multi-subject
	// tasks it collects ungrouped keypoints. These were positively placed
	// by the annotator, so they carry an explicit visible flag.
	var leftover []pose.InstancePoint
	for _, kptID := range keypoints.IDs() {
		if _, taken := claimed[kptID]; taken {
			continue
		}
		kpt, _ := keypoints.Get(kptID)
		point, node, err := keypointToPoint(kpt)
		if err != nil {
			return pose.LabeledFrame{}, err
		}
		if point.IsNaN() {
			continue
		}
		point.Visible = pose.VisibleTrue()
		leftover = append(leftover, pose.InstancePoint{Node: node, Point: point})
	}
	if len(leftover) > 0 {
		instances = append(instances, pose.NewInstance(skeleton, leftover))
	}

	video, frameIdx, err := videoFromTask(task)
	if err != nil {
		return pose.LabeledFrame{}, err
	}

	return pose.LabeledFrame{Video: video, FrameIdx: frameIdx, Instances: instances}, nil
}

// keypointToPoint converts a keypoint result's percentage coordinates to
// absolute pixels using the dimensions recorded on that result.
func keypointToPoint(kpt Result) (pose.Point, string, error) {
	if kpt.Value == nil {
		return pose.Point{}, "", fmt.Errorf("keypoint %q has no value payload", kpt.ID)
	}
	if len(kpt.Value.KeypointLabels) == 0 {
		return pose.Point{}, "", fmt.Errorf("keypoint %q has no label", kpt.ID)
	}
	node := kpt.Value.KeypointLabels[0]
	x := float64(kpt.Value.X) * kpt.OriginalWidth / 100
	y := float64(kpt.Value.Y) * kpt.OriginalHeight / 100
	return pose.Point{X: x, Y: y}, node, nil
}

// videoFromTask resolves the video reference and frame index for a task.
func videoFromTask(task Task) (pose.Video, int, error) {
	if task.Meta == nil || task.Meta.Video == nil {
		return pose.Video{}, 0, ErrMissingVideoInfo
	}
	meta := task.Meta.Video
	video := pose.Video{Filename: meta.Filename, Shape: shapeFromSlice(meta.Shape)}
	return video, meta.FrameIdx, nil
}

func shapeFromSlice(dims []int) *pose.Shape {
	if len(dims) < 3 {
		return nil
	}
	shape := pose.Shape{Frames: dims[0], Height: dims[1], Width: dims[2]}
	if len(dims) > 3 {
		shape.Channels = dims[3]
	}
	return &shape
}

// resultIndex holds results of one type keyed by annotation ID while
// remembering first-seen order, which Go maps do not.
type resultIndex struct {
	byID  map[string]Result
	order []string
}

// filterAndIndex keeps only results of the requested type, indexed by ID.
// A later duplicate ID silently overwrites an earlier one; the source
// format permits this and it is left uncorrected.
func filterAndIndex(results []Result, typ string) resultIndex {
	idx := resultIndex{byID: make(map[string]Result)}
	for _, res := range results {
		if res.Type != typ {
			continue
		}
		if _, seen := idx.byID[res.ID]; !seen {
			idx.order = append(idx.order, res.ID)
		}
		idx.byID[res.ID] = res
	}
	return idx
}

// Get returns the indexed result for id.
func (x resultIndex) Get(id string) (Result, bool) {
	res, ok := x.byID[id]
	return res, ok
}

// IDs returns the indexed IDs in first-seen order.
func (x resultIndex) IDs() []string {
	return x.order
}

// Len returns the number of indexed results.
func (x resultIndex) Len() int {
	return len(x.byID)
}

// buildRelationMap reduces relation results to a symmetric adjacency list:
// each edge is recorded under both its from_id and its to_id. IDs that
// appear in no relation are absent; a map miss means "no edges".
func buildRelationMap(results []Result) map[string][]string {
	relmap := make(map[string][]string)
	for _, res := range results {
		if res.Type != TypeRelation {
			continue
		}
		relmap[res.FromID] = append(relmap[res.FromID], res.ToID)
		relmap[res.ToID] = append(relmap[res.ToID], res.FromID)
	}
	return relmap
}
