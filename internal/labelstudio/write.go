package labelstudio

import (
	"time"

	"github.com/google/uuid"

	"poselabel/internal/pose"
)

// Writer knobs kept as package variables so tests can pin IDs and clocks.
var (
	newResultID = uuid.NewString
	timeNow     = time.Now
)

// Timestamps in the task format use microsecond precision with a Z suffix.
const taskTimeLayout = "2006-01-02T15:04:05.000000Z"

// Fallback image dimensions used when a video's shape was never resolved,
// so the output stays well formed.
const fallbackDimension = 100

// WriteLabels flattens a label collection into Label Studio task records,
// one task per frame, in frame order.
//
// Each instance becomes a rectangle result spanning the full image, each of
// its points a keypoint result in percentage coordinates plus a relation
// edge back to the rectangle. The rectangle carries a placeholder class
// label because the task format has no notion of instance identity yet.
func WriteLabels(labels pose.Labels) []Task {
	tasks := make([]Task, 0, len(labels.Frames))
	for _, frame := range labels.Frames {
		tasks = append(tasks, frameToTask(frame))
	}
	return tasks
}

func frameToTask(frame pose.LabeledFrame) Task {
	width := float64(fallbackDimension)
	height := float64(fallbackDimension)
	var shape []int
	if s := frame.Video.Shape; s != nil {
		height = float64(s.Height)
		width = float64(s.Width)
		shape = []int{s.Frames, s.Height, s.Width, s.Channels}
	}

	var results []Result
	for _, instance := range frame.Instances {
		instID := newResultID()
		results = append(results, Result{
			ID:             instID,
			Type:           TypeRectangleLabels,
			FromName:       "individuals",
			ToName:         "image",
			OriginalWidth:  width,
			OriginalHeight: height,
			Value: &Value{
				X:               0,
				Y:               0,
				Width:           width,
				Height:          height,
				RectangleLabels: []string{"instance_class"},
			},
		})

		for _, ip := range instance.PointsInOrder() {
			pointID := newResultID()
			results = append(results, Result{
				ID:             pointID,
				Type:           TypeKeypointLabels,
				FromName:       "keypoint-label",
				ToName:         "image",
				OriginalWidth:  width,
				OriginalHeight: height,
				Value: &Value{
					X:              Coord(ip.Point.X / width * 100),
					Y:              Coord(ip.Point.Y / height * 100),
					KeypointLabels: []string{ip.Node},
				},
			})
			results = append(results, Result{
				Type:      TypeRelation,
				FromID:    pointID,
				ToID:      instID,
				Direction: "right",
			})
		}
	}

	now := timeNow().UTC().Format(taskTimeLayout)
	return Task{
		Data: map[string]any{},
		Meta: &TaskMeta{
			Video: &TaskVideo{
				Filename: frame.Video.Filename,
				FrameIdx: frame.FrameIdx,
				Shape:    shape,
			},
		},
		Annotations: []Annotation{
			{
				Result:       results,
				WasCancelled: false,
				GroundTruth:  false,
				CreatedAt:    now,
				UpdatedAt:    now,
				LeadTime:     0,
				ResultCount:  1,
			},
		},
	}
}
