package labelstudio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Result type tags used by the external tool.
const (
	TypeRectangleLabels = "rectanglelabels"
	TypeKeypointLabels  = "keypointlabels"
	TypeRelation        = "relation"
)

// Task is one Label Studio task record. Depending on the tool version the
// annotation sets live under "annotations" or "completions"; both are
// decoded and AnnotationSets picks whichever is present.
type Task struct {
	ID          TaskID         `json:"id,omitempty"`
	Data        map[string]any `json:"data"`
	Meta        *TaskMeta      `json:"meta,omitempty"`
	Annotations []Annotation   `json:"annotations,omitempty"`
	Completions []Annotation   `json:"completions,omitempty"`
}

// AnnotationSets returns the task's annotation sets, preferring the modern
// "annotations" key over the legacy "completions" key. ok is false when the
// task carries neither.
func (t Task) AnnotationSets() ([]Annotation, bool) {
	if t.Annotations != nil {
		return t.Annotations, true
	}
	if t.Completions != nil {
		return t.Completions, true
	}
	return nil, false
}

// TaskID tolerates the number and string identifiers seen across tool
// versions. The zero value means the task had no identifier.
type TaskID string

// UnmarshalJSON accepts a JSON number, string, or null.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

// MarshalJSON emits the identifier as a number when it parses as one.
func (id TaskID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Label formats the identifier for diagnostics, using "??" when absent.
func (id TaskID) Label() string {
	if strings.TrimSpace(string(id)) == "" {
		return "??"
	}
	return string(id)
}

// TaskMeta carries the out-of-band metadata attached to a task.
type TaskMeta struct {
	Video *TaskVideo `json:"video,omitempty"`
}

// TaskVideo locates the frame a task annotates within its source video.
// Shape, when present, is (frames, height, width, channels).
type TaskVideo struct {
	Filename string `json:"filename"`
	FrameIdx int    `json:"frame_idx"`
	Shape    []int  `json:"shape,omitempty"`
}

// Annotation is one set of results authored over a task.
type Annotation struct {
	Result       []Result `json:"result"`
	WasCancelled bool     `json:"was_cancelled"`
	GroundTruth  bool     `json:"ground_truth"`
	CreatedAt    string   `json:"created_at,omitempty"`
	UpdatedAt    string   `json:"updated_at,omitempty"`
	LeadTime     float64  `json:"lead_time"`
	ResultCount  int      `json:"result_count,omitempty"`
}

// Result is one entry in an annotation's flat result list, a tagged union
// over Type. Rectangle and keypoint results carry geometry in Value plus
// the source image dimensions; relation results carry only the edge fields.
type Result struct {
	ID             string  `json:"id,omitempty"`
	Type           string  `json:"type"`
	FromName       string  `json:"from_name,omitempty"`
	ToName         string  `json:"to_name,omitempty"`
	OriginalWidth  float64 `json:"original_width,omitempty"`
	OriginalHeight float64 `json:"original_height,omitempty"`
	ImageRotation  float64 `json:"image_rotation,omitempty"`
	Value          *Value  `json:"value,omitempty"`

	// Relation edge fields. Direction is carried verbatim for round-trip
	// compatibility; the edge is treated as undirected on read.
	FromID    string `json:"from_id,omitempty"`
	ToID      string `json:"to_id,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Value holds the geometry payload of a rectangle or keypoint result.
// Coordinates are percentages of the original image dimensions.
type Value struct {
	X               Coord    `json:"x"`
	Y               Coord    `json:"y"`
	Width           float64  `json:"width,omitempty"`
	Height          float64  `json:"height,omitempty"`
	Rotation        float64  `json:"rotation,omitempty"`
	RectangleLabels []string `json:"rectanglelabels,omitempty"`
	KeypointLabels  []string `json:"keypointlabels,omitempty"`
}

// Coord is a coordinate that survives the non-finite values Python-built
// exports contain. A null (or sanitized NaN) decodes to NaN, which the
// parser treats as "not annotated"; NaN encodes back to null.
type Coord float64

// UnmarshalJSON decodes a JSON number, a null, or a quoted "NaN".
func (c *Coord) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null", `"NaN"`, `"nan"`:
		*c = Coord(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("coordinate: %w", err)
	}
	*c = Coord(f)
	return nil
}

// MarshalJSON emits null for non-finite values so the output stays valid JSON.
func (c Coord) MarshalJSON() ([]byte, error) {
	f := float64(c)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// DecodeTasks parses a raw Label Studio export document into task records.
// Bare NaN/Infinity tokens, which Python's json module emits but strict
// JSON forbids, are rewritten to null first.
func DecodeTasks(raw []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(sanitizeNonFinite(raw), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// EncodeTasks serializes task records to a JSON document, indented when
// pretty is set.
func EncodeTasks(tasks []Task, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(tasks, "", "  ")
	} else {
		data, err = json.Marshal(tasks)
	}
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// sanitizeNonFinite replaces bare NaN, Infinity, and -Infinity tokens
// outside string literals with null.
func sanitizeNonFinite(raw []byte) []byte {
	if !bytes.Contains(raw, []byte("NaN")) && !bytes.Contains(raw, []byte("Infinity")) {
		return raw
	}
	var out bytes.Buffer
	out.Grow(len(raw))
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			out.WriteByte(c)
		case c == 'N' && bytes.HasPrefix(raw[i:], []byte("NaN")):
			out.WriteString("null")
			i += len("NaN") - 1
		case c == 'I' && bytes.HasPrefix(raw[i:], []byte("Infinity")):
			out.WriteString("null")
			i += len("Infinity") - 1
		case c == '-' && bytes.HasPrefix(raw[i:], []byte("-Infinity")):
			out.WriteString("null")
			i += len("-Infinity") - 1
		default:
			out.WriteByte(c)
		}
	}
	return out.Bytes()
}
