package labelstudio

import (
	"fmt"
	"testing"
	"time"
)

func TestFilterAndIndexKeepsOnlyRequestedType(t *testing.T) {
	results := []Result{
		{ID: "r1", Type: TypeRectangleLabels},
		{ID: "k1", Type: TypeKeypointLabels},
		{ID: "rel", Type: TypeRelation, FromID: "k1", ToID: "r1"},
		{ID: "k2", Type: TypeKeypointLabels},
	}

	idx := filterAndIndex(results, TypeKeypointLabels)
	if idx.Len() != 2 {
		t.Fatalf("expected 2 keypoints indexed, got %d", idx.Len())
	}
	if _, ok := idx.Get("r1"); ok {
		t.Fatal("rectangle result leaked into keypoint index")
	}
	ids := idx.IDs()
	if len(ids) != 2 || ids[0] != "k1" || ids[1] != "k2" {
		t.Fatalf("unexpected ID order: %v", ids)
	}
}

func TestFilterAndIndexLastDuplicateWins(t *testing.T) {
	results := []Result{
		{ID: "k1", Type: TypeKeypointLabels, OriginalWidth: 100},
		{ID: "k1", Type: TypeKeypointLabels, OriginalWidth: 200},
	}

	idx := filterAndIndex(results, TypeKeypointLabels)
	if idx.Len() != 1 {
		t.Fatalf("expected duplicate to collapse, got %d entries", idx.Len())
	}
	kpt, ok := idx.Get("k1")
	if !ok {
		t.Fatal("k1 not indexed")
	}
	if kpt.OriginalWidth != 200 {
		t.Fatalf("expected last duplicate to win, got original_width=%v", kpt.OriginalWidth)
	}
	if len(idx.IDs()) != 1 {
		t.Fatalf("duplicate ID recorded twice in order: %v", idx.IDs())
	}
}

func TestBuildRelationMapIsSymmetric(t *testing.T) {
	results := []Result{
		{ID: "rel1", Type: TypeRelation, FromID: "k1", ToID: "r1"},
		{ID: "rel2", Type: TypeRelation, FromID: "k2", ToID: "r1"},
		{ID: "k1", Type: TypeKeypointLabels},
	}

	relmap := buildRelationMap(results)
	if got := relmap["r1"]; len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Fatalf("r1 neighbors = %v", got)
	}
	if got := relmap["k1"]; len(got) != 1 || got[0] != "r1" {
		t.Fatalf("k1 neighbors = %v", got)
	}
	if got := relmap["k2"]; len(got) != 1 || got[0] != "r1" {
		t.Fatalf("k2 neighbors = %v", got)
	}
	if _, ok := relmap["unrelated"]; ok {
		t.Fatal("IDs without relations must be absent from the map")
	}
}

func TestSanitizeNonFinite(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare nan", `{"x": NaN}`, `{"x": null}`},
		{"infinity", `{"x": Infinity, "y": -Infinity}`, `{"x": null, "y": null}`},
		{"inside string untouched", `{"note": "NaN is fine", "x": NaN}`, `{"note": "NaN is fine", "x": null}`},
		{"escaped quote", `{"note": "say \"NaN\"", "x": 1}`, `{"note": "say \"NaN\"", "x": 1}`},
		{"clean input returned as-is", `{"x": 1.5}`, `{"x": 1.5}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := string(sanitizeNonFinite([]byte(tc.in)))
			if got != tc.want {
				t.Fatalf("sanitize(%s) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

// pinWriter fixes the ID generator and clock for deterministic writer output.
func pinWriter(t *testing.T) {
	t.Helper()

	origID := newResultID
	origNow := timeNow
	seq := 0
	newResultID = func() string {
		seq++
		return fmt.Sprintf("id-%02d", seq)
	}
	timeNow = func() time.Time {
		return time.Date(2024, time.March, 5, 12, 30, 15, 123456000, time.UTC)
	}
	t.Cleanup(func() {
		newResultID = origID
		timeNow = origNow
	})
}
