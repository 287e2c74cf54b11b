package normalizer

import (
	"errors"
	"strings"
	"testing"

	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"
)

func tag(name string, priority int, children ...*tree.Node) *tree.Node {
	n := tree.NewTag(name, tree.Location{})
	n.Priority = priority
	n.Append(children...)
	return n
}

func leaf(name, value string, priority int) *tree.Node {
	return tag(name, priority, &tree.Node{Value: value, Priority: priority})
}

func mergeAll(root *tree.Node, specs *validator.Specs) int {
	iterations, _ := Fixpoint(func() (bool, error) {
		return MergeNodes(root, specs), nil
	})
	return iterations
}

func TestMergeNodes_SonarScenario(t *testing.T) {
	root := tag("robot", 0,
		tag("sonar", 0, leaf("max_range", "3", 0), leaf("min_range", "0.1", 0)),
		leaf("radius", "0.2", 0),
		tag("sonar", 1, leaf("cone_angle", "0.5", 1)),
		tag("sonar", 0, leaf("frame_id", "sonar_0", 0), leaf("noise", "none", 0)),
	)

	if got := mergeAll(root, validator.NewSpecs()); got != 1 {
		t.Errorf("iterations = %d, want 1", got)
	}

	if got := strings.Join(childTags(root), ","); got != "sonar,radius" {
		t.Fatalf("robot children = %s, want sonar,radius", got)
	}
	sonar := root.Elements[0]
	want := "max_range,min_range,cone_angle,frame_id,noise"
	if got := strings.Join(childTags(sonar), ","); got != want {
		t.Errorf("sonar children = %s, want %s", got, want)
	}
	if sonar.Priority != 1 {
		t.Errorf("merged priority = %d, want 1", sonar.Priority)
	}
}

func TestMergeNodes_NonMergable(t *testing.T) {
	specs := validator.NewSpecs()
	specs.NonMergable.Add("sonar")

	root := tag("robot", 0,
		tag("sonar", 0, leaf("max_range", "3", 0)),
		tag("sonar", 0, leaf("max_range", "4", 0)),
	)
	if MergeNodes(root, specs) {
		t.Error("MergeNodes() merged a non-mergable tag")
	}
	if len(root.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(root.Elements))
	}
}

func TestMergeNodes_LeavesLeftForValueMerge(t *testing.T) {
	root := tag("laser", 0, leaf("max_range", "3", 0), leaf("max_range", "4", 1))
	if MergeNodes(root, validator.NewSpecs()) {
		t.Error("MergeNodes() merged leaf siblings")
	}
}

func TestMergeNodes_RevealsNestedDuplicates(t *testing.T) {
	root := tag(tree.DocumentTag, 0,
		tag("robot", 0,
			tag("kinematic", 0, tag("noise", 0, leaf("mean", "0", 0))),
			tag("kinematic", 0, tag("noise", 0, leaf("std", "1", 0))),
		),
	)

	if got := mergeAll(root, validator.NewSpecs()); got != 2 {
		t.Errorf("iterations = %d, want 2", got)
	}

	noise := root.Elements[0].Elements[0].Elements
	if len(noise) != 1 {
		t.Fatalf("kinematic children = %d, want 1", len(noise))
	}
	if got := strings.Join(childTags(noise[0]), ","); got != "mean,std" {
		t.Errorf("noise children = %s, want mean,std", got)
	}
}

func TestMergeNodes_OrderPreservation(t *testing.T) {
	tests := []struct {
		name   string
		groups [][]string
	}{
		{"single child each", [][]string{{"a"}, {"b"}, {"c"}}},
		{"uneven", [][]string{{"a", "b", "c"}, {}, {"d"}}},
		{"repeated names", [][]string{{"x", "y"}, {"y", "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tag("parent", 0)
			var want []string
			for i, group := range tt.groups {
				dup := tag("dup", 0)
				for j, name := range group {
					dup.Append(leaf(name, strings.Repeat("v", i+j+1), 0))
					want = append(want, name)
				}
				root.Append(dup)
				root.Append(leaf("sep", "s", 0))
			}

			mergeAll(root, validator.NewSpecs())

			idx := root.GetTag("dup")
			if len(idx) != 1 {
				t.Fatalf("dup occurrences = %d, want 1", len(idx))
			}
			if got := childTags(root.Elements[idx[0]]); strings.Join(got, ",") != strings.Join(want, ",") {
				t.Errorf("merged children = %v, want %v", got, want)
			}
		})
	}
}

func TestMergeNodes_Idempotent(t *testing.T) {
	root := tag("robot", 0,
		tag("sonar", 0, leaf("max_range", "3", 0)),
		tag("sonar", 0, leaf("min_range", "1", 0)),
	)
	mergeAll(root, validator.NewSpecs())

	before := root.String()
	if MergeNodes(root, validator.NewSpecs()) {
		t.Error("MergeNodes() at fixpoint returned true")
	}
	if root.String() != before {
		t.Error("MergeNodes() at fixpoint modified the tree")
	}
}

func TestMergeNodesValues_TieBreak(t *testing.T) {
	tests := []struct {
		name       string
		priorities []int
		wantValue  string
	}{
		{"higher later", []int{0, 1}, "v1"},
		{"higher first", []int{2, 1}, "v0"},
		{"tie keeps later", []int{1, 1}, "v1"},
		{"three way", []int{0, 3, 2}, "v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tag("laser", 0, leaf("frame_id", "laser_0", 0))
			for i, p := range tt.priorities {
				root.Append(leaf("max_range", "v"+string(rune('0'+i)), p))
			}

			removed := MergeNodesValues(root, validator.NewSpecs())
			if removed != len(tt.priorities)-1 {
				t.Errorf("removed = %d, want %d", removed, len(tt.priorities)-1)
			}

			idx := root.GetTag("max_range")
			if len(idx) != 1 {
				t.Fatalf("max_range occurrences = %d, want 1", len(idx))
			}
			if got := root.Elements[idx[0]].Text(); got != tt.wantValue {
				t.Errorf("kept %q, want %q", got, tt.wantValue)
			}
			if root.Elements[0].Tag != "frame_id" {
				t.Error("unrelated leaf moved")
			}
		})
	}
}

func TestMergeNodesValues_Sweep(t *testing.T) {
	specs := validator.NewSpecs()
	specs.NonMergable.Add("point")

	root := tag("robot", 0,
		tag("footprint", 0,
			tag("points", 0, leaf("point", "0 0", 0), leaf("point", "1 0", 0)),
			leaf("radius", "0.1", 0),
			leaf("radius", "0.3", 1),
		),
		tag("kinematic", 0, leaf("model", "ideal", 1), leaf("model", "omni", 0)),
	)

	if removed := MergeNodesValues(root, specs); removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	footprint := root.Elements[0]
	if got := len(footprint.Elements[0].GetTag("point")); got != 2 {
		t.Errorf("point leaves = %d, want 2", got)
	}
	if got := footprint.Elements[footprint.GetTag("radius")[0]].Text(); got != "0.3" {
		t.Errorf("radius = %q, want 0.3", got)
	}
	if got := root.Elements[1].Elements[0].Text(); got != "ideal" {
		t.Errorf("model = %q, want ideal", got)
	}

	if MergeNodesValues(root, specs) != 0 {
		t.Error("second sweep removed leaves")
	}
}

func TestFillDefaults(t *testing.T) {
	specs := validator.NewSpecs()
	specs.Extend(map[string]validator.ElSpecs{
		"laser":     {Allowed: validator.NewTagSet("max_range", "frequency", "frame_id")},
		"frequency": {DefaultValue: "10"},
		"frame_id":  {DefaultValue: "laser"},
	})

	root := tag("robot", 0,
		tag("laser", 2, leaf("max_range", "5", 2)),
		tag("laser", 0, leaf("frequency", "20", 0)),
	)

	if added := FillDefaults(root, specs); added != 3 {
		t.Errorf("added = %d, want 3", added)
	}

	first := root.Elements[0]
	if got := strings.Join(childTags(first), ","); got != "max_range,frame_id,frequency" {
		t.Errorf("first laser children = %s", got)
	}
	freq := first.Elements[first.GetTag("frequency")[0]]
	if freq.Text() != "10" || freq.Priority != 2 {
		t.Errorf("default frequency = %q priority %d, want 10 priority 2", freq.Text(), freq.Priority)
	}

	second := root.Elements[1]
	if got := second.Elements[second.GetTag("frequency")[0]].Text(); got != "20" {
		t.Errorf("explicit frequency overwritten with %q", got)
	}

	if FillDefaults(root, specs) != 0 {
		t.Error("second FillDefaults() added leaves")
	}
}

func TestFixpoint(t *testing.T) {
	calls := 0
	iterations, err := Fixpoint(func() (bool, error) {
		calls++
		return calls < 4, nil
	})
	if err != nil || iterations != 3 || calls != 4 {
		t.Errorf("Fixpoint() = %d, %v after %d calls; want 3, nil after 4", iterations, err, calls)
	}

	boom := errors.New("boom")
	calls = 0
	iterations, err = Fixpoint(func() (bool, error) {
		calls++
		if calls == 2 {
			return false, boom
		}
		return true, nil
	})
	if !errors.Is(err, boom) || iterations != 1 {
		t.Errorf("Fixpoint() = %d, %v; want 1, boom", iterations, err)
	}
}
