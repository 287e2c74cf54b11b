package stdr

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"stdr-sim/stdrc/pkg/config"
	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/tree"
	"stdr-sim/stdrc/pkg/stdr/validator"
	"stdr-sim/stdrc/pkg/telemetry/logging"
)

const schemaXML = `<specifications>
  <robot>
    <allowed>laser, sonar, kinematic</allowed>
  </robot>
  <laser>
    <allowed>max_angle, min_angle, max_range, min_range, num_rays, frequency, frame_id, noise</allowed>
    <required>max_angle, min_angle, max_range, min_range, num_rays, frequency, frame_id</required>
  </laser>
  <sonar>
    <allowed>max_range, min_range, cone_angle, frame_id</allowed>
  </sonar>
  <kinematic>
    <allowed>model</allowed>
  </kinematic>
  <noise>
    <default>none</default>
  </noise>
</specifications>
`

const exemptionsXML = `<non_mergable_tags>laser</non_mergable_tags>`

const laserLeaves = `
    <max_angle>50</max_angle>
    <min_angle>-50</min_angle>
    <max_range>4</max_range>
    <min_range>0.1</min_range>
    <num_rays>180</num_rays>
    <frequency>10</frequency>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testSpecs(t *testing.T) *validator.Specs {
	t.Helper()
	dir := t.TempDir()
	specs, err := validator.LoadSpecs(parser.NewParser(),
		writeFile(t, dir, "specifications.xml", schemaXML),
		writeFile(t, dir, "non_mergable.xml", exemptionsXML))
	if err != nil {
		t.Fatalf("LoadSpecs() failed: %v", err)
	}
	return specs
}

func childTags(n *tree.Node) []string {
	tags := make([]string, 0, len(n.Elements))
	for _, child := range n.Elements {
		tags = append(tags, child.Tag)
	}
	return tags
}

// recorder captures what the compiler reports.
type recorder struct {
	mu         sync.Mutex
	compiles   map[string]int
	passes     map[string]int
	inclusions int
}

func newRecorder() *recorder {
	return &recorder{compiles: make(map[string]int), passes: make(map[string]int)}
}

func (r *recorder) RecordCompile(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.compiles[status]++
}

func (r *recorder) RecordPass(pass string, iterations int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passes[pass] += iterations
}

func (r *recorder) RecordInclusions(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inclusions += n
}

func TestCompiler_LaserRoundTrip(t *testing.T) {
	specs := testSpecs(t)

	tests := []struct {
		name    string
		frameID string
		wantErr string
	}{
		{name: "missing frame_id", wantErr: "frame_id"},
		{name: "complete", frameID: "\n    <frame_id>laser_0</frame_id>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "robot.xml",
				"<robot>\n  <laser>"+laserLeaves+tt.frameID+"\n  </laser>\n</robot>\n")

			root, err := New(WithSpecs(specs)).Parse(path)
			if tt.wantErr != "" {
				e, ok := stdrErrors.As(err)
				if !ok || e.Type != stdrErrors.ErrorTypeSchema || e.Tag != tt.wantErr {
					t.Fatalf("Parse() error = %v, want schema violation naming %s", err, tt.wantErr)
				}
				if e.Location.File != path {
					t.Errorf("violation location = %s, want %s", e.Location, path)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			robot := root.Elements[0]
			lasers := robot.GetTag("laser")
			if len(lasers) != 1 {
				t.Fatalf("laser nodes = %d, want 1", len(lasers))
			}
			laser := robot.Elements[lasers[0]]
			if len(laser.Elements) != 7 {
				t.Fatalf("laser children = %v, want 7 leaves", childTags(laser))
			}
			for _, child := range laser.Elements {
				if !child.IsLeaf() {
					t.Errorf("<%s> is not a leaf", child.Tag)
				}
			}
		})
	}
}

func TestCompiler_SonarMerge(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.yaml", `robot:
  - sonar:
      max_range: 3
  - kinematic:
      model: ideal
  - sonar:
      min_range: 0.1
  - sonar:
      cone_angle: 0.5
`)

	root, err := New(WithSpecs(testSpecs(t))).Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	robot := root.Elements[0]
	if got := strings.Join(childTags(robot), ","); got != "sonar,kinematic" {
		t.Fatalf("robot children = %s, want sonar,kinematic", got)
	}
	if got := strings.Join(childTags(robot.Elements[0]), ","); got != "max_range,min_range,cone_angle" {
		t.Errorf("sonar children = %s", got)
	}
}

func TestCompiler_IncludedValueWins(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml", `<robot>
  <sonar>
    <max_range>3</max_range>
  </sonar>
  <sonar>
    <filename>sensors/sonar.xml</filename>
  </sonar>
</robot>
`)
	included := writeFile(t, dir, "sensors/sonar.xml", `<sonar>
  <max_range>5</max_range>
  <frame_id>sonar_0</frame_id>
</sonar>
`)

	res, err := New(WithSpecs(testSpecs(t))).Compile(context.Background(), path)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	sonar := res.Root.Elements[0].Elements[0]
	if got := strings.Join(childTags(sonar), ","); got != "max_range,frame_id" {
		t.Fatalf("sonar children = %s, want max_range,frame_id", got)
	}
	if got := sonar.Elements[0].Text(); got != "5" {
		t.Errorf("max_range = %s, want the included 5", got)
	}

	if res.Inclusions != 1 {
		t.Errorf("Inclusions = %d, want 1", res.Inclusions)
	}
	wantSources := []string{path, included}
	for i, want := range wantSources {
		abs, _ := filepath.Abs(want)
		if i >= len(res.Sources) || res.Sources[i] != abs {
			t.Errorf("Sources = %v, want %v", res.Sources, wantSources)
			break
		}
	}
	if res.Nodes() != 4 {
		t.Errorf("Nodes() = %d, want 4", res.Nodes())
	}
}

func TestCompiler_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml",
		"<robot>\n  <laser>"+laserLeaves+"\n    <frame_id>l</frame_id>\n  </laser>\n</robot>\n")
	specs := testSpecs(t)

	tests := []struct {
		name     string
		defaults bool
		want     int
	}{
		{"disabled", false, 7},
		{"enabled", true, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			root, err := New(WithSpecs(specs), WithDefaults(tt.defaults), WithRecorder(rec)).Parse(path)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			laser := root.Elements[0].Elements[0]
			if len(laser.Elements) != tt.want {
				t.Errorf("laser children = %v, want %d", childTags(laser), tt.want)
			}
			if tt.defaults && rec.passes[PassDefaults] != 1 {
				t.Errorf("defaults pass recorded %d, want 1", rec.passes[PassDefaults])
			}
		})
	}
}

func TestCompiler_Errors(t *testing.T) {
	dir := t.TempDir()
	specs := testSpecs(t)

	tests := []struct {
		name   string
		file   string
		body   string
		check  func(error) bool
		status string
	}{
		{
			name:   "malformed",
			file:   "broken.xml",
			body:   "<robot><laser></robot>",
			check:  stdrErrors.IsLoadError,
			status: "load",
		},
		{
			name:   "missing inclusion",
			file:   "dangling.xml",
			body:   "<robot><laser><filename>nowhere.xml</filename></laser></robot>",
			check:  stdrErrors.IsReferenceError,
			status: "reference",
		},
		{
			name:   "unknown child",
			file:   "unknown.xml",
			body:   "<robot><wheel><radius>1</radius></wheel></robot>",
			check:  stdrErrors.IsSchemaViolation,
			status: "schema",
		},
		{
			name:   "self inclusion",
			file:   "self.xml",
			body:   "<robot><laser><filename>self.xml</filename></laser></robot>",
			check:  stdrErrors.IsReferenceError,
			status: "reference",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.body)
			rec := newRecorder()

			_, err := New(WithSpecs(specs), WithRecorder(rec)).Parse(path)
			if !tt.check(err) {
				t.Fatalf("Parse() error = %v", err)
			}
			if rec.compiles[tt.status] != 1 {
				t.Errorf("recorded compiles = %v, want %s", rec.compiles, tt.status)
			}
		})
	}
}

func TestCompiler_MissingEntry(t *testing.T) {
	_, err := New().Parse(filepath.Join(t.TempDir(), "missing.xml"))
	if !stdrErrors.IsLoadError(err) {
		t.Errorf("Parse() error = %v, want load error", err)
	}
}

func TestCompiler_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml", "<robot><sonar><max_range>1</max_range></sonar></robot>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newRecorder()
	_, err := New(WithRecorder(rec)).Compile(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compile() error = %v, want context.Canceled", err)
	}
	if rec.compiles["error"] != 1 {
		t.Errorf("recorded compiles = %v, want error", rec.compiles)
	}
}

func TestCompiler_Recorder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml", `<robot>
  <kinematic><filename>kinematic.yaml</filename></kinematic>
  <sonar><max_range>1</max_range></sonar>
  <sonar><min_range>0</min_range></sonar>
</robot>
`)
	writeFile(t, dir, "kinematic.yaml", "model: omni\n")

	rec := newRecorder()
	if _, err := New(WithSpecs(testSpecs(t)), WithRecorder(rec)).Parse(path); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if rec.compiles[StatusOK] != 1 {
		t.Errorf("compiles = %v", rec.compiles)
	}
	if rec.inclusions != 1 || rec.passes[PassDereference] != 1 {
		t.Errorf("inclusions = %d, dereference = %d; want 1, 1", rec.inclusions, rec.passes[PassDereference])
	}
	if rec.passes[PassMerge] != 1 {
		t.Errorf("merge iterations = %d, want 1", rec.passes[PassMerge])
	}
}

func TestCompiler_LogsSession(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml", "<robot><sonar><max_range>1</max_range></sonar></robot>")

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(WithLogger(logger), WithSpecs(testSpecs(t))).Parse(path); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"session":`, `"pass":"merge"`, `"msg":"Compile finished"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestCompiler_Concurrent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml",
		"<robot>\n  <laser>"+laserLeaves+"\n    <frame_id>l</frame_id>\n  </laser>\n</robot>\n")
	c := New(WithSpecs(testSpecs(t)))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Parse(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Parse() error = %v", err)
	}
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib/laser.xml", "<laser>"+laserLeaves+"\n<frame_id>l</frame_id></laser>")
	path := writeFile(t, dir, "robot.xml", "<robot><laser><filename>laser.xml</filename></laser></robot>")

	cfg := config.Default()
	cfg.Specs.SchemaFile = writeFile(t, dir, "specs/schema.xml", schemaXML)
	cfg.Specs.MergeExemptionFile = writeFile(t, dir, "specs/exempt.xml", exemptionsXML)
	cfg.Resolver.SearchPaths = []string{filepath.Join(dir, "lib")}
	cfg.Resolver.Order = []string{"search_path"}
	cfg.Normalizer.ApplyDefaults = true

	reg := validator.NewRegistry()
	c, err := FromConfig(cfg, reg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if !c.Specs().NonMergable.Has("laser") {
		t.Error("exemptions not loaded")
	}

	root, err := c.Parse(path)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := len(root.Elements[0].Elements[0].Elements); got != 8 {
		t.Errorf("laser children = %d, want 8 with defaults", got)
	}

	cfg.Resolver.Order = []string{"nearby"}
	if _, err := FromConfig(cfg, nil); err == nil {
		t.Error("FromConfig() accepted an unknown strategy")
	}

	cfg.Resolver.Order = nil
	loaded := reg.Current()
	cfg.Specs.SchemaFile = filepath.Join(dir, "missing.xml")
	if _, err := FromConfig(cfg, reg); !stdrErrors.IsLoadError(err) {
		t.Errorf("FromConfig() error = %v, want load error", err)
	}
	if reg.Current() != loaded {
		t.Error("failed load replaced the installed schema")
	}
}

func TestFromConfig_ReloadSwapsRegistry(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "robot.xml", "<robot><sonar><max_range>3</max_range></sonar></robot>")

	cfg := config.Default()
	cfg.Specs.SchemaFile = writeFile(t, dir, "schema.xml", schemaXML)
	cfg.Specs.MergeExemptionFile = ""

	reg := validator.NewRegistry()
	before, err := FromConfig(cfg, reg)
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	if _, err := before.Parse(path); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	cfg.Specs.SchemaFile = writeFile(t, dir, "strict.xml",
		"<specifications><robot><allowed>sonar</allowed></robot><sonar><required>frame_id</required></sonar></specifications>")
	after, err := FromConfig(cfg, reg)
	if err != nil {
		t.Fatalf("FromConfig() reload error = %v", err)
	}
	if after.Specs() != reg.Current() {
		t.Error("reloaded compiler does not use the installed schema")
	}
	if _, err := after.Parse(path); !stdrErrors.IsSchemaViolation(err) {
		t.Errorf("Parse() after reload error = %v, want schema violation", err)
	}
	if _, err := before.Parse(path); err != nil {
		t.Errorf("earlier compiler changed with the reload: %v", err)
	}
}
