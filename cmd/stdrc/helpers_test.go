package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"

	"stdr-sim/stdrc/pkg/stdr"
	"stdr-sim/stdrc/pkg/stdr/parser"
	"stdr-sim/stdrc/pkg/stdr/validator"
)

func init() {
	color.NoColor = true
}

const schemaXML = `<specifications>
  <robot>
    <allowed>sonar, kinematic</allowed>
  </robot>
  <sonar>
    <allowed>max_range, min_range, frame_id</allowed>
    <required>max_range</required>
  </sonar>
  <kinematic>
    <allowed>model</allowed>
  </kinematic>
</specifications>
`

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

func testCompiler(t *testing.T, opts ...stdr.Option) *stdr.Compiler {
	t.Helper()
	schema := writeFile(t, t.TempDir(), "specifications.xml", schemaXML)
	specs, err := validator.LoadSpecs(parser.NewParser(), schema, "")
	if err != nil {
		t.Fatalf("LoadSpecs() failed: %v", err)
	}
	return stdr.New(append([]stdr.Option{stdr.WithSpecs(specs)}, opts...)...)
}
