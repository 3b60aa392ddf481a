package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fixture is a small project on disk: three videos, arena corners for the
// first two and one shared SIZ quad
type fixture struct {
	dir        string
	project    string
	conditions string
	arena      string
	siz        string
	logDir     string
}

func poseTable(frames [][2]float64, landmarks ...string) string {
	var sb strings.Builder
	sb.WriteString("scorer")
	for range landmarks {
		sb.WriteString(",net,net,net")
	}
	sb.WriteString("\nbodyparts")
	for _, l := range landmarks {
		fmt.Fprintf(&sb, ",%s,%s,%s", l, l, l)
	}
	sb.WriteString("\ncoords")
	for range landmarks {
		sb.WriteString(",x,y,likelihood")
	}
	sb.WriteString("\n")
	for i, f := range frames {
		fmt.Fprintf(&sb, "%d", i)
		for range landmarks {
			fmt.Fprintf(&sb, ",%g,%g,0.99", f[0], f[1])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func setupFixture(t *testing.T, landmarks ...string) fixture {
	t.Helper()
	if len(landmarks) == 0 {
		landmarks = []string{"Center", "Nose"}
	}

	dir := t.TempDir()
	t.Setenv("SIT_HOME", filepath.Join(dir, "home"))

	f := fixture{
		dir:        dir,
		project:    filepath.Join(dir, "project"),
		conditions: filepath.Join(dir, "conditions.csv"),
		arena:      filepath.Join(dir, "arena.txt"),
		siz:        filepath.Join(dir, "siz.txt"),
		logDir:     filepath.Join(dir, "logs"),
	}

	inside := [][2]float64{{10, 10}, {20, 20}, {30, 30}, {80, 80}}
	outside := [][2]float64{{80, 80}, {90, 90}, {70, 70}, {20, 20}}
	tables := filepath.Join(f.project, "Tables")
	writeFile(t, filepath.Join(tables, "M1_SIT.1DLC_resnet50.csv"), poseTable(inside, landmarks...))
	writeFile(t, filepath.Join(tables, "M1_SIT.2DLC_resnet50.csv"), poseTable(outside, landmarks...))
	writeFile(t, filepath.Join(tables, "M2_SIT.1DLC_resnet50.csv"), poseTable(inside, landmarks...))

	writeFile(t, f.conditions, "\ufeffexperiment_id,Group\nM1_SIT.1,Control\nM1_SIT.2,Control\nM2_SIT.1,Stress\n")
	writeFile(t, f.arena, "[(0, 0), (0, 100), (100, 100), (100, 0)]\n[(0, 0), (0, 100), (100, 100), (100, 0)]\n")
	writeFile(t, f.siz, "[(0, 0), (0, 50), (50, 50), (50, 0)]\n")

	return f
}

func (f fixture) inputArgs() []string {
	return []string{
		"--project", f.project,
		"--conditions", f.conditions,
		"--arena", f.arena,
		"--siz", f.siz,
	}
}

// execute runs the root command and returns stdout and stderr
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
