package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"courses.json": `[
  {"course_id": 1, "title": "Python Basics", "description": "Intro to python", "is_published": true},
  {"course_id": 2, "title": "Python Advanced", "description": "Advanced python", "is_published": true},
  {"course_id": 3, "title": "Java Programming", "description": "Learn java", "is_published": true},
  {"course_id": 4, "title": "Photoshop Design", "description": "Graphic design", "is_published": true}
]`,
		"embeddings.json": `[
  {"course_id": 1, "vector": [1, 0]},
  {"course_id": 2, "vector": [0.9, 0.1]},
  {"course_id": 3, "vector": [0.8, 0.2]},
  {"course_id": 4, "vector": [0, 1]}
]`,
		"popularity.json":  `{"2": {"enrollments": 10, "avg_progress": 40}, "3": {"enrollments": 2, "avg_progress": 10}}`,
		"activity/42.json": `{"activities": [{"course_id": 1, "activity_type": "enrolled"}]}`,
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COURSEREC_CONFIG", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRecommendCommand(t *testing.T) {
	dir := writeDataDir(t)
	out, err := runCLI(t, "recommend", "--data", dir, "--learner", "42", "--log-level", "disabled")
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Primary interest: programming") {
		t.Errorf("missing primary interest:\n%s", out)
	}
	for _, want := range []string{"Python Advanced", "Java Programming"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"Python Basics", "Photoshop Design"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("output should not contain %q:\n%s", unwanted, out)
		}
	}
}

func TestRecommendCommandJSON(t *testing.T) {
	dir := writeDataDir(t)
	out, err := runCLI(t, "recommend", "--data", dir, "--learner", "42", "--top-k", "1", "--format", "json", "--log-level", "disabled")
	if err != nil {
		t.Fatalf("recommend error = %v\n%s", err, out)
	}
	if !strings.Contains(out, `"course_id": 2`) || strings.Contains(out, `"course_id": 3`) {
		t.Errorf("unexpected json output:\n%s", out)
	}
	if !strings.Contains(out, `"content_anchor"`) {
		t.Errorf("json output missing labels:\n%s", out)
	}
}

func TestRecommendCommandNoActivity(t *testing.T) {
	dir := writeDataDir(t)
	out, err := runCLI(t, "recommend", "--data", dir, "--learner", "7", "--log-level", "disabled")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(out, "No recommendations: no interest signal") {
		t.Errorf("output:\n%s", out)
	}
}

func TestRecommendCommandBadFlags(t *testing.T) {
	dir := writeDataDir(t)
	if _, err := runCLI(t, "recommend", "--data", dir, "--top-k", "-1"); err == nil {
		t.Error("expected error for negative --top-k")
	}
	if _, err := runCLI(t, "recommend", "--data", dir, "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := runCLI(t, "recommend", "--data", filepath.Join(dir, "missing"), "--log-level", "disabled"); err == nil {
		t.Error("expected error for missing data dir")
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := runCLI(t, "config", "--data", "/srv/courses")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dir: /srv/courses", "default_top_k: 5", "metric: l2"} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}
