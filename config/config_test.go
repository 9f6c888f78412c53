package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/interest"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Recommend.Weights != core.DefaultFusionWeights() {
		t.Errorf("weights = %+v", cfg.Recommend.Weights)
	}
	ic := cfg.InterestConfig()
	if ic.Weights[core.ActivityView] != 0.3 || ic.Weights[core.ActivityEnrolled] != 1.0 {
		t.Errorf("activity weights = %+v", ic.Weights)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"weights sum", func(c *Config) { c.Recommend.Weights.Popularity = 0.5 }, "sum to 1"},
		{"top k", func(c *Config) { c.Recommend.DefaultTopK = 0 }, "default_top_k"},
		{"popularity mode", func(c *Config) { c.Recommend.PopularityMode = "trending" }, "popularity_mode"},
		{"metric", func(c *Config) { c.Index.Metric = "cosine" }, "index.metric"},
		{"no data source", func(c *Config) { c.Data.Dir = "" }, "data.dir"},
		{"feast host", func(c *Config) { c.Feast.Enabled = true }, "feast.serving.host"},
		{"openai key", func(c *Config) { c.OpenAI.Enabled = true }, "openai.client.api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadLayers(t *testing.T) {
	path := writeFile(t, "courserec.yaml", `
log:
  level: debug
recommend:
  default_top_k: 8
  weights:
    user_similarity: 0.6
    content_similarity: 0.2
    popularity: 0.2
  popularity_mode: simple
data:
  dir: /srv/courses
`)
	t.Setenv("COURSEREC_INDEX__METRIC", "inner_product")
	t.Setenv("COURSEREC_RECOMMEND__MAX_CANDIDATES", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Recommend.DefaultTopK != 8 || cfg.Recommend.Weights.UserSimilarity != 0.6 {
		t.Errorf("recommend = %+v", cfg.Recommend)
	}
	if cfg.Recommend.PopularityMode != "simple" {
		t.Errorf("popularity_mode = %q", cfg.Recommend.PopularityMode)
	}
	if cfg.Index.Metric != "inner_product" {
		t.Errorf("env override not applied, metric = %q", cfg.Index.Metric)
	}
	if cfg.Recommend.MaxCandidates != 30 {
		t.Errorf("max_candidates = %d", cfg.Recommend.MaxCandidates)
	}
	if cfg.Data.Dir != "/srv/courses" {
		t.Errorf("data.dir = %q", cfg.Data.Dir)
	}
	if cfg.Redis.ActivityKeyPrefix == "" {
		t.Error("redis defaults lost")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", "recommend:\n  weights:\n    popularity: 0.9\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"COURSEREC_DATA__PUBLISHED_ONLY":           "data.published_only",
		"COURSEREC_RECOMMEND__WEIGHTS__POPULARITY": "recommend.weights.popularity",
		"COURSEREC_CONFIG":                         "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCategoryTable(t *testing.T) {
	cfg := Default()
	table, err := cfg.CategoryTable()
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != interest.DefaultCategories().Len() {
		t.Errorf("default table size = %d", table.Len())
	}

	cfg.Recommend.Categories = []core.Category{{Name: "music", Keywords: []string{"Guitar"}}}
	table, err = cfg.CategoryTable()
	if err != nil {
		t.Fatal(err)
	}
	if kws, ok := table.Keywords("music"); !ok || kws[0] != "guitar" {
		t.Errorf("inline categories = %v, %v", kws, ok)
	}

	cfg.Recommend.CategoriesFile = writeFile(t, "cats.yaml", `
categories:
  - name: languages
    keywords: [spanish, french]
  - name: cooking
    keywords: [baking]
`)
	table, err = cfg.CategoryTable()
	if err != nil {
		t.Fatal(err)
	}
	if names := table.Names(); len(names) != 2 || names[0] != "languages" || names[1] != "cooking" {
		t.Errorf("file categories = %v", names)
	}
}

func TestParseCategoriesMappingKeepsOrder(t *testing.T) {
	table, err := ParseCategories([]byte(`
categories:
  zoology: [animals]
  art: [painting, Drawing]
  music: [guitar]
`))
	if err != nil {
		t.Fatal(err)
	}
	names := table.Names()
	want := []string{"zoology", "art", "music"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if kws, _ := table.Keywords("art"); len(kws) != 2 || kws[1] != "drawing" {
		t.Errorf("art keywords = %v", kws)
	}
}

func TestParseCategoriesErrors(t *testing.T) {
	for _, in := range []string{"categories: []", "categories: [{name: ''}]", "other: 1", "categories: 3", "- a"} {
		if _, err := ParseCategories([]byte(in)); err == nil {
			t.Errorf("ParseCategories(%q) expected error", in)
		}
	}
}

func TestDumpYAMLRedactsSecrets(t *testing.T) {
	cfg := Default()
	cfg.OpenAI.Client.APIKey = "sk-secret"
	out, err := cfg.DumpYAML()
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(out, []byte("sk-secret")) {
		t.Error("api key leaked in dump")
	}
	if cfg.OpenAI.Client.APIKey != "sk-secret" {
		t.Error("DumpYAML mutated the config")
	}
	if !bytes.Contains(out, []byte("default_top_k: 5")) {
		t.Errorf("dump missing recommend section:\n%s", out)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("level filtering broken: %s", buf.String())
	}
	if parseLevel("bogus") != zerolog.InfoLevel {
		t.Error("unknown level should default to info")
	}
}
