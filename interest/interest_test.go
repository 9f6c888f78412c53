package interest

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/courserec/core"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func testTable(t *testing.T) core.CategoryTable {
	t.Helper()
	table, err := core.NewCategoryTable(
		core.Category{Name: "data", Keywords: []string{"Data", "statistics"}},
		core.Category{Name: "web", Keywords: []string{"html", "react"}},
		core.Category{Name: "python", Keywords: []string{"python"}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func testModel(t *testing.T, cfg core.InterestConfig) *Model {
	t.Helper()
	catalog, err := core.NewCatalog([]core.Course{
		{ID: 1, Title: "Python for Data", Description: "pandas and statistics", Published: true},
		{ID: 2, Title: "React Basics", Description: "Build HTML apps", Published: true},
		{ID: 3, Title: "Cooking", Description: "pasta", Published: true},
		{ID: 4, Title: "Data Viz", Description: "charts", Published: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	store, err := core.NewEmbeddingStore(
		[]int64{1, 2, 3, 9},
		[][]float64{{1, 0}, {0, 1}, {1, 1}, {0, 1}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(cfg, testTable(t), catalog, store, zerolog.Nop())
}

func TestClassify(t *testing.T) {
	table := testTable(t)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"multi label in table order", "Python for DATA science", []string{"data", "python"}},
		{"case insensitive substring", "REACTIVE html", []string{"web"}},
		{"no match", "Cooking pasta", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, table)
			if len(got) != len(tt.want) {
				t.Fatalf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Classify(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefaultCategoriesAvoidShortWordHits(t *testing.T) {
	table := DefaultCategories()
	tests := []struct {
		text string
		want []string
	}{
		{"Training guide to build a retail team", nil},
		{"Artificial Intelligence Basics", []string{"data science"}},
		{"User Experience Research", []string{"design"}},
	}
	for _, tt := range tests {
		got := Classify(tt.text, table)
		if len(got) != len(tt.want) {
			t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		}
	}
}

func TestBuildWeightedMean(t *testing.T) {
	m := testModel(t, core.DefaultInterestConfig())
	profile, err := m.Build(context.Background(), core.ActivityLog{
		{CourseID: 1, Type: core.ActivityView},
		{CourseID: 2, Type: core.ActivityEnrolled},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(profile.TotalWeight, 1.3) {
		t.Errorf("TotalWeight = %v, want 1.3", profile.TotalWeight)
	}
	want := []float64{0.3 / 1.3, 1.0 / 1.3}
	for i := range want {
		if !almostEqual(profile.UserVector[i], want[i]) {
			t.Errorf("UserVector[%d] = %v, want %v", i, profile.UserVector[i], want[i])
		}
	}

	// 类别累加：data 0.3, python 0.3, web 1.0，总和 1.6
	dist := profile.Interest
	if !almostEqual(dist.Weight("web"), 1.0/1.6) || !almostEqual(dist.Weight("data"), 0.3/1.6) {
		t.Errorf("distribution = %v", dist.Map())
	}
	if !almostEqual(dist.Sum(), 1) {
		t.Errorf("distribution sum = %v", dist.Sum())
	}
	if !profile.HasPrimary || profile.PrimaryCategory != "web" {
		t.Errorf("primary = %q (%v), want web", profile.PrimaryCategory, profile.HasPrimary)
	}
}

func TestBuildEmptyAndIgnored(t *testing.T) {
	m := testModel(t, core.DefaultInterestConfig())
	tests := []struct {
		name string
		log  core.ActivityLog
	}{
		{"empty log", nil},
		{"only unrecognized types", core.ActivityLog{{CourseID: 1, Type: core.ActivityCompleted}, {CourseID: 2, Type: core.ActivityProgressUpdate, Progress: 50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := m.Build(context.Background(), tt.log)
			if err != nil {
				t.Fatal(err)
			}
			if profile.Personalizable() {
				t.Errorf("UserVector = %v, want nil", profile.UserVector)
			}
			if profile.HasPrimary {
				t.Errorf("unexpected primary category %q", profile.PrimaryCategory)
			}
			if profile.Interest.Sum() != 0 {
				t.Errorf("distribution should be all zero, got %v", profile.Interest.Map())
			}
		})
	}
}

func TestBuildSkipsMissingReferences(t *testing.T) {
	m := testModel(t, core.DefaultInterestConfig())
	profile, err := m.Build(context.Background(), core.ActivityLog{
		{CourseID: 99, Type: core.ActivityEnrolled}, // 目录与向量库都没有
		{CourseID: 4, Type: core.ActivityView},      // 目录有，向量库没有
		{CourseID: 9, Type: core.ActivityEnrolled},  // 向量库有，目录没有
		{CourseID: 2, Type: core.ActivityView},
	})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", profile.Skipped)
	}
	// 只有课程 2 参与用户向量与类别分布
	if !almostEqual(profile.TotalWeight, 0.3) {
		t.Errorf("TotalWeight = %v, want 0.3", profile.TotalWeight)
	}
	if len(profile.UserVector) != 2 || !almostEqual(profile.UserVector[0], 0) || !almostEqual(profile.UserVector[1], 1) {
		t.Errorf("UserVector = %v, want [0 1]", profile.UserVector)
	}
	if !almostEqual(profile.Interest.Weight("web"), 1) || profile.Interest.Weight("data") != 0 {
		t.Errorf("distribution = %v", profile.Interest.Map())
	}
	if profile.PrimaryCategory != "web" {
		t.Errorf("PrimaryCategory = %q, want web", profile.PrimaryCategory)
	}
}

func TestBuildSkipsEventMissingFromCatalogOnly(t *testing.T) {
	m := testModel(t, core.DefaultInterestConfig())
	profile, err := m.Build(context.Background(), core.ActivityLog{
		{CourseID: 1, Type: core.ActivityEnrolled},
		{CourseID: 9, Type: core.ActivityEnrolled},
	})
	if err != nil {
		t.Fatal(err)
	}
	if profile.Skipped != 1 || !almostEqual(profile.TotalWeight, 1) {
		t.Errorf("Skipped = %d, TotalWeight = %v", profile.Skipped, profile.TotalWeight)
	}
	if !almostEqual(profile.UserVector[0], 1) || !almostEqual(profile.UserVector[1], 0) {
		t.Errorf("UserVector = %v, want [1 0]", profile.UserVector)
	}
}

func TestBuildProgressBoostAndNormalize(t *testing.T) {
	cfg := core.InterestConfig{
		Weights:         core.ActivityWeights{core.ActivityProgressUpdate: 0.5},
		ProgressBoost:   true,
		NormalizeVector: true,
	}
	m := testModel(t, cfg)
	profile, err := m.Build(context.Background(), core.ActivityLog{
		{CourseID: 3, Type: core.ActivityProgressUpdate, Progress: 150},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(profile.TotalWeight, 1.5) {
		t.Errorf("TotalWeight = %v, want 1.5 (progress clamped to 100)", profile.TotalWeight)
	}
	if !almostEqual(profile.UserVector[0], 1/math.Sqrt2) {
		t.Errorf("UserVector = %v, want unit length", profile.UserVector)
	}
}

func TestBuildCanceled(t *testing.T) {
	m := testModel(t, core.DefaultInterestConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Build(ctx, core.ActivityLog{{CourseID: 1, Type: core.ActivityView}}); err == nil {
		t.Error("expected context error")
	}
}
