package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	feastsdk "github.com/feast-dev/feast/sdk/go"

	"github.com/rushteam/courserec/core"
	"github.com/rushteam/courserec/store"
)

func TestParseActivity(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    core.ActivityLog
		wantErr bool
	}{
		{
			name: "wrapped document",
			data: `{"activities":[{"course_id":3,"activity_type":"view"},{"course_id":"5","activity_type":"progress_update","progress":40}]}`,
			want: core.ActivityLog{{CourseID: 3, Type: core.ActivityView}, {CourseID: 5, Type: core.ActivityProgressUpdate, Progress: 40}},
		},
		{
			name: "bare array",
			data: `[{"course_id":1,"activity_type":"enrolled"}]`,
			want: core.ActivityLog{{CourseID: 1, Type: core.ActivityEnrolled}},
		},
		{name: "empty", data: "  ", want: nil},
		{name: "bad course id", data: `[{"course_id":"x","activity_type":"view"}]`, wantErr: true},
		{name: "malformed", data: `{"activities":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivity([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParsePopularity(t *testing.T) {
	table, err := ParsePopularity([]byte(`{"1":{"enrollments":120,"avg_progress":45.5},"2":{"enrollments":"7"},"3":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Get(1); got.Enrollments != 120 || got.AvgProgress != 45.5 {
		t.Errorf("course 1 = %+v", got)
	}
	if got := table.Get(2); got.Enrollments != 7 {
		t.Errorf("course 2 = %+v", got)
	}
	if got := table.Get(99); got != (core.PopularityStat{}) {
		t.Errorf("missing course = %+v", got)
	}

	for _, bad := range []string{`{"abc":{}}`, `{"1":{"enrollments":-1}}`, `{"1":{"avg_progress":"high"}}`} {
		if _, err := ParsePopularity([]byte(bad)); !core.IsInvalidInput(err) {
			t.Errorf("ParsePopularity(%s) err = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestJSONFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CoursesFile, `[
		{"course_id":1,"title":"Go","description":"Concurrency","is_published":true,"price":10},
		{"course_id":2,"title":"Draft","description":"","is_published":false}
	]`)
	writeFile(t, dir, EmbeddingsFile, `[{"course_id":1,"vector":[1,0]},{"course_id":2,"vector":[0,1]}]`)
	writeFile(t, dir, ActivityFile, `{"activities":[{"course_id":1,"activity_type":"view"}]}`)
	writeFile(t, dir, filepath.Join(ActivityDir, "alice.json"), `{"activities":[{"course_id":2,"activity_type":"enrolled"}]}`)

	ctx := context.Background()
	l := &JSONFiles{Dir: dir, PublishedOnly: true}

	bundle, err := LoadBundle(ctx, l, l, l)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Catalog.Len() != 1 {
		t.Errorf("published catalog size = %d, want 1", bundle.Catalog.Len())
	}
	if bundle.Embeddings.Len() != 2 || bundle.Embeddings.Dim() != 2 {
		t.Errorf("embeddings = %d x %d", bundle.Embeddings.Len(), bundle.Embeddings.Dim())
	}
	if len(bundle.Popularity) != 0 {
		t.Errorf("missing popularity file should give empty table, got %v", bundle.Popularity)
	}

	alice, err := l.LoadActivity(ctx, "alice")
	if err != nil || len(alice) != 1 || alice[0].CourseID != 2 {
		t.Errorf("alice activity = %v, %v", alice, err)
	}
	fallback, err := l.LoadActivity(ctx, "bob")
	if err != nil || len(fallback) != 1 || fallback[0].CourseID != 1 {
		t.Errorf("fallback activity = %v, %v", fallback, err)
	}
}

func TestJSONFilesMissingCatalog(t *testing.T) {
	l := &JSONFiles{Dir: t.TempDir()}
	if _, err := LoadBundle(context.Background(), l, l, nil); !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestStoreLoader(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	l := &StoreLoader{Store: kv}

	empty, err := l.LoadActivity(ctx, "nobody")
	if err != nil || len(empty) != 0 {
		t.Errorf("missing activity = %v, %v", empty, err)
	}

	log := core.ActivityLog{{CourseID: 4, Type: core.ActivityView}, {CourseID: 2, Type: core.ActivityProgressUpdate, Progress: 80}}
	if err := l.SaveActivity(ctx, "alice", log); err != nil {
		t.Fatal(err)
	}
	got, err := l.LoadActivity(ctx, "alice")
	if err != nil || len(got) != 2 || got[1] != log[1] {
		t.Errorf("LoadActivity = %v, %v", got, err)
	}

	if err := l.SavePopularity(ctx, core.PopularityTable{4: {Enrollments: 9, AvgProgress: 12.5}}); err != nil {
		t.Fatal(err)
	}
	table, err := l.LoadPopularity(ctx)
	if err != nil || table.Get(4) != (core.PopularityStat{Enrollments: 9, AvgProgress: 12.5}) {
		t.Errorf("LoadPopularity = %v, %v", table, err)
	}

	_ = kv.HSet(ctx, DefaultPopularityKey, "oops", []byte(`{}`))
	if _, err := l.LoadPopularity(ctx); !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT for bad field, got %v", err)
	}
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	courses := []core.Course{
		{ID: 2, Title: "B", Description: "second", Published: true},
		{ID: 1, Title: "A", Description: "first", Published: false},
	}
	if err := db.SaveCourses(ctx, courses); err != nil {
		t.Fatal(err)
	}
	emb, err := core.NewEmbeddingStore([]int64{2, 1}, [][]float64{{0.5, 1}, {1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveEmbeddings(ctx, emb); err != nil {
		t.Fatal(err)
	}
	if err := db.SavePopularity(ctx, core.PopularityTable{2: {Enrollments: 3, AvgProgress: 60}}); err != nil {
		t.Fatal(err)
	}
	log := core.ActivityLog{{CourseID: 1, Type: core.ActivityView}, {CourseID: 2, Type: core.ActivityEnrolled}}
	if err := db.AppendActivity(ctx, "alice", log); err != nil {
		t.Fatal(err)
	}

	bundle, err := LoadBundle(ctx, db, db, db)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Catalog.Len() != 2 {
		t.Errorf("catalog size = %d", bundle.Catalog.Len())
	}
	if c, _ := bundle.Catalog.Get(1); c.Published {
		t.Error("course 1 should be unpublished")
	}
	if ids := bundle.Embeddings.IDs(); len(ids) != 2 || ids[0] != 2 || ids[1] != 1 {
		t.Errorf("embedding order = %v, want insertion order [2 1]", ids)
	}
	if bundle.Popularity.Get(2).Enrollments != 3 {
		t.Errorf("popularity = %v", bundle.Popularity)
	}

	got, err := db.LoadActivity(ctx, "alice")
	if err != nil || len(got) != 2 || got[0] != log[0] || got[1] != log[1] {
		t.Errorf("LoadActivity = %v, %v", got, err)
	}

	db.PublishedOnly = true
	published, err := db.LoadCatalog(ctx)
	if err != nil || published.Len() != 1 {
		t.Errorf("published catalog = %v, %v", published, err)
	}
}

type failingFeast struct{}

func (failingFeast) GetOnlineFeatures(context.Context, *feastsdk.OnlineFeaturesRequest) (*feastsdk.OnlineFeaturesResponse, error) {
	return nil, errors.New("unavailable")
}

func TestFeastPopularity(t *testing.T) {
	cfg := DefaultFeastConfig()
	row := feastsdk.Row{
		cfg.EnrollmentsFeature: feastsdk.Int64Val(42),
		cfg.AvgProgressFeature: feastsdk.DoubleVal(33.3),
	}
	stat, ok := popularityFromRow(row, cfg)
	if !ok || stat.Enrollments != 42 || stat.AvgProgress != 33.3 {
		t.Errorf("popularityFromRow = %+v, %v", stat, ok)
	}
	if _, ok := popularityFromRow(feastsdk.Row{}, cfg); ok {
		t.Error("row without features should be skipped")
	}
	if _, ok := featureFloat(feastsdk.StrVal("x")); ok {
		t.Error("string feature is not numeric")
	}

	f := &FeastPopularity{Client: failingFeast{}, Config: cfg, CourseIDs: func() []int64 { return []int64{1} }}
	if _, err := f.LoadPopularity(context.Background()); err == nil {
		t.Error("client failure should be returned")
	}
	empty := &FeastPopularity{Client: failingFeast{}, Config: cfg}
	if table, err := empty.LoadPopularity(context.Background()); err != nil || len(table) != 0 {
		t.Errorf("no course ids = %v, %v", table, err)
	}
}
