package loader

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rushteam/courserec/core"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS courses (
	course_id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_published INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS course_embeddings (
	position INTEGER PRIMARY KEY AUTOINCREMENT,
	course_id INTEGER NOT NULL UNIQUE,
	vector TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS course_popularity (
	course_id INTEGER PRIMARY KEY,
	enrollments INTEGER NOT NULL DEFAULT 0,
	avg_progress REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS learner_activity (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	learner_id TEXT NOT NULL,
	course_id INTEGER NOT NULL,
	activity_type TEXT NOT NULL,
	progress INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_learner_activity_learner ON learner_activity(learner_id, seq);
`

// SQLite 从 SQLite 数据库加载全部数据，同时提供写入方法用于导入样例数据。
type SQLite struct {
	db            *sql.DB
	PublishedOnly bool
}

// OpenSQLite 打开数据库并初始化表结构。path 可以是 ":memory:"。
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// 内存库每个连接是独立的数据库，限制为单连接
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close 关闭数据库连接。
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) LoadCatalog(ctx context.Context) (*core.Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id, title, description, is_published FROM courses ORDER BY course_id`)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var courses []core.Course
	for rows.Next() {
		var c core.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Published); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	catalog, err := core.NewCatalog(courses)
	if err != nil {
		return nil, err
	}
	if s.PublishedOnly {
		return catalog.Published(), nil
	}
	return catalog, nil
}

// LoadEmbeddings 按 position 升序加载，position 顺序即索引位置顺序。
func (s *SQLite) LoadEmbeddings(ctx context.Context) (*core.EmbeddingStore, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id, vector FROM course_embeddings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var (
		ids     []int64
		vectors [][]float64
	)
	for rows.Next() {
		var (
			id  int64
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		var vec []float64
		if err := json.Unmarshal([]byte(raw), &vec); err != nil {
			return nil, core.Errorf(core.ModuleLoader, core.ErrorCodeCorruptState, "course %d vector: %v", id, err)
		}
		ids = append(ids, id)
		vectors = append(vectors, vec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return core.NewEmbeddingStore(ids, vectors)
}

func (s *SQLite) LoadPopularity(ctx context.Context) (core.PopularityTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT course_id, enrollments, avg_progress FROM course_popularity`)
	if err != nil {
		return nil, fmt.Errorf("query popularity: %w", err)
	}
	defer rows.Close()

	out := make(core.PopularityTable)
	for rows.Next() {
		var (
			id   int64
			stat core.PopularityStat
		)
		if err := rows.Scan(&id, &stat.Enrollments, &stat.AvgProgress); err != nil {
			return nil, fmt.Errorf("scan popularity: %w", err)
		}
		out[id] = stat
	}
	return out, rows.Err()
}

func (s *SQLite) LoadActivity(ctx context.Context, learnerID string) (core.ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id, activity_type, progress FROM learner_activity WHERE learner_id = ? ORDER BY seq`, learnerID)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var out core.ActivityLog
	for rows.Next() {
		var (
			ev  core.ActivityEvent
			typ string
		)
		if err := rows.Scan(&ev.CourseID, &typ, &ev.Progress); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		ev.Type = core.ActivityType(typ)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// SaveCourses 写入或覆盖课程。
func (s *SQLite) SaveCourses(ctx context.Context, courses []core.Course) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, c := range courses {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO courses (course_id, title, description, is_published) VALUES (?, ?, ?, ?)`,
				c.ID, c.Title, c.Description, c.Published); err != nil {
				return fmt.Errorf("insert course %d: %w", c.ID, err)
			}
		}
		return nil
	})
}

// SaveEmbeddings 按向量库顺序追加写入向量。
func (s *SQLite) SaveEmbeddings(ctx context.Context, store *core.EmbeddingStore) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, id := range store.IDs() {
			vec, _ := store.Get(id)
			raw, err := json.Marshal(vec)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO course_embeddings (course_id, vector) VALUES (?, ?)`, id, string(raw)); err != nil {
				return fmt.Errorf("insert embedding %d: %w", id, err)
			}
		}
		return nil
	})
}

// SavePopularity 写入或覆盖课程热度。
func (s *SQLite) SavePopularity(ctx context.Context, table core.PopularityTable) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for id, stat := range table {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO course_popularity (course_id, enrollments, avg_progress) VALUES (?, ?, ?)`,
				id, stat.Enrollments, stat.AvgProgress); err != nil {
				return fmt.Errorf("insert popularity %d: %w", id, err)
			}
		}
		return nil
	})
}

// AppendActivity 按顺序追加学习者行为。
func (s *SQLite) AppendActivity(ctx context.Context, learnerID string, log core.ActivityLog) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, ev := range log {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO learner_activity (learner_id, course_id, activity_type, progress) VALUES (?, ?, ?, ?)`,
				learnerID, ev.CourseID, string(ev.Type), ev.Progress); err != nil {
				return fmt.Errorf("insert activity: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

var (
	_ core.CatalogLoader    = (*SQLite)(nil)
	_ core.EmbeddingLoader  = (*SQLite)(nil)
	_ core.PopularityLoader = (*SQLite)(nil)
	_ core.ActivityLoader   = (*SQLite)(nil)
)
