package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/config"
	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

const reportColumns = `id, student_id, extracted_text, grade, report_type, term,
	subject_areas, learner_profile, teacher_comments, summary, schema_version, created_at`

// Postgres 基于 PostgreSQL 的报告存储
type Postgres struct {
	db *sql.DB
}

// NewPostgres 连接数据库并初始化表结构
func NewPostgres(cfg config.DBConfig) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewPostgresWithDB(db)
	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// NewPostgresWithDB 使用已有连接创建存储
func NewPostgresWithDB(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Close 关闭连接
func (s *Postgres) Close() error {
	return s.db.Close()
}

// InitSchema 创建报告表
func (s *Postgres) InitSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL,
			extracted_text TEXT NOT NULL,
			grade TEXT,
			report_type TEXT,
			term TEXT,
			subject_areas JSONB NOT NULL DEFAULT '[]',
			learner_profile JSONB NOT NULL DEFAULT '[]',
			teacher_comments TEXT,
			summary JSONB,
			schema_version INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveReport 新增或整体覆盖报告
func (s *Postgres) SaveReport(ctx context.Context, r *model.Report) error {
	subjects, err := json.Marshal(nonNil(r.SubjectAreas))
	if err != nil {
		return fmt.Errorf("failed to encode subject areas: %w", err)
	}
	profile, err := json.Marshal(nonNil(r.LearnerProfile))
	if err != nil {
		return fmt.Errorf("failed to encode learner profile: %w", err)
	}
	summary, err := encodeSummary(r.Summary)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reports (`+reportColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			extracted_text = EXCLUDED.extracted_text,
			grade = EXCLUDED.grade,
			report_type = EXCLUDED.report_type,
			term = EXCLUDED.term,
			subject_areas = EXCLUDED.subject_areas,
			learner_profile = EXCLUDED.learner_profile,
			teacher_comments = EXCLUDED.teacher_comments,
			summary = EXCLUDED.summary,
			schema_version = EXCLUDED.schema_version`,
		r.ID, r.StudentID, removeNullBytes(r.ExtractedText), nullGrade(r.Grade), r.ReportType, r.Term,
		subjects, profile, removeNullBytes(r.TeacherComments), summary, r.SchemaVersion, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", r.ID, err)
	}
	return nil
}

// GetReport 按 ID 读取报告
func (s *Postgres) GetReport(ctx context.Context, id string) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row, id)
}

// LatestReport 读取最新上传的报告
func (s *Postgres) LatestReport(ctx context.Context) (*model.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC LIMIT 1`)
	return scanReport(row, "latest")
}

// ListReportIDs 按创建时间返回全部报告 ID
func (s *Postgres) ListReportIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM reports ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan report id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateGrade 写入解析出的年级，未解析写入 NULL
func (s *Postgres) UpdateGrade(ctx context.Context, id string, g model.Grade) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET grade = $1 WHERE id = $2`, nullGrade(g), id)
	if err != nil {
		return fmt.Errorf("failed to update grade of %s: %w", id, err)
	}
	return expectOne(res, id)
}

// SaveSummary 整体覆盖报告的总结
func (s *Postgres) SaveSummary(ctx context.Context, id string, sum *model.Summary) error {
	data, err := encodeSummary(sum)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET summary = $1 WHERE id = $2`, data, id)
	if err != nil {
		return fmt.Errorf("failed to save summary of %s: %w", id, err)
	}
	return expectOne(res, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner, id string) (*model.Report, error) {
	var (
		r                 model.Report
		grade, rt, term   sql.NullString
		comments          sql.NullString
		subjects, profile []byte
		summary           []byte
		createdAt         sql.NullTime
	)
	err := row.Scan(&r.ID, &r.StudentID, &r.ExtractedText, &grade, &rt, &term,
		&subjects, &profile, &comments, &summary, &r.SchemaVersion, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}

	r.Grade = model.Grade(grade.String)
	r.ReportType, r.Term, r.TeacherComments = rt.String, term.String, comments.String
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time.UTC()
	}

	var bad []string
	if len(subjects) > 0 && json.Unmarshal(subjects, &r.SubjectAreas) != nil {
		bad = append(bad, "subjectAreas")
	}
	if len(profile) > 0 && json.Unmarshal(profile, &r.LearnerProfile) != nil {
		bad = append(bad, "learnerProfileAttributes")
	}
	if len(summary) > 0 {
		r.Summary = &model.Summary{}
		if json.Unmarshal(summary, r.Summary) != nil {
			r.Summary = nil
			bad = append(bad, "summary")
		}
	}
	if len(bad) > 0 {
		return &r, &model.MalformedInputError{ReportID: r.ID, Fields: bad}
	}
	return &r, nil
}

// encodeSummary 空总结写入 NULL
func encodeSummary(sum *model.Summary) (any, error) {
	if sum == nil {
		return nil, nil
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}
	return data, nil
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrReportNotFound, id)
	}
	return nil
}

func nullGrade(g model.Grade) sql.NullString {
	return sql.NullString{String: string(g), Valid: g.Resolved()}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// 移除 NULL 字符，PostgreSQL 文本字段不支持 NULL 字节
func removeNullBytes(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

