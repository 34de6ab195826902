// Package db is the optional assessment archive. Completed assessments
// are written once for later clinical review; live sessions never touch
// the database.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"intellicare/pkg"
)

// Repository wraps archive operations on a single postgres database.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a Repository from an existing sql.DB. The
// caller owns the connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// SaveAssessment archives one completed assessment. The patient record
// and diagnoses are stored as JSONB so the archive survives schema drift
// in the in-memory types.
func (r *Repository) SaveAssessment(ctx context.Context, a *pkg.ArchivedAssessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	patientJSON, err := json.Marshal(a.Patient)
	if err != nil {
		return fmt.Errorf("marshal patient: %w", err)
	}
	diagnosesJSON, err := json.Marshal(a.Diagnoses)
	if err != nil {
		return fmt.Errorf("marshal diagnoses: %w", err)
	}

	err = r.DB.QueryRowContext(ctx,
		`INSERT INTO assessments (id, session_id, patient, diagnoses, triage_level, department, report)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING created_at`,
		a.ID, a.SessionID, patientJSON, diagnosesJSON, a.TriageLevel, a.Department, a.Report,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetAssessment loads one archived assessment by ID.
func (r *Repository) GetAssessment(ctx context.Context, id string) (*pkg.ArchivedAssessment, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, session_id, patient, diagnoses, triage_level, department, report, created_at
         FROM assessments
         WHERE id = $1`, id)
	return scanAssessment(row)
}

// ListRecentAssessments returns the newest archived assessments, most
// recent first.
func (r *Repository) ListRecentAssessments(ctx context.Context, limit int) ([]pkg.ArchivedAssessment, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, session_id, patient, diagnoses, triage_level, department, report, created_at
         FROM assessments
         ORDER BY created_at DESC
         LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pkg.ArchivedAssessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CountByTriageLevel returns archived assessment counts keyed by triage
// level, for the health/stats surface.
func (r *Repository) CountByTriageLevel(ctx context.Context) (map[int]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT triage_level, COUNT(*) FROM assessments GROUP BY triage_level`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		counts[level] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*pkg.ArchivedAssessment, error) {
	var (
		a             pkg.ArchivedAssessment
		patientJSON   []byte
		diagnosesJSON []byte
	)
	if err := row.Scan(&a.ID, &a.SessionID, &patientJSON, &diagnosesJSON,
		&a.TriageLevel, &a.Department, &a.Report, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(patientJSON, &a.Patient); err != nil {
		return nil, fmt.Errorf("unmarshal patient: %w", err)
	}
	if err := json.Unmarshal(diagnosesJSON, &a.Diagnoses); err != nil {
		return nil, fmt.Errorf("unmarshal diagnoses: %w", err)
	}
	return &a, nil
}
