package db

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taylorferran/solana-privacy-scanner-sub000/pkg/models"
)

// schemaSQL is compiled into the binary at build time so schema init works
// inside runtime images that do not ship the source tree.
//
//go:embed schema.sql
var schemaSQL string

type PostgresStore struct {
	pool *pgxpool.Pool
}

// ScanSummary is a row from the scan listing, without the full report body.
type ScanSummary struct {
	ID            string          `json:"id"`
	Target        string          `json:"target"`
	TargetType    string          `json:"targetType"`
	OverallRisk   models.Severity `json:"overallRisk"`
	TotalFindings int             `json:"totalFindings"`
	CreatedAt     string          `json:"createdAt"`
}

// Connect initializes the connection pool to PostgreSQL using pgx.
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for scan history")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema executes the embedded schema.sql DDL statements.
func (s *PostgresStore) InitSchema() error {
	_, err := s.pool.Exec(context.Background(), schemaSQL)
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}
	log.Println("Scan history schema initialized")
	return nil
}

// SaveReport persists one scan report and returns its generated scan ID.
func (s *PostgresStore) SaveReport(ctx context.Context, report models.Report) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.NewString()
	const insertSQL = `
		INSERT INTO scan_reports (id, target, target_type, overall_risk, total_findings, report)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = s.pool.Exec(ctx, insertSQL,
		id,
		report.Target,
		string(report.TargetType),
		string(report.OverallRisk),
		report.Summary.TotalFindings,
		body,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert scan report: %v", err)
	}
	return id, nil
}

// GetReport loads one persisted report by scan ID.
func (s *PostgresStore) GetReport(ctx context.Context, id string) (models.Report, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT report FROM scan_reports WHERE id = $1;`, id).Scan(&body)
	if err != nil {
		return models.Report{}, fmt.Errorf("scan report %s: %v", id, err)
	}

	var report models.Report
	if err := json.Unmarshal(body, &report); err != nil {
		return models.Report{}, fmt.Errorf("decode scan report %s: %w", id, err)
	}
	return report, nil
}

// RecentScans lists the latest scans, newest first.
func (s *PostgresStore) RecentScans(ctx context.Context, limit int) ([]ScanSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, target, target_type, overall_risk, total_findings, created_at::text
		FROM scan_reports
		ORDER BY created_at DESC
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %v", err)
	}
	defer rows.Close()

	var out []ScanSummary
	for rows.Next() {
		var row ScanSummary
		if err := rows.Scan(&row.ID, &row.Target, &row.TargetType, &row.OverallRisk, &row.TotalFindings, &row.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
