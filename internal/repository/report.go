package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
)

const reportColumns = `
	id,
	type,
	description,
	reporter_name,
	reporter_phone,
	reporter_info,
	latitude,
	longitude,
	priority,
	assigned_to,
	assigned_contact,
	distance,
	status,
	created_at
`

type ReportRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewReportRepository(db *pgxpool.Pool, redisClient *redis.Client) service.ReportRepository {
	return &ReportRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create inserts a new report row
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (
			id, type, description,
			reporter_name, reporter_phone, reporter_info,
			latitude, longitude,
			priority, assigned_to, assigned_contact, distance, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at;
	`
	err := r.db.QueryRow(ctx, query,
		report.ID,
		report.Type,
		report.Description,
		report.Reporter.Name,
		report.Reporter.Phone,
		report.Reporter.Info,
		report.Latitude,
		report.Longitude,
		report.Priority,
		report.AssignedTo,
		report.AssignedContact,
		report.Distance,
		report.Status,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetByID returns a report by its application id
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1;`

	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report with id %s: %w", id, service.ErrReportNotFound)
		}
		return nil, fmt.Errorf("failed to get report by id: %w", err)
	}
	return report, nil
}

// List returns all reports, newest first
func (r *ReportRepository) List(ctx context.Context) ([]*models.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC;`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return reports, nil
}

// Delete removes a report and returns the removed row
func (r *ReportRepository) Delete(ctx context.Context, id string) (*models.Report, error) {
	query := `DELETE FROM reports WHERE id = $1 RETURNING ` + reportColumns + `;`

	report, err := scanReport(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report with id %s: %w", id, service.ErrReportNotFound)
		}
		return nil, fmt.Errorf("failed to delete report: %w", err)
	}
	return report, nil
}

// UpdateStatus sets a new status and returns the updated row; no other
// column is touched
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Report, error) {
	query := `UPDATE reports SET status = $1 WHERE id = $2 RETURNING ` + reportColumns + `;`

	report, err := scanReport(r.db.QueryRow(ctx, query, status, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report with id %s: %w", id, service.ErrReportNotFound)
		}
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return report, nil
}

// CountReports returns the total number of reports
func (r *ReportRepository) CountReports(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// CountReportsByStatus returns the number of reports with the given status
func (r *ReportRepository) CountReportsByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status = $1;`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by status: %w", err)
	}
	return count, nil
}

// CountReportsByTypes returns the number of reports whose type is in the
// given set, case-insensitively
func (r *ReportRepository) CountReportsByTypes(ctx context.Context, types []string) (int, error) {
	lowered := make([]string, len(types))
	for i, t := range types {
		lowered[i] = strings.ToLower(t)
	}

	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE LOWER(type) = ANY($1);`, lowered).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports by types: %w", err)
	}
	return count, nil
}

// GetReportFromCache tries to fetch a report from Redis
func (r *ReportRepository) GetReportFromCache(ctx context.Context, id string) (*models.Report, error) {
	key := fmt.Sprintf("report:%s", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report from cache: %w", err)
	}

	report := &models.Report{}
	if err := json.Unmarshal(val, report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report from cache: %w", err)
	}
	return report, nil
}

// SetReportCache stores a report in Redis
func (r *ReportRepository) SetReportCache(ctx context.Context, report *models.Report) error {
	key := fmt.Sprintf("report:%s", report.ID)
	val, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set report in cache: %w", err)
	}
	return nil
}

// InvalidateReportCache drops a report from the Redis cache
func (r *ReportRepository) InvalidateReportCache(ctx context.Context, id string) error {
	key := fmt.Sprintf("report:%s", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report cache: %w", err)
	}
	return nil
}

func scanReport(row pgx.Row) (*models.Report, error) {
	report := &models.Report{}
	err := row.Scan(
		&report.ID,
		&report.Type,
		&report.Description,
		&report.Reporter.Name,
		&report.Reporter.Phone,
		&report.Reporter.Info,
		&report.Latitude,
		&report.Longitude,
		&report.Priority,
		&report.AssignedTo,
		&report.AssignedContact,
		&report.Distance,
		&report.Status,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return report, nil
}
