package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/emergency_response_system/internal/dispatch"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/roster"
	"github.com/sirupsen/logrus"
)

// Categories counted as ongoing emergencies on the dashboard.
var emergencyCategories = []string{"fire", "accident", "medical", "flood", "earthquake"}

// Create outcomes returned to the caller.
const (
	OutcomeAssigned    = "assigned"
	OutcomeNoResponder = "no_responder"
)

// ReportRepository defines the persistence contract for reports
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context) ([]*models.Report, error)
	Delete(ctx context.Context, id string) (*models.Report, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Report, error)
	CountReports(ctx context.Context) (int, error)
	CountReportsByStatus(ctx context.Context, status string) (int, error)
	CountReportsByTypes(ctx context.Context, types []string) (int, error)
	GetReportFromCache(ctx context.Context, id string) (*models.Report, error)
	SetReportCache(ctx context.Context, report *models.Report) error
	InvalidateReportCache(ctx context.Context, id string) error
}

// CreateReportResult is the outcome of a report submission: the persisted
// report plus the responder it was dispatched to, if any.
type CreateReportResult struct {
	Outcome   string
	Report    *models.Report
	Responder *models.Responder
	Message   string
}

// Stats is a point-in-time snapshot of the dashboard counters.
type Stats struct {
	RegisteredUsers    int
	TotalReports       int
	ActiveAlerts       int
	ResolvedCases      int
	OngoingEmergencies int
}

// ReportService defines the business-logic contract for the report lifecycle
type ReportService interface {
	CreateReport(ctx context.Context, report *models.Report) (*CreateReportResult, error)
	GetReport(ctx context.Context, id string) (*models.Report, error)
	ListReports(ctx context.Context) ([]*models.Report, error)
	DeleteReport(ctx context.Context, id string) (*models.Report, error)
	UpdateReportStatus(ctx context.Context, id, status string) (*models.Report, error)
	GetStats(ctx context.Context) (*Stats, error)
}

type reportService struct {
	repo      ReportRepository
	userRepo  UserRepository
	roster    *roster.Roster
	logger    *logrus.Logger
	publisher dispatch.DispatchPublisher
}

func NewReportService(repo ReportRepository, userRepo UserRepository, rst *roster.Roster, logger *logrus.Logger, publisher dispatch.DispatchPublisher) ReportService {
	return &reportService{
		repo:      repo,
		userRepo:  userRepo,
		roster:    rst,
		logger:    logger,
		publisher: publisher,
	}
}

// CreateReport validates the submission, assigns the nearest capable
// responder, persists the report and queues the dispatch event. Assignment
// fields are stamped exactly once here and never revised afterwards.
func (s *reportService) CreateReport(ctx context.Context, report *models.Report) (*CreateReportResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "CreateReport",
		"type":    report.Type,
	})
	log.Info("Attempting to create a new report")

	if err := validateReport(report); err != nil {
		log.WithError(err).Warn("Report rejected by validation")
		return nil, err
	}

	report.ID = fmt.Sprintf("R%d", time.Now().UnixNano())
	report.Status = models.StatusActive
	report.Priority = normalizePriority(report.Priority)

	match := s.roster.FindNearest(report.Type, report.Latitude, report.Longitude)
	if match != nil {
		report.AssignedTo = match.Responder.Name
		report.AssignedContact = match.Responder.Contact
		report.Distance = fmt.Sprintf("%.2f km", match.DistanceKM)
	} else {
		report.AssignedTo = models.Unassigned
		report.AssignedContact = models.NoContact
		report.Distance = models.NoDistance
	}

	if err := s.repo.Create(ctx, report); err != nil {
		log.WithError(err).Error("Failed to create report in repository")
		return nil, fmt.Errorf("service: could not create report: %w", err)
	}

	if match == nil {
		log.WithField("report_id", report.ID).Warn("No capable responder found for report")
		return &CreateReportResult{
			Outcome: OutcomeNoResponder,
			Report:  report,
			Message: "No available responder found for this emergency type.",
		}, nil
	}

	event := models.DispatchEvent{
		Time:             time.Now().UTC(),
		ResponderName:    match.Responder.Name,
		ResponderContact: match.Responder.Contact,
		ReportID:         report.ID,
		EmergencyType:    report.Type,
	}
	// Dispatch logging is best-effort: a publish failure must not undo or
	// fail the already-persisted report
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("report_id", report.ID).
			Error("Failed to publish dispatch event")
	}

	log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"responder": match.Responder.Name,
		"distance":  report.Distance,
	}).Info("Report created and dispatched")

	return &CreateReportResult{
		Outcome:   OutcomeAssigned,
		Report:    report,
		Responder: match.Responder,
	}, nil
}

// GetReport fetches a single report, cache first
func (s *reportService) GetReport(ctx context.Context, id string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "GetReport",
		"report_id": id,
	})

	cached, err := s.repo.GetReportFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read report from cache")
	}
	if cached != nil {
		return cached, nil
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get report from repository")
		return nil, fmt.Errorf("service: could not get report: %w", err)
	}

	if err := s.repo.SetReportCache(ctx, report); err != nil {
		log.WithError(err).Warn("Failed to cache report")
	}
	return report, nil
}

// ListReports returns all reports, newest first
func (s *reportService) ListReports(ctx context.Context) ([]*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "ListReports",
	})
	log.Info("Listing reports")

	reports, err := s.repo.List(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to list reports from repository")
		return nil, fmt.Errorf("service: could not list reports: %w", err)
	}

	log.WithField("count", len(reports)).Info("Reports listed successfully")
	return reports, nil
}

// DeleteReport removes a report by its id and returns the removed record
func (s *reportService) DeleteReport(ctx context.Context, id string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "DeleteReport",
		"report_id": id,
	})
	log.Info("Attempting to delete report")

	report, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to delete report")
		return nil, fmt.Errorf("service: could not delete report: %w", err)
	}

	if err := s.repo.InvalidateReportCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	log.Info("Report deleted successfully")
	return report, nil
}

// UpdateReportStatus sets a new status, leaving all other fields unchanged
func (s *reportService) UpdateReportStatus(ctx context.Context, id, status string) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "report",
		"method":    "UpdateReportStatus",
		"report_id": id,
		"status":    status,
	})
	log.Info("Attempting to update report status")

	if strings.TrimSpace(status) == "" {
		return nil, &ValidationError{Field: "status"}
	}

	report, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		log.WithError(err).Warn("Failed to update report status")
		return nil, fmt.Errorf("service: could not update report status: %w", err)
	}

	if err := s.repo.InvalidateReportCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate report cache")
	}

	log.Info("Report status updated successfully")
	return report, nil
}

// GetStats recomputes the dashboard counters from current store state; no
// caching, every call re-derives
func (s *reportService) GetStats(ctx context.Context) (*Stats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "report",
		"method":  "GetStats",
	})

	users, err := s.userRepo.CountUsers(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count users")
		return nil, fmt.Errorf("service: could not count users: %w", err)
	}

	total, err := s.repo.CountReports(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to count reports")
		return nil, fmt.Errorf("service: could not count reports: %w", err)
	}

	active, err := s.repo.CountReportsByStatus(ctx, models.StatusActive)
	if err != nil {
		log.WithError(err).Error("Failed to count active reports")
		return nil, fmt.Errorf("service: could not count active reports: %w", err)
	}

	resolved, err := s.repo.CountReportsByStatus(ctx, models.StatusResolved)
	if err != nil {
		log.WithError(err).Error("Failed to count resolved reports")
		return nil, fmt.Errorf("service: could not count resolved reports: %w", err)
	}

	ongoing, err := s.repo.CountReportsByTypes(ctx, emergencyCategories)
	if err != nil {
		log.WithError(err).Error("Failed to count ongoing emergencies")
		return nil, fmt.Errorf("service: could not count ongoing emergencies: %w", err)
	}

	return &Stats{
		RegisteredUsers:    users,
		TotalReports:       total,
		ActiveAlerts:       active,
		ResolvedCases:      resolved,
		OngoingEmergencies: ongoing,
	}, nil
}

// validateReport rejects reports with missing required fields before any
// match or persistence attempt
func validateReport(report *models.Report) error {
	switch {
	case strings.TrimSpace(report.Type) == "":
		return &ValidationError{Field: "type"}
	case strings.TrimSpace(report.Description) == "":
		return &ValidationError{Field: "description"}
	case strings.TrimSpace(report.Reporter.Name) == "":
		return &ValidationError{Field: "reporter.name"}
	case strings.TrimSpace(report.Reporter.Phone) == "":
		return &ValidationError{Field: "reporter.phone"}
	}
	return nil
}

func normalizePriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case models.PriorityLow:
		return models.PriorityLow
	case models.PriorityHigh:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}
