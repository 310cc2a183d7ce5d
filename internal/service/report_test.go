package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	dispatchmocks "github.com/shenikar/emergency_response_system/internal/dispatch/mocks"
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/roster"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/shenikar/emergency_response_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestReportService builds a service instance around mocks and a small
// fixed roster.
func newTestReportService(t *testing.T) (service.ReportService, *mocks.MockReportRepository, *mocks.MockUserRepository, *dispatchmocks.MockDispatchPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockReportRepository(ctrl)
	userRepoMock := mocks.NewMockUserRepository(ctrl)
	publisherMock := dispatchmocks.NewMockDispatchPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // silence logs in tests

	rst := roster.New([]models.Responder{
		{
			Name:     "Alpha Fire Station",
			Contact:  "+1-555-0101",
			Types:    []string{"fire"},
			Location: models.GeoPoint{Lat: 10, Lon: 10},
		},
		{
			Name:     "Beta Fire Station",
			Contact:  "+1-555-0102",
			Types:    []string{"fire"},
			Location: models.GeoPoint{Lat: 10, Lon: 10.1},
		},
		{
			Name:     "City Hospital",
			Contact:  "+1-555-0103",
			Types:    []string{"medical"},
			Location: models.GeoPoint{Lat: 10.5, Lon: 10.5},
		},
	})

	svc := service.NewReportService(repoMock, userRepoMock, rst, logger, publisherMock)
	return svc, repoMock, userRepoMock, publisherMock
}

func validReport() *models.Report {
	return &models.Report{
		Type:        "fire",
		Description: "Building on fire",
		Reporter: models.Reporter{
			Name:  "Jane Doe",
			Phone: "+1-555-1234",
		},
		Latitude:  10,
		Longitude: 10,
	}
}

func TestCreateReport_AssignsNearestResponder(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()

	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		Return(nil).
		Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event models.DispatchEvent) {
			assert.Equal(t, report.ID, event.ReportID)
			assert.Equal(t, "Alpha Fire Station", event.ResponderName)
			assert.Equal(t, "+1-555-0101", event.ResponderContact)
			assert.Equal(t, "fire", event.EmergencyType)
		}).Return(nil).Times(1)

	result, err := svc.CreateReport(ctx, report)

	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAssigned, result.Outcome)
	require.NotNil(t, result.Responder)
	assert.Equal(t, "Alpha Fire Station", result.Responder.Name)
	assert.Equal(t, models.StatusActive, report.Status)
	assert.Equal(t, "Alpha Fire Station", report.AssignedTo)
	assert.Equal(t, "+1-555-0101", report.AssignedContact)
	assert.Equal(t, "0.00 km", report.Distance)
	assert.True(t, strings.HasPrefix(report.ID, "R"))
}

func TestCreateReport_CaseInsensitiveType(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	report.Type = "FIRE"

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	result, err := svc.CreateReport(ctx, report)

	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAssigned, result.Outcome)
	assert.Equal(t, "Alpha Fire Station", report.AssignedTo)
}

func TestCreateReport_NoResponder(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	report.Type = "flood" // nobody on the roster handles floods

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)

	// No dispatch event without a match
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.CreateReport(ctx, report)

	require.NoError(t, err)
	assert.Equal(t, service.OutcomeNoResponder, result.Outcome)
	assert.Nil(t, result.Responder)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, models.Unassigned, report.AssignedTo)
	assert.Equal(t, models.NoContact, report.AssignedContact)
	assert.Equal(t, models.NoDistance, report.Distance)
	assert.Equal(t, models.StatusActive, report.Status)
}

func TestCreateReport_MissingPhoneRejected(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	report.Reporter.Phone = ""

	// Nothing is persisted or dispatched for a rejected report
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.CreateReport(ctx, report)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, service.IsValidation(err))
	assert.ErrorContains(t, err, "reporter.phone")
}

func TestCreateReport_MissingTypeRejected(t *testing.T) {
	svc, _, _, _ := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	report.Type = "   "

	result, err := svc.CreateReport(ctx, report)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, service.IsValidation(err))
}

func TestCreateReport_RepositoryError(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	dbError := fmt.Errorf("store unreachable")

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(dbError).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	result, err := svc.CreateReport(ctx, report)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.False(t, service.IsValidation(err))
	assert.ErrorContains(t, err, "could not create report")
}

func TestCreateReport_PublishFailureDoesNotFailCreate(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Return(fmt.Errorf("redis down")).
		Times(1)

	result, err := svc.CreateReport(ctx, report)

	// The dispatch log is best-effort, the report is still created
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeAssigned, result.Outcome)
}

func TestCreateReport_PriorityDefaultsToMedium(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(2)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(2)

	// Absent priority
	report := validReport()
	_, err := svc.CreateReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, report.Priority)

	// Unrecognized priority
	report = validReport()
	report.Priority = "urgent"
	_, err = svc.CreateReport(ctx, report)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, report.Priority)
}

func TestCreateReport_HighPriorityKept(t *testing.T) {
	svc, repoMock, _, publisherMock := newTestReportService(t)
	ctx := context.Background()
	report := validReport()
	report.Priority = "High"

	repoMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	_, err := svc.CreateReport(ctx, report)

	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, report.Priority)
}

func TestGetReport_FromCache(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	expected := &models.Report{ID: "R1", Type: "fire"}

	repoMock.EXPECT().
		GetReportFromCache(ctx, "R1").
		Return(expected, nil).
		Times(1)

	report, err := svc.GetReport(ctx, "R1")

	require.NoError(t, err)
	assert.Equal(t, expected, report)
}

func TestGetReport_FromDB(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	expected := &models.Report{ID: "R1", Type: "fire"}

	// Cache miss
	repoMock.EXPECT().GetReportFromCache(ctx, "R1").Return(nil, nil).Times(1)
	// DB hit
	repoMock.EXPECT().GetByID(ctx, "R1").Return(expected, nil).Times(1)
	// Cache write
	repoMock.EXPECT().SetReportCache(ctx, expected).Return(nil).Times(1)

	report, err := svc.GetReport(ctx, "R1")

	require.NoError(t, err)
	assert.Equal(t, expected, report)
}

func TestGetReport_NotFound(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().GetReportFromCache(ctx, "R404").Return(nil, nil).Times(1)
	repoMock.EXPECT().
		GetByID(ctx, "R404").
		Return(nil, fmt.Errorf("report with id R404: %w", service.ErrReportNotFound)).
		Times(1)

	report, err := svc.GetReport(ctx, "R404")

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, service.ErrReportNotFound))
}

func TestListReports_Success(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	expected := []*models.Report{
		{ID: "R2", Type: "medical"},
		{ID: "R1", Type: "fire"},
	}

	repoMock.EXPECT().List(ctx).Return(expected, nil).Times(1)

	reports, err := svc.ListReports(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, reports)
}

func TestDeleteReport_Success(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	deleted := &models.Report{ID: "R1", Type: "fire"}

	repoMock.EXPECT().Delete(ctx, "R1").Return(deleted, nil).Times(1)
	repoMock.EXPECT().InvalidateReportCache(ctx, "R1").Return(nil).Times(1)

	report, err := svc.DeleteReport(ctx, "R1")

	require.NoError(t, err)
	assert.Equal(t, deleted, report)
}

func TestDeleteReport_NotFound(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().
		Delete(ctx, "R404").
		Return(nil, fmt.Errorf("report with id R404: %w", service.ErrReportNotFound)).
		Times(1)

	report, err := svc.DeleteReport(ctx, "R404")

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, service.ErrReportNotFound))
}

func TestUpdateReportStatus_Success(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()
	updated := &models.Report{ID: "R1", Status: models.StatusResolved}

	repoMock.EXPECT().UpdateStatus(ctx, "R1", "resolved").Return(updated, nil).Times(1)
	repoMock.EXPECT().InvalidateReportCache(ctx, "R1").Return(nil).Times(1)

	report, err := svc.UpdateReportStatus(ctx, "R1", "resolved")

	require.NoError(t, err)
	assert.Equal(t, updated, report)
}

func TestUpdateReportStatus_EmptyStatusRejected(t *testing.T) {
	svc, repoMock, _, _ := newTestReportService(t)
	ctx := context.Background()

	repoMock.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	report, err := svc.UpdateReportStatus(ctx, "R1", "  ")

	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, service.IsValidation(err))
}

func TestGetStats_Success(t *testing.T) {
	svc, repoMock, userRepoMock, _ := newTestReportService(t)
	ctx := context.Background()

	userRepoMock.EXPECT().CountUsers(ctx).Return(42, nil).Times(1)
	repoMock.EXPECT().CountReports(ctx).Return(10, nil).Times(1)
	repoMock.EXPECT().CountReportsByStatus(ctx, models.StatusActive).Return(7, nil).Times(1)
	repoMock.EXPECT().CountReportsByStatus(ctx, models.StatusResolved).Return(3, nil).Times(1)
	repoMock.EXPECT().
		CountReportsByTypes(ctx, []string{"fire", "accident", "medical", "flood", "earthquake"}).
		Return(6, nil).
		Times(1)

	stats, err := svc.GetStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 42, stats.RegisteredUsers)
	assert.Equal(t, 10, stats.TotalReports)
	assert.Equal(t, 7, stats.ActiveAlerts)
	assert.Equal(t, 3, stats.ResolvedCases)
	assert.Equal(t, 6, stats.OngoingEmergencies)
}

func TestGetStats_UserCountError(t *testing.T) {
	svc, _, userRepoMock, _ := newTestReportService(t)
	ctx := context.Background()

	userRepoMock.EXPECT().CountUsers(ctx).Return(0, fmt.Errorf("store unreachable")).Times(1)

	stats, err := svc.GetStats(ctx)

	require.Error(t, err)
	assert.Nil(t, stats)
	assert.ErrorContains(t, err, "could not count users")
}
