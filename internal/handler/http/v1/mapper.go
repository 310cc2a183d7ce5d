package v1

import (
	"github.com/shenikar/emergency_response_system/internal/models"
	"github.com/shenikar/emergency_response_system/internal/service"
)

// DTOToReportModel converts a submission DTO into the domain model. The
// service fills in the id, status and assignment fields.
func DTOToReportModel(dto CreateReportRequest) *models.Report {
	return &models.Report{
		Type:        dto.Type,
		Description: dto.Description,
		Reporter: models.Reporter{
			Name:  dto.Reporter.Name,
			Phone: dto.Reporter.Phone,
			Info:  dto.Reporter.Info,
		},
		Latitude:  dto.Location.Lat,
		Longitude: dto.Location.Lon,
		Priority:  dto.Priority,
	}
}

// ModelToReportResponse converts the domain model into a response DTO
func ModelToReportResponse(model *models.Report) *ReportResponse {
	return &ReportResponse{
		ID:          model.ID,
		Type:        model.Type,
		Description: model.Description,
		Reporter: ReporterDTO{
			Name:  model.Reporter.Name,
			Phone: model.Reporter.Phone,
			Info:  model.Reporter.Info,
		},
		Location: LocationDTO{
			Lat: model.Latitude,
			Lon: model.Longitude,
		},
		Priority:        model.Priority,
		AssignedTo:      model.AssignedTo,
		AssignedContact: model.AssignedContact,
		Distance:        model.Distance,
		Status:          model.Status,
		Date:            model.CreatedAt.Format("2006-01-02"),
		Time:            model.CreatedAt.Format("15:04:05"),
		CreatedAt:       model.CreatedAt,
	}
}

// ModelsToReportResponses converts a slice of models into response DTOs
func ModelsToReportResponses(reports []*models.Report) []*ReportResponse {
	responses := make([]*ReportResponse, len(reports))
	for i, report := range reports {
		responses[i] = ModelToReportResponse(report)
	}
	return responses
}

// ResultToCreateReportResponse converts a create outcome into a response DTO
func ResultToCreateReportResponse(result *service.CreateReportResult) *CreateReportResponse {
	resp := &CreateReportResponse{
		Outcome: result.Outcome,
		Message: result.Message,
		Report:  ModelToReportResponse(result.Report),
	}
	if result.Responder != nil {
		resp.Responder = &ResponderDTO{
			Name:    result.Responder.Name,
			Contact: result.Responder.Contact,
		}
	}
	return resp
}

// DTOToUserModel converts a signup DTO into the domain model. The password
// is handed to the service separately, only its hash ever reaches the model.
func DTOToUserModel(dto SignupRequest) *models.User {
	return &models.User{
		Name:  dto.Name,
		Email: dto.Email,
		Phone: dto.Phone,
	}
}

// ModelToUserResponse converts a user model into a response DTO
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Phone:     model.Phone,
		LastLogin: model.LastLogin,
		CreatedAt: model.CreatedAt,
	}
}

// ModelsToUserResponses converts a slice of user models into response DTOs
func ModelsToUserResponses(users []*models.User) []*UserResponse {
	responses := make([]*UserResponse, len(users))
	for i, user := range users {
		responses[i] = ModelToUserResponse(user)
	}
	return responses
}

// StatsToResponse converts the stats snapshot into a response DTO
func StatsToResponse(stats *service.Stats) *StatsResponse {
	return &StatsResponse{
		RegisteredUsers:    stats.RegisteredUsers,
		TotalReports:       stats.TotalReports,
		ActiveAlerts:       stats.ActiveAlerts,
		ResolvedCases:      stats.ResolvedCases,
		OngoingEmergencies: stats.OngoingEmergencies,
	}
}
