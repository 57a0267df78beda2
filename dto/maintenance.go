package dto

type CreateMaintenanceRequest struct {
	StartDate string `json:"startDate" binding:"required,date"`
	StartTime string `json:"startTime" binding:"omitempty,clock"`
	EndDate   string `json:"endDate" binding:"required,date"`
	EndTime   string `json:"endTime" binding:"omitempty,clock"`
}
