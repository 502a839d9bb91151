package packets

import "time"

type SubmitCheckInRequest struct {
	ReadinessScore int     `json:"readiness_score" binding:"required,min=1,max=10"`
	Fatigued       bool    `json:"fatigued"`
	InPain         bool    `json:"in_pain"`
	Note           *string `json:"note"`
}

type ReportIncidentRequest struct {
	OccurredAt  time.Time `json:"occurred_at" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Severity    string    `json:"severity" binding:"required,oneof=minor moderate serious critical"`
	Description string    `json:"description" binding:"required"`
}

type ListCheckInsQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

type ScheduleDaysQuery struct {
	From time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To   time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}
