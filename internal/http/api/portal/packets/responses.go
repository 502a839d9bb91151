package packets

// CheckInResponse mirrors model.CheckIn but flattens dates to strings.
type CheckInResponse struct {
	ID             int     `json:"id"`
	Date           string  `json:"date"`
	Status         string  `json:"status"`
	ReadinessScore int     `json:"readiness_score"`
	Fatigued       bool    `json:"fatigued"`
	InPain         bool    `json:"in_pain"`
	Note           *string `json:"note"`
	CreatedAt      string  `json:"created_at"`
}

// TodayResponse tells the portal whether the worker is rostered on today and
// whether they have already checked in.
type TodayResponse struct {
	Date      string           `json:"date"`
	Scheduled bool             `json:"scheduled"`
	CheckIn   *CheckInResponse `json:"checkin"`
}

type ScheduleDaysResponse struct {
	Days []string `json:"days"`
}

// NextScheduledResponse carries the next rostered date plus its
// human-readable label, or null-equivalents when none is in the window.
type NextScheduledResponse struct {
	Date    string `json:"date"`
	Display string `json:"display"`
	Found   bool   `json:"found"`
}

type IncidentResponse struct {
	ID            int     `json:"id"`
	OccurredAt    string  `json:"occurred_at"`
	Location      string  `json:"location"`
	Severity      string  `json:"severity"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	AttachmentURL *string `json:"attachment_url"`
	CreatedAt     string  `json:"created_at"`
}
