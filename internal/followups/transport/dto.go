package transport

// CreateFollowUpRequest schedules a follow-up for a lead.
type CreateFollowUpRequest struct {
	Date    string `json:"date" binding:"required,datetime=2006-01-02"`
	Details string `json:"details" binding:"omitempty,max=1000"`
}
