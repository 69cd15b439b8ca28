// Request/response shapes for admin endpoints

package admin

// UpdateConfigRequest replaces the active matching configuration
type UpdateConfigRequest struct {
	Weights    map[string]int     `json:"weights" validate:"required,min=1"`
	Thresholds map[string]float64 `json:"thresholds" validate:"required,min=1"`
}

// ModerateRequest changes a profile's account status
type ModerateRequest struct {
	Status string  `json:"status" validate:"required,oneof=approved suspended banned pending_review"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// SetVerificationRequest assigns a verification tier
type SetVerificationRequest struct {
	Tier int `json:"tier" validate:"min=0,max=3"`
}

// CreateReportRequest files a report against a member
type CreateReportRequest struct {
	ReportedID string  `json:"reported_id" validate:"required,uuid4"`
	Reason     string  `json:"reason" validate:"required,oneof=fake_profile harassment inappropriate_content scam underage other"`
	Details    *string `json:"details,omitempty" validate:"omitempty,max=2000"`
}

// ResolveReportRequest closes a report
type ResolveReportRequest struct {
	Status string `json:"status" validate:"required,oneof=resolved dismissed"`
}
