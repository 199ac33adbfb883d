package models

import "time"

type Estimate struct {
	ID           int64          `json:"id"`
	RequestID    int64          `json:"request_id"`
	DriverID     int64          `json:"driver_id"`
	Price        *int           `json:"price"`
	Comment      *string        `json:"comment"`
	RejectReason *string        `json:"reject_reason"`
	Status       EstimateStatus `json:"status"`
	SoftDeleted  bool           `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	// Filled on list/detail reads that join the parent request.
	Request *EstimateRequest `json:"request,omitempty"`
}

type Review struct {
	ID               int64     `json:"id"`
	EstimateID       int64     `json:"estimate_id"`
	AuthoredByUserID int64     `json:"authored_by_user_id"`
	Rating           *int      `json:"rating"`
	Content          *string   `json:"content"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Written reports whether the placeholder has been filled in.
func (r *Review) Written() bool { return r.Rating != nil }
