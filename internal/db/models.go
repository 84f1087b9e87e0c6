package db

import "time"

// TextRequest is one processed text submission. Records are written exactly
// once after a successful backend round-trip and never mutated.
type TextRequest struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	OriginalText  string    `json:"original_text" gorm:"type:text;not null"`
	ProcessedText string    `json:"processed_text" gorm:"type:text"`
	ServiceUsed   string    `json:"service_used" gorm:"size:50;not null;index"`
	Status        string    `json:"status" gorm:"size:20;default:pending;not null"`
	Metadata      string    `json:"-" gorm:"type:text"`
	CreatedAt     time.Time `json:"-" gorm:"index:idx_text_requests_created_at,sort:desc"`
	UpdatedAt     time.Time `json:"-"`
}

// StatusCompleted is the only status the gateway ever writes; failures abort
// before the insert.
const StatusCompleted = "completed"

// ServiceStats aggregates the records of one logical service.
type ServiceStats struct {
	ServiceUsed string `json:"service_used"`
	Count       int64  `json:"count"`
	Completed   int64  `json:"completed"`
	Pending     int64  `json:"pending"`
	Errors      int64  `json:"errors"`
}

// Stats is the full aggregate view over all persisted records.
type Stats struct {
	TotalRequests int64          `json:"total_requests"`
	ByService     []ServiceStats `json:"by_service"`
}
