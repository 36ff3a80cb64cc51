package models

// SMSLog is one outbound message record produced by the external sending
// system. Immutable once created.
type SMSLog struct {
	ID             int64  `json:"id"`
	CustomerNumber string `json:"customer_number"`
	PhoneNumber    string `json:"phone_number"`
	Message        string `json:"message"`
	SendStatus     string `json:"send_status"`
	DateSent       string `json:"date_sent"`
}

// CreateSMSLogRequest is the request body for recording an outbound SMS
type CreateSMSLogRequest struct {
	CustomerNumber string `json:"customer_number" binding:"required"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	Message        string `json:"message" binding:"required"`
	SendStatus     string `json:"send_status"`
	DateSent       string `json:"date_sent"`
}
