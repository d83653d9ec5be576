package entity

import "time"

// APILog represents a log entry for a call made to the back-office API
type APILog struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestBody  string    `json:"request_body"`
	ResponseBody string    `json:"response_body"`
	StatusCode   int       `json:"status_code"`
	Duration     int64     `json:"duration_ms"`
	Retried      bool      `json:"retried"`
	CreatedAt    time.Time `json:"created_at"`
}
