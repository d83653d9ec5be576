package entity

import "time"

// Contact is a person attached to a hospital, doctor or principle.
type Contact struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	IsPrimary   bool   `json:"isPrimary"`
}

// StoredDocument is a file already held by the back office.
type StoredDocument struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName,omitempty"`
	FileType     FileType  `json:"fileType"`
	Description  string    `json:"description,omitempty"`
	MimeType     string    `json:"mimeType,omitempty"`
	Size         int64     `json:"size,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt,omitempty"`
}

type Hospital struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Address       string           `json:"address,omitempty"`
	City          string           `json:"city,omitempty"`
	StateID       string           `json:"stateId,omitempty"`
	GST           string           `json:"gst,omitempty"`
	PAN           string           `json:"pan,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	AgreementFile string           `json:"agreementFile,omitempty"`
	Documents     []StoredDocument `json:"documents,omitempty"`
	Contacts      []Contact        `json:"contacts,omitempty"`
	IsActive      bool             `json:"isActive"`
}

type Doctor struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Specialization     string           `json:"specialization,omitempty"`
	RegistrationNumber string           `json:"registrationNumber,omitempty"`
	HospitalID         string           `json:"hospitalId,omitempty"`
	Phone              string           `json:"phone,omitempty"`
	Email              string           `json:"email,omitempty"`
	AgreementFile      string           `json:"agreementFile,omitempty"`
	Documents          []StoredDocument `json:"documents,omitempty"`
	Contacts           []Contact        `json:"contacts,omitempty"`
	IsActive           bool             `json:"isActive"`
}

type Principle struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Address       string           `json:"address,omitempty"`
	GST           string           `json:"gst,omitempty"`
	PAN           string           `json:"pan,omitempty"`
	Phone         string           `json:"phone,omitempty"`
	Email         string           `json:"email,omitempty"`
	AgreementFile string           `json:"agreementFile,omitempty"`
	Documents     []StoredDocument `json:"documents,omitempty"`
	Contacts      []Contact        `json:"contacts,omitempty"`
	IsActive      bool             `json:"isActive"`
}
