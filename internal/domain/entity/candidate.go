package entity

import "time"

// Candidate is an HTD (hire-train-deploy) candidate.
type Candidate struct {
	ID         string           `json:"id"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	Email      string           `json:"email"`
	Phone      string           `json:"phone,omitempty"`
	Status     string           `json:"status,omitempty"`
	Location   string           `json:"location,omitempty"`
	Documents  []StoredDocument `json:"documents,omitempty"`
	CreatedAt  time.Time        `json:"createdAt,omitempty"`
	UpdatedAt  time.Time        `json:"updatedAt,omitempty"`
	Experience float64          `json:"totalExperience,omitempty"`
}

type Education struct {
	ID          string  `json:"id"`
	Degree      string  `json:"degree"`
	Institution string  `json:"institution"`
	Field       string  `json:"fieldOfStudy,omitempty"`
	StartYear   int     `json:"startYear,omitempty"`
	EndYear     int     `json:"endYear,omitempty"`
	Grade       string  `json:"grade,omitempty"`
	Percentage  float64 `json:"percentage,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Title       string `json:"title"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

type CareerGap struct {
	ID        string `json:"id"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       string `json:"level,omitempty"`
	YearsOfUse  int    `json:"yearsOfExperience,omitempty"`
	IsPrimary   bool   `json:"isPrimary"`
	Certificate string `json:"certificate,omitempty"`
}

// ClientProfile is the single client-facing summary of a candidate.
type ClientProfile struct {
	CandidateID string   `json:"candidateId"`
	Headline    string   `json:"headline,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Visible     bool     `json:"visible"`
}
