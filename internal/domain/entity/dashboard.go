package entity

import "time"

type DashboardStats struct {
	Hospitals  int `json:"hospitals"`
	Doctors    int `json:"doctors"`
	Principles int `json:"principles"`
	Products   int `json:"products"`
	Candidates int `json:"candidates"`
	Users      int `json:"users"`
}

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	User        string    `json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type DashboardOverview struct {
	Stats    DashboardStats `json:"stats"`
	Activity []Activity     `json:"activity"`
}
