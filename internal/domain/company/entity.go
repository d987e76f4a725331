package company

import "time"

type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	DeletedAt *time.Time
}

type CompanySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c Company) Summary() CompanySummary {
	return CompanySummary{ID: c.ID, Name: c.Name}
}
