package jobs

import "time"

// Job is a read-only catalog entry.
type Job struct {
	ID           string     `json:"id" yaml:"id"`
	Title        string     `json:"title" yaml:"title"`
	Company      string     `json:"company" yaml:"company"`
	Location     string     `json:"location" yaml:"location"`
	Description  string     `json:"description" yaml:"description"`
	Requirements []string   `json:"requirements" yaml:"requirements"`
	Skills       []string   `json:"skills" yaml:"skills"`
	Salary       string     `json:"salary,omitempty" yaml:"salary,omitempty"`
	PostedDate   time.Time  `json:"postedDate" yaml:"postedDate"`
	Deadline     *time.Time `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}
