// Package tailored builds job-specific résumés for applications.
package tailored

import "time"

// Source records where the tailored body text came from.
type Source string

const (
	// SourceFile means the body was rebuilt from the uploaded file's text.
	SourceFile Source = "file"
	// SourceKeywords means the file was unreadable or gone and only the
	// snapshot keywords were available.
	SourceKeywords Source = "keywords"
)

// TailoredResume is a stored DOCX built for one application.
type TailoredResume struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	ApplicationID string    `json:"applicationId"`
	JobID         string    `json:"jobId"`
	ResumeID      string    `json:"resumeId"`
	FileName      string    `json:"fileName"`
	FileRef       string    `json:"fileRef"`
	SizeBytes     int64     `json:"sizeBytes"`
	MatchedSkills []string  `json:"matchedSkills"`
	MissingSkills []string  `json:"missingSkills"`
	Source        Source    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
}
