package resumes

import "time"

type resumeResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FileType    FileType  `json:"fileType"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	Keywords    []string  `json:"keywords"`
	UploadDate  time.Time `json:"uploadDate"`
}

func toResponse(r Resume) resumeResponse {
	keywords := r.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return resumeResponse{
		ID:          r.ID,
		FileName:    r.FileName,
		FileType:    r.FileType,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Keywords:    keywords,
		UploadDate:  r.UploadDate,
	}
}
