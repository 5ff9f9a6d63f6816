package submissions

// Submission is the persisted record for one upload-and-analysis attempt.
// Timestamps are Unix milliseconds.
type Submission struct {
	ID             string `json:"id"`
	CompanyName    string `json:"companyName"`
	JobTitle       string `json:"jobTitle"`
	JobDescription string `json:"jobDescription"`
	FilePath       string `json:"filePath"`
	ImagePath      string `json:"imagePath"`
	CreatedAt      int64  `json:"createdAt"`
	UpdatedAt      int64  `json:"updatedAt"`
	Feedback       string `json:"feedback"`
}

// File is the uploaded resume held in memory.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Input is what the user confirms on the upload form.
type Input struct {
	CompanyName    string
	JobTitle       string
	JobDescription string
	File           *File
}
