package models

// PlatformStats are the public platform-wide counters.
type PlatformStats struct {
	TotalQuizzes   int `json:"totalQuizzes"`
	TotalQuestions int `json:"totalQuestions"`
	TotalUsers     int `json:"totalUsers"`
}
