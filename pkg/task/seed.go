package task

import "time"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// Seed returns the example tasks a brand new store starts with
func Seed() []Task {
	return []Task{
		{ID: "1", Title: "Design futuristic UI mockups", DueDate: day(2024, time.August, 15), Priority: High, Category: "Design"},
		{ID: "2", Title: "Develop core components", DueDate: day(2024, time.August, 20), Priority: High, Category: "Development"},
		{ID: "3", Title: "Setup AI suggestion engine", DueDate: day(2024, time.August, 25), Priority: Medium, Category: "AI", Completed: true},
		{ID: "4", Title: "User testing session", DueDate: day(2024, time.September, 1), Priority: Low, Category: "QA"},
	}
}
