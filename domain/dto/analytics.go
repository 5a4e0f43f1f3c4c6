package dto

// AnalyticsSummary aggregates a user's productivity numbers.
type AnalyticsSummary struct {
	TotalTasks      int64            `json:"totalTasks"`
	CompletedTasks  int64            `json:"completedTasks"`
	CompletionRate  float64          `json:"completionRate"` // 0..1
	OverdueTasks    int64            `json:"overdueTasks"`
	ByCategory      map[string]int64 `json:"byCategory"`
	ByPriority      map[string]int64 `json:"byPriority"`
	CompletedByDay  []DayCount       `json:"completedByDay"` // last 7 days, oldest first
	ActiveRecurring int64            `json:"activeRecurring"`
}

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}
