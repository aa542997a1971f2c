package models

// DashboardStats aggregates the counters shown on the admin dashboard.
type DashboardStats struct {
	ProjectsTotal        int `json:"projects_total"`
	ProjectsEliminated   int `json:"projects_eliminated"`
	AssignmentsTotal     int `json:"assignments_total"`
	AssignmentsCompleted int `json:"assignments_completed"`
	UsersTotal           int `json:"users_total"`
	JudgesTotal          int `json:"judges_total"`
}
