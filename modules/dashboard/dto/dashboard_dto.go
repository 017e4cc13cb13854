package dto

import "time"

// StudentDashboardItem is one registered event in a student's dashboard.
type StudentDashboardItem struct {
	EventID        string    `json:"event_id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Capacity       int       `json:"capacity"`
	Registered     int       `json:"registered"`
	RemainingSeats int       `json:"remaining_seats"`
	OrganizerName  string    `json:"organizer_name"`
	Code           string    `json:"code"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// StudentDashboard lists the caller's registrations, most recent first.
type StudentDashboard struct {
	Items []StudentDashboardItem `json:"items"`
	Total int                    `json:"total"`
}

// OrganizerDashboardItem is one published event in an organizer's
// dashboard, with its live registration count.
type OrganizerDashboardItem struct {
	EventID        string    `json:"event_id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Capacity       int       `json:"capacity"`
	Registered     int       `json:"registered"`
	RemainingSeats int       `json:"remaining_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrganizerDashboard lists the caller's events, newest first.
type OrganizerDashboard struct {
	Items              []OrganizerDashboardItem `json:"items"`
	TotalEvents        int                      `json:"total_events"`
	TotalRegistrations int                      `json:"total_registrations"`
}

// MeResponse identifies the caller and their role so the client can pick
// which dashboard to render.
type MeResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
