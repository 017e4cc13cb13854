package service

import (
	"context"

	"campus-events-api/core/errors"
	"campus-events-api/modules/dashboard/dto"
	"campus-events-api/modules/dashboard/repository"
	userentity "campus-events-api/modules/user/entity"
	userservice "campus-events-api/modules/user/service"
)

// DashboardService assembles the per-role read models. It enforces that
// each view is only served to the matching role; it never mutates state.
type DashboardService struct {
	repo        repository.DashboardRepositoryInterface
	userService userservice.UserServiceInterface
}

type DashboardServiceInterface interface {
	StudentDashboard(ctx context.Context, caller userentity.Caller) (*dto.StudentDashboard, *errors.AppError)
	OrganizerDashboard(ctx context.Context, caller userentity.Caller) (*dto.OrganizerDashboard, *errors.AppError)
	Me(ctx context.Context, caller userentity.Caller) (*dto.MeResponse, *errors.AppError)
}

func NewDashboardService(repo repository.DashboardRepositoryInterface, userService userservice.UserServiceInterface) DashboardServiceInterface {
	return &DashboardService{repo: repo, userService: userService}
}

func (s *DashboardService) StudentDashboard(ctx context.Context, caller userentity.Caller) (*dto.StudentDashboard, *errors.AppError) {
	if caller.Role != userentity.RoleStudent {
		return nil, errors.NewAppError(errors.ErrForbidden, "Student dashboard is only available to students.", nil)
	}

	rows, err := s.repo.StudentRegistrations(ctx, caller.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard", err)
	}

	items := make([]dto.StudentDashboardItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.StudentDashboardItem{
			EventID:        row.EventID.String(),
			Title:          row.Title,
			Location:       row.Location,
			StartAt:        row.StartAt,
			EndAt:          row.EndAt,
			Capacity:       row.Capacity,
			Registered:     row.Registered,
			RemainingSeats: remainingSeats(row.Capacity, row.Registered),
			OrganizerName:  row.OrganizerName,
			Code:           row.Code,
			RegisteredAt:   row.RegisteredAt,
		})
	}
	return &dto.StudentDashboard{Items: items, Total: len(items)}, nil
}

func (s *DashboardService) OrganizerDashboard(ctx context.Context, caller userentity.Caller) (*dto.OrganizerDashboard, *errors.AppError) {
	if caller.Role != userentity.RoleOrganizer {
		return nil, errors.NewAppError(errors.ErrForbidden, "Organizer dashboard is only available to organizers.", nil)
	}

	rows, err := s.repo.OrganizerEvents(ctx, caller.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load dashboard", err)
	}

	items := make([]dto.OrganizerDashboardItem, 0, len(rows))
	totalRegistrations := 0
	for _, row := range rows {
		totalRegistrations += row.Registered
		items = append(items, dto.OrganizerDashboardItem{
			EventID:        row.EventID.String(),
			Title:          row.Title,
			Location:       row.Location,
			StartAt:        row.StartAt,
			EndAt:          row.EndAt,
			Capacity:       row.Capacity,
			Registered:     row.Registered,
			RemainingSeats: remainingSeats(row.Capacity, row.Registered),
			CreatedAt:      row.CreatedAt,
		})
	}
	return &dto.OrganizerDashboard{
		Items:              items,
		TotalEvents:        len(items),
		TotalRegistrations: totalRegistrations,
	}, nil
}

func (s *DashboardService) Me(ctx context.Context, caller userentity.Caller) (*dto.MeResponse, *errors.AppError) {
	user, appErr := s.userService.GetByID(ctx, caller.ID)
	if appErr != nil {
		// A valid token for a user row that no longer exists is an auth
		// problem, not a lookup miss.
		if errors.Is(appErr, errors.ErrNotFound) {
			return nil, errors.NewAppError(errors.ErrUnauthorized, "Account no longer exists", nil)
		}
		return nil, appErr
	}
	return &dto.MeResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	}, nil
}

func remainingSeats(capacity, registered int) int {
	if remaining := capacity - registered; remaining > 0 {
		return remaining
	}
	return 0
}
