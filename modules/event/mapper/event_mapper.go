package mapper

import (
	"campus-events-api/modules/event/dto"
	"campus-events-api/modules/event/entity"

	"github.com/google/uuid"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToEventResponse maps an event plus its recomputed registration count
// into the public response shape.
func ToEventResponse(event *entity.Event, registered int) *dto.EventResponse {
	return &dto.EventResponse{
		ID:          event.ID.String(),
		Slug:        event.Slug,
		Title:       event.Title,
		Location:    event.Location,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		Capacity:    event.Capacity,
		Registered:  registered,
		Category:    deref(event.Category),
		Description: deref(event.Description),
		ImageURL:    deref(event.ImageURL),
		Tags:        event.Tags(),
		OrganizerID: event.OrganizerID.String(),
		CreatedAt:   event.CreatedAt,
	}
}

func ToEventResponses(events []entity.Event, counts map[uuid.UUID]int) []dto.EventResponse {
	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, *ToEventResponse(&events[i], counts[events[i].ID]))
	}
	return responses
}
