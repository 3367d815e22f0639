package services

import (
	"context"
	"strings"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/utils"

	"go.uber.org/zap"
)

// FilterRooms keeps rooms whose name or type contains query (case
// insensitive), whose type matches the filter ("all" matches any) and whose
// nightly price lies within the inclusive range.
func FilterRooms(rooms []models.Room, f models.SearchFilters, query string) []models.Room {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if q != "" &&
			!strings.Contains(strings.ToLower(r.Name), q) &&
			!strings.Contains(strings.ToLower(r.RoomType), q) {
			continue
		}
		if f.RoomType != "" && f.RoomType != models.RoomTypeAll && r.RoomType != f.RoomType {
			continue
		}
		if r.PricePerNight < float64(f.PriceRange[0]) || r.PricePerNight > float64(f.PriceRange[1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RoomTypes returns "all" followed by each distinct room type in the order
// first seen.
func RoomTypes(rooms []models.Room) []string {
	out := []string{models.RoomTypeAll}
	seen := map[string]bool{}
	for _, r := range rooms {
		if r.RoomType == "" || seen[r.RoomType] {
			continue
		}
		seen[r.RoomType] = true
		out = append(out, r.RoomType)
	}
	return out
}

// RoomRefFrom builds the draft's projection of a room.
func RoomRefFrom(r models.Room) models.RoomRef {
	return models.RoomRef{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.RoomType,
		Price:     r.PricePerNight,
		Image:     r.ImageURL,
		MaxGuests: r.MaxGuests(),
	}
}

// CatalogAPI is the slice of the API client the catalog needs.
type CatalogAPI interface {
	Rooms(ctx context.Context) api.Result
	Room(ctx context.Context, id uint) api.Result
}

type CatalogService struct {
	API   CatalogAPI
	Draft *BookingDraftStore
	log   *zap.Logger
}

func NewCatalogService(client CatalogAPI, draft *BookingDraftStore, log *zap.Logger) *CatalogService {
	return &CatalogService{API: client, Draft: draft, log: utils.OrNop(log).Named("catalog")}
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	res := s.API.Rooms(ctx)
	if err := res.Err(); err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := res.Decode(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	res := s.API.Room(ctx, id)
	if err := res.Err(); err != nil {
		return nil, err
	}
	var room models.Room
	if err := res.Decode(&room); err != nil {
		return nil, err
	}
	return &room, nil
}

// SearchRooms fetches the catalog and applies the draft's current filters.
func (s *CatalogService) SearchRooms(ctx context.Context, query string) ([]models.Room, error) {
	rooms, err := s.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	filters := s.Draft.Snapshot().SearchFilters
	out := FilterRooms(rooms, filters, query)
	s.log.Debug("search",
		zap.String("query", query),
		zap.String("room_type", filters.RoomType),
		zap.Int("matched", len(out)),
		zap.Int("total", len(rooms)),
	)
	return out, nil
}

// SelectRoom records room as the draft's selection.
func (s *CatalogService) SelectRoom(room models.Room) {
	ref := RoomRefFrom(room)
	s.Draft.SetSelectedRoom(&ref)
}
