package services

import (
	"sort"
	"sync"

	"roomify-client/models"
	"roomify-client/utils"

	"go.uber.org/zap"
)

// BookingDraftStore holds the in-progress booking shared by the search,
// room and booking screens. Merges are not validated here; the wizard
// validates at submit time.
type BookingDraftStore struct {
	mu    sync.Mutex
	draft models.BookingDraft

	// notifyMu keeps subscriber deliveries in mutation order.
	notifyMu sync.Mutex

	subs    map[int]func(models.BookingDraft)
	nextSub int

	log *zap.Logger
}

func NewBookingDraftStore(log *zap.Logger) *BookingDraftStore {
	return &BookingDraftStore{
		draft: models.DefaultBookingDraft(),
		subs:  map[int]func(models.BookingDraft){},
		log:   utils.OrNop(log).Named("draft"),
	}
}

// Snapshot returns a deep copy of the current draft.
func (s *BookingDraftStore) Snapshot() models.BookingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// SetSelectedRoom replaces the selection; nil clears it.
func (s *BookingDraftStore) SetSelectedRoom(room *models.RoomRef) {
	s.update(func(d *models.BookingDraft) {
		if room == nil {
			d.SelectedRoom = nil
			return
		}
		ref := *room
		d.SelectedRoom = &ref
	})
}

func (s *BookingDraftStore) SetBookingDetails(patch models.BookingDetailsPatch) {
	s.update(func(d *models.BookingDraft) {
		d.BookingDetails = patch.Apply(d.BookingDetails)
	})
}

func (s *BookingDraftStore) SetSearchFilters(patch models.SearchFiltersPatch) {
	s.update(func(d *models.BookingDraft) {
		d.SearchFilters = patch.Apply(d.SearchFilters)
		if !d.SearchFilters.Valid() {
			s.log.Debug("price range is inverted", zap.Ints("price_range", d.SearchFilters.PriceRange[:]))
		}
	})
}

// Restore replaces the whole draft, e.g. with one loaded from storage.
func (s *BookingDraftStore) Restore(d models.BookingDraft) {
	s.update(func(cur *models.BookingDraft) {
		*cur = d.Clone()
	})
}

// Clear resets the draft to its startup defaults.
func (s *BookingDraftStore) Clear() {
	s.update(func(d *models.BookingDraft) {
		*d = models.DefaultBookingDraft()
	})
}

// Subscribe registers fn to receive a snapshot after every mutation, in
// mutation order. fn may read the store but must not mutate it. The
// returned func unregisters it.
func (s *BookingDraftStore) Subscribe(fn func(models.BookingDraft)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// update applies fn under the lock and notifies subscribers outside it.
// notifyMu is taken before mu is released so a later mutation cannot be
// delivered ahead of this one.
func (s *BookingDraftStore) update(fn func(*models.BookingDraft)) {
	s.mu.Lock()
	fn(&s.draft)
	snapshot := s.draft.Clone()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]func(models.BookingDraft), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, sub := range subs {
		sub(snapshot.Clone())
	}
}

// PersistDraft loads a saved draft into s and saves every later change back
// under KeyBookingDraft. An unreadable saved draft is discarded.
func PersistDraft(s *BookingDraftStore, storage LocalStorage) (func(), error) {
	var saved models.BookingDraft
	found, err := loadJSON(storage, KeyBookingDraft, &saved)
	switch {
	case err != nil:
		s.log.Warn("saved draft unreadable, starting fresh", zap.Error(err))
		if rmErr := storage.Remove(KeyBookingDraft); rmErr != nil {
			return nil, rmErr
		}
	case found:
		if saved.SearchFilters.Facilities == nil {
			saved.SearchFilters.Facilities = []string{}
		}
		s.Restore(saved)
	}

	return s.Subscribe(func(d models.BookingDraft) {
		if err := saveJSON(storage, KeyBookingDraft, d); err != nil {
			s.log.Warn("save draft failed", zap.Error(err))
		}
	}), nil
}
