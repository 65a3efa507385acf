package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/store"
)

// MaxFavorites is the most stations a user can keep.
const MaxFavorites = 5

const DefaultKey = "favorite_stations"

type ToggleResult string

const (
	Added      ToggleResult = "ADDED"
	Removed    ToggleResult = "REMOVED"
	MaxReached ToggleResult = "MAX_REACHED"
)

var (
	ErrTooMany   = fmt.Errorf("at most %d favorites are allowed", MaxFavorites)
	ErrDuplicate = errors.New("duplicate station in favorites")
)

// Store is the ordered list of favorite stations. Every change is written
// to the key-value store before the call returns; a failed write leaves the
// list unchanged.
//
// Several processes may share one key-value store. Each change starts from
// the list currently saved there, so changes made elsewhere are not
// overwritten. Two changes racing between the read and the write still end
// with the last write.
type Store struct {
	kv       store.KeyValueStore
	key      string
	mu       sync.RWMutex
	stations []models.Station
}

// New loads the list saved under key.
func New(ctx context.Context, kv store.KeyValueStore, key string) (*Store, error) {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{kv: kv, key: key}

	stations, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.stations = stations

	log.Debug().Int("favorites", len(s.stations)).Msg("Loaded favorites")
	return s, nil
}

// Reload replaces the in-memory list with the saved one.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh(ctx)
}

func (s *Store) load(ctx context.Context) ([]models.Station, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}

	var stations []models.Station
	if data != nil {
		if err := json.Unmarshal(data, &stations); err != nil {
			return nil, fmt.Errorf("decoding favorites: %w", err)
		}
	}

	if err := validate(stations); err != nil {
		log.Warn().Err(err).Msg("Stored favorites break limits, keeping the first valid entries")
		stations = sanitize(stations)
	}
	return stations, nil
}

// refresh reloads the saved list. The caller holds the write lock.
func (s *Store) refresh(ctx context.Context) error {
	stations, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.stations = stations
	return nil
}

// List returns a copy of the favorites in order.
func (s *Store) List() []models.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Station, len(s.stations))
	copy(out, s.stations)
	return out
}

func (s *Store) IsFavorite(stationID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(stationID) >= 0
}

// Toggle removes the station when it is a favorite and adds it otherwise,
// unless the list is full.
func (s *Store) Toggle(ctx context.Context, station models.Station) (ToggleResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return "", err
	}

	if i := s.indexOf(station.ID); i >= 0 {
		next := make([]models.Station, 0, len(s.stations)-1)
		next = append(next, s.stations[:i]...)
		next = append(next, s.stations[i+1:]...)
		if err := s.commit(ctx, next); err != nil {
			return "", err
		}
		return Removed, nil
	}

	if len(s.stations) >= MaxFavorites {
		return MaxReached, nil
	}

	next := make([]models.Station, 0, len(s.stations)+1)
	next = append(next, s.stations...)
	next = append(next, station)
	if err := s.commit(ctx, next); err != nil {
		return "", err
	}
	return Added, nil
}

// Reorder moves the favorite at from to position to. Out of range indexes
// leave the list untouched.
func (s *Store) Reorder(ctx context.Context, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return err
	}

	n := len(s.stations)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil
	}
	if from == to {
		return nil
	}

	next := make([]models.Station, 0, n)
	moved := s.stations[from]
	for i, st := range s.stations {
		if i != from {
			next = append(next, st)
		}
	}
	next = append(next[:to], append([]models.Station{moved}, next[to:]...)...)

	return s.commit(ctx, next)
}

// UpdateOrder replaces the list wholesale.
func (s *Store) UpdateOrder(ctx context.Context, stations []models.Station) error {
	if err := validate(stations); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.Station, len(stations))
	copy(next, stations)
	return s.commit(ctx, next)
}

// commit persists next and only then makes it the current list. The caller
// holds the write lock.
func (s *Store) commit(ctx context.Context, next []models.Station) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding favorites: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("saving favorites: %w", err)
	}
	s.stations = next
	return nil
}

func (s *Store) indexOf(stationID string) int {
	for i, st := range s.stations {
		if st.ID == stationID {
			return i
		}
	}
	return -1
}

func validate(stations []models.Station) error {
	if len(stations) > MaxFavorites {
		return ErrTooMany
	}
	seen := make(map[string]bool, len(stations))
	for _, st := range stations {
		if seen[st.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicate, st.ID)
		}
		seen[st.ID] = true
	}
	return nil
}

func sanitize(stations []models.Station) []models.Station {
	out := make([]models.Station, 0, MaxFavorites)
	seen := make(map[string]bool)
	for _, st := range stations {
		if seen[st.ID] || len(out) == MaxFavorites {
			continue
		}
		seen[st.ID] = true
		out = append(out, st)
	}
	return out
}
