package characters

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store persists the whole character collection at once.
type Store interface {
	Load(ctx context.Context) ([]Character, error)
	Save(ctx context.Context, list []Character) error
}

// CreateInput is the raw body of a create request.
type CreateInput struct {
	Name  Value `json:"name"`
	MaxHP Value `json:"maxHP"`
}

// Service runs every operation as load, mutate, save against the store.
// The whole sequence is held under one mutex so overlapping requests in
// this process cannot overwrite each other with a stale copy.
type Service struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	newID  func() string
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context) ([]Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load characters: %w", err)
	}
	if list == nil {
		list = []Character{}
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Character, error) {
	name, _ := in.Name.Text()
	c, err := newCharacter(s.newID(), name, in.MaxHP)
	if err != nil {
		return Character{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return Character{}, fmt.Errorf("load characters: %w", err)
	}
	list = append(list, c)
	if err := s.store.Save(ctx, list); err != nil {
		return Character{}, fmt.Errorf("save characters: %w", err)
	}
	s.logger.Info("character created", zap.String("id", c.ID), zap.String("name", c.Name), zap.Int("max_hp", c.MaxHP))
	return c, nil
}

// Update applies p to the character with the given id. Fields that could
// not be coerced are expected to be nil in p and are left unchanged.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Character, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return Character{}, fmt.Errorf("load characters: %w", err)
	}
	i := indexOf(list, id)
	if i < 0 {
		return Character{}, ErrNotFound
	}
	list[i].Apply(p)
	if err := s.store.Save(ctx, list); err != nil {
		return Character{}, fmt.Errorf("save characters: %w", err)
	}
	c := list[i]
	s.logger.Info("character updated", zap.String("id", c.ID), zap.Int("current_hp", c.CurrentHP), zap.Int("max_hp", c.MaxHP))
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load characters: %w", err)
	}
	i := indexOf(list, id)
	if i < 0 {
		return ErrNotFound
	}
	list = slices.Delete(list, i, i+1)
	if err := s.store.Save(ctx, list); err != nil {
		return fmt.Errorf("save characters: %w", err)
	}
	s.logger.Info("character deleted", zap.String("id", id))
	return nil
}

// Import appends records that are not yet stored, skipping duplicates by
// id and records that break the HP invariants. It returns how many were added.
func (s *Service) Import(ctx context.Context, records []Character) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load characters: %w", err)
	}
	added := 0
	for _, c := range records {
		if c.ID == "" || !c.Valid() || indexOf(list, c.ID) >= 0 {
			s.logger.Warn("import skipped record", zap.String("id", c.ID), zap.String("name", c.Name))
			continue
		}
		list = append(list, c)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := s.store.Save(ctx, list); err != nil {
		return 0, fmt.Errorf("save characters: %w", err)
	}
	s.logger.Info("characters imported", zap.Int("count", added))
	return added, nil
}
