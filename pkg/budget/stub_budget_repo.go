package budget

import (
	"context"
)

// StubRepo is an in-memory Repo for tests.
type StubRepo struct {
	settings map[int]Settings
}

func NewStubRepo() *StubRepo {
	return &StubRepo{settings: make(map[int]Settings)}
}

func (s *StubRepo) GetSettings(_ context.Context, userId int) (Settings, error) {
	settings, ok := s.settings[userId]
	if !ok {
		return Settings{}, ErrNoSettings
	}
	return settings, nil
}

func (s *StubRepo) SaveSettings(_ context.Context, userId int, settings Settings) (Settings, error) {
	s.settings[userId] = settings
	return settings, nil
}

func (s *StubRepo) Reset() {
	s.settings = make(map[int]Settings)
}
