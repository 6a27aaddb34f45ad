package user

import (
	"context"
)

// StubUserRepo is an in-memory Repo for tests.
type StubUserRepo struct {
	users  map[int]User
	nextId int
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{users: make(map[int]User), nextId: 1}
}

func (s *StubUserRepo) CreateUser(_ context.Context, user User) (int, error) {
	id := s.nextId
	s.nextId++
	user.Id = id
	s.users[id] = user
	return id, nil
}

func (s *StubUserRepo) GetUser(_ context.Context, id int) (User, error) {
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *StubUserRepo) GetUserByUid(_ context.Context, uid string) (User, error) {
	for _, user := range s.users {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (s *StubUserRepo) UpdateUser(_ context.Context, userId int, user User) (User, error) {
	existing, ok := s.users[userId]
	if !ok {
		return User{}, ErrUserNotFound
	}
	existing.DisplayName = user.DisplayName
	existing.Settings = user.Settings
	s.users[userId] = existing
	user.Id = userId
	return user, nil
}

func (s *StubUserRepo) DeleteUserByUid(_ context.Context, uid string) error {
	for id, user := range s.users {
		if user.Uid == uid {
			delete(s.users, id)
			return nil
		}
	}
	return ErrUserNotFound
}

func (s *StubUserRepo) GetAllUsers(_ context.Context) ([]User, error) {
	users := make([]User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *StubUserRepo) IsUsernameAvailable(_ context.Context, username string) (bool, error) {
	for _, user := range s.users {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}

func (s *StubUserRepo) Reset() {
	s.users = make(map[int]User)
	s.nextId = 1
}
