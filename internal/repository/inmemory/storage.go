package inmemory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"
)

// Storage повторяет ограничения postgres-схемы: уникальные username/email,
// внешний ключ assigned_to и допустимые статусы
type Storage struct {
	mtx *sync.RWMutex

	users   map[int64]*user.User
	userIDs []int64
	lastUID int64

	tasks   map[int64]*task.Task
	taskIDs []int64
	lastTID int64

	now func() time.Time
}

func NewStorage() *Storage {
	return &Storage{
		mtx:   &sync.RWMutex{},
		users: make(map[int64]*user.User),
		tasks: make(map[int64]*task.Task),
		now:   time.Now,
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *Storage) CreateUser(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, existing := range s.users {
		if existing.Username == userToCreate.Username {
			return repo.NewConstraintError(repo.ErrAlreadyExists, "username")
		}
		if existing.Email == userToCreate.Email {
			return repo.NewConstraintError(repo.ErrAlreadyExists, "email")
		}
	}

	s.lastUID++
	userToCreate.ID = s.lastUID
	userToCreate.CreatedAt = s.now()

	stored := *userToCreate
	s.users[stored.ID] = &stored
	s.userIDs = append(s.userIDs, stored.ID)
	return nil
}

func (s *Storage) ListUsers(ctx context.Context) ([]*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*user.User, 0, len(s.userIDs))
	for _, id := range s.userIDs {
		u := *s.users[id]
		res = append(res, &u)
	}
	return res, nil
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.checkTask(taskToCreate); err != nil {
		return err
	}

	s.lastTID++
	taskToCreate.ID = s.lastTID
	taskToCreate.CreatedAt = truncateToDate(s.now())

	stored := copyTask(taskToCreate)
	s.tasks[stored.ID] = stored
	s.taskIDs = append(s.taskIDs, stored.ID)
	return nil
}

func (s *Storage) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, id := range s.taskIDs {
		t := s.tasks[id]
		if filter.Match(t) {
			res = append(res, copyTask(t))
		}
	}
	return res, nil
}

func (s *Storage) UpdateTask(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.tasks[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	if err := s.checkTask(taskToUpdate); err != nil {
		return err
	}

	taskToUpdate.CreatedAt = existing.CreatedAt
	s.tasks[taskToUpdate.ID] = copyTask(taskToUpdate)
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.tasks, id)
	for ind, val := range s.taskIDs {
		if val == id {
			s.taskIDs = append(s.taskIDs[:ind], s.taskIDs[ind+1:]...)
			break
		}
	}
	return nil
}

// checkTask вызывается под блокировкой
func (s *Storage) checkTask(t *task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return repo.NewConstraintError(repo.ErrInvalidValue, "title")
	}
	if !t.Status.Valid() {
		return repo.NewConstraintError(repo.ErrInvalidValue, "status")
	}
	if t.AssignedTo != nil {
		if _, ok := s.users[*t.AssignedTo]; !ok {
			return repo.NewConstraintError(repo.ErrReferenceNotFound, "assigned_to")
		}
	}
	return nil
}

// задачи хранятся копиями, чтобы вызывающий код не мог изменить их в обход хранилища
func copyTask(t *task.Task) *task.Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	if t.AssignedTo != nil {
		a := *t.AssignedTo
		c.AssignedTo = &a
	}
	return &c
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
