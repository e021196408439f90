package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/models/user"
	"taskManager/internal/repository"
	"taskManager/internal/repository/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(name string) *user.User {
	return &user.User{Username: name, Email: name + "@example.com", FullName: "User " + name}
}

// TestStorage_HealthCheck тестирует проверку здоровья
func TestStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestStorage_CreateUser тестирует создание пользователя
func TestStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	first := newUser("alice")
	require.NoError(t, storage.CreateUser(ctx, first))
	assert.Equal(t, int64(1), first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := newUser("bob")
	require.NoError(t, storage.CreateUser(ctx, second))
	assert.Equal(t, int64(2), second.ID)

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

// TestStorage_CreateUser_Duplicates тестирует уникальность username и email
func TestStorage_CreateUser_Duplicates(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	require.NoError(t, storage.CreateUser(ctx, newUser("alice")))

	err := storage.CreateUser(ctx, &user.User{Username: "alice", Email: "another@example.com", FullName: "A"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "username", repository.ColumnOf(err))

	err = storage.CreateUser(ctx, &user.User{Username: "another", Email: "alice@example.com", FullName: "A"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "email", repository.ColumnOf(err))

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

// TestStorage_CreateTask тестирует создание задачи
func TestStorage_CreateTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	taskToCreate := &task.Task{Title: "Write spec", Status: task.StatusPending}
	require.NoError(t, storage.CreateTask(ctx, taskToCreate))

	assert.Equal(t, int64(1), taskToCreate.ID)
	assert.Equal(t, time.Now().UTC().Format(time.DateOnly), taskToCreate.CreatedAt.Format(time.DateOnly))

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write spec", tasks[0].Title)
}

// TestStorage_CreateTask_Constraints тестирует ограничения при создании задачи
func TestStorage_CreateTask_Constraints(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	missing := int64(42)

	tests := []struct {
		name   string
		task   *task.Task
		target error
		column string
	}{
		{
			name:   "unknown assignee",
			task:   &task.Task{Title: "t", Status: task.StatusPending, AssignedTo: &missing},
			target: repository.ErrReferenceNotFound,
			column: "assigned_to",
		},
		{
			name:   "invalid status",
			task:   &task.Task{Title: "t", Status: "archived"},
			target: repository.ErrInvalidValue,
			column: "status",
		},
		{
			name:   "empty title",
			task:   &task.Task{Title: "  ", Status: task.StatusPending},
			target: repository.ErrInvalidValue,
			column: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := storage.CreateTask(ctx, tt.task)
			require.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.column, repository.ColumnOf(err))
		})
	}

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestStorage_ListTasks_Filters тестирует фильтрацию задач
func TestStorage_ListTasks_Filters(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	first, second := newUser("first"), newUser("second")
	require.NoError(t, storage.CreateUser(ctx, first))
	require.NoError(t, storage.CreateUser(ctx, second))

	for _, tk := range []*task.Task{
		{Title: "a", Status: task.StatusCompleted, AssignedTo: &first.ID},
		{Title: "b", Status: task.StatusCompleted, AssignedTo: &second.ID},
		{Title: "c", Status: task.StatusInProgress, AssignedTo: &first.ID},
		{Title: "d", Status: task.StatusCompleted},
	} {
		require.NoError(t, storage.CreateTask(ctx, tk))
	}

	completed := task.StatusCompleted

	tests := []struct {
		name   string
		filter task.Filter
		titles []string
	}{
		{name: "no filter", filter: task.Filter{}, titles: []string{"a", "b", "c", "d"}},
		{name: "status", filter: task.Filter{Status: &completed}, titles: []string{"a", "b", "d"}},
		{name: "assigned_to", filter: task.Filter{AssignedTo: &first.ID}, titles: []string{"a", "c"}},
		{name: "both", filter: task.Filter{Status: &completed, AssignedTo: &first.ID}, titles: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := storage.ListTasks(ctx, tt.filter)
			require.NoError(t, err)

			titles := make([]string, 0, len(tasks))
			for _, tk := range tasks {
				titles = append(titles, tk.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

// TestStorage_UpdateTask тестирует полную замену задачи
func TestStorage_UpdateTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	owner := newUser("owner")
	require.NoError(t, storage.CreateUser(ctx, owner))

	description := "old"
	original := &task.Task{Title: "Old", Description: &description, Status: task.StatusPending, AssignedTo: &owner.ID}
	require.NoError(t, storage.CreateTask(ctx, original))

	replacement := &task.Task{ID: original.ID, Title: "New", Status: task.StatusCompleted}
	require.NoError(t, storage.UpdateTask(ctx, replacement))
	assert.Equal(t, original.CreatedAt, replacement.CreatedAt)

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "New", tasks[0].Title)
	assert.Equal(t, task.StatusCompleted, tasks[0].Status)
	assert.Nil(t, tasks[0].Description)
	assert.Nil(t, tasks[0].AssignedTo)
}

// TestStorage_UpdateTask_NotFound тестирует обновление несуществующей задачи
func TestStorage_UpdateTask_NotFound(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()
	require.NoError(t, storage.CreateTask(ctx, &task.Task{Title: "keep", Status: task.StatusPending}))

	err := storage.UpdateTask(ctx, &task.Task{ID: 99, Title: "ghost", Status: task.StatusPending})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

// TestStorage_DeleteTask тестирует удаление задачи
func TestStorage_DeleteTask(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	taskToDelete := &task.Task{Title: "temp", Status: task.StatusPending}
	require.NoError(t, storage.CreateTask(ctx, taskToDelete))

	require.NoError(t, storage.DeleteTask(ctx, taskToDelete.ID))
	assert.ErrorIs(t, storage.DeleteTask(ctx, taskToDelete.ID), repository.ErrNotFound)

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

// TestStorage_ReturnsCopies изменения возвращённой задачи не попадают в хранилище
func TestStorage_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	description := "original"
	taskToCreate := &task.Task{Title: "copy", Description: &description, Status: task.StatusPending}
	require.NoError(t, storage.CreateTask(ctx, taskToCreate))
	description = "changed by caller"

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	tasks[0].Title = "mutated"

	tasks, err = storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "copy", tasks[0].Title)
	assert.Equal(t, "original", *tasks[0].Description)
}

// TestStorage_ConcurrentAccess тестирует конкурентный доступ
func TestStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewStorage()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, storage.CreateUser(ctx, newUser(fmt.Sprintf("user%d", i))))
			assert.NoError(t, storage.CreateTask(ctx, &task.Task{Title: fmt.Sprintf("task%d", i), Status: task.StatusPending}))
			_, err := storage.ListTasks(ctx, task.Filter{})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	users, err := storage.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 50)

	tasks, err := storage.ListTasks(ctx, task.Filter{})
	require.NoError(t, err)
	assert.Len(t, tasks, 50)

	seen := make(map[int64]bool)
	for _, tk := range tasks {
		assert.False(t, seen[tk.ID], "duplicate id %d", tk.ID)
		seen[tk.ID] = true
	}
}
