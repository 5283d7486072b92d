// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/tasklist"
)

// FakeService is an in-memory implementation of service.Service for testing.
// It stores a copy of the last saved snapshot.
type FakeService struct {
	mu     sync.Mutex
	tasks  []tasklist.Task
	saves  int
	closed bool

	// Error injection for testing
	LoadErr  error
	SaveErr  error
	CloseErr error
}

// NewFakeService creates a FakeService holding the given tasks in order.
func NewFakeService(tasks ...tasklist.Task) *FakeService {
	return &FakeService{tasks: append([]tasklist.Task(nil), tasks...)}
}

// AddTask appends a task to the stored snapshot without sorting.
func (f *FakeService) AddTask(name string, status tasklist.Status, priority int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, tasklist.Task{
		ID:       name,
		Name:     name,
		Status:   status,
		Priority: priority,
	})
}

// Tasks returns the stored snapshot.
func (f *FakeService) Tasks() []tasklist.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tasklist.Task(nil), f.tasks...)
}

// Saves returns how many times Save succeeded.
func (f *FakeService) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

// Closed reports whether Close was called.
func (f *FakeService) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Load implements service.Service.
func (f *FakeService) Load(ctx context.Context) (*tasklist.List, error) {
	if f.LoadErr != nil {
		return nil, f.LoadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return tasklist.NewList(f.tasks...), nil
}

// Save implements service.Service.
func (f *FakeService) Save(ctx context.Context, list *tasklist.List) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = list.Tasks()
	f.saves++
	return nil
}

// Close implements service.Service.
func (f *FakeService) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.CloseErr
}
