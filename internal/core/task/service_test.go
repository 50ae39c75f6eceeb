package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/core/apperr"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeTaskRepo struct {
	tasks    map[string]*Task
	order    []string
	sequence int
	countErr error
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*Task)}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *Task) (*Task, error) {
	clone := cloneTask(t)
	r.sequence++
	clone.ID = fmt.Sprintf("task-%d", r.sequence)
	r.tasks[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneTask(clone), nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id string) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *fakeTaskRepo) matching(filter ListFilter) []*Task {
	var out []*Task
	for _, id := range r.order {
		t := r.tasks[id]
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return out
}

func (r *fakeTaskRepo) Count(_ context.Context, filter ListFilter) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.matching(filter))), nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter ListFilter, limit, skip int) ([]*Task, error) {
	all := r.matching(filter)
	if skip >= len(all) {
		return []*Task{}, nil
	}
	end := skip + limit
	if end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *fakeTaskRepo) Update(_ context.Context, id string, patch Patch) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = cloneString(patch.Description)
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	t.UpdatedAt = patch.UpdatedAt
	return cloneTask(t), nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) (*Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	delete(r.tasks, id)
	for idx, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return t, nil
}

func cloneTask(t *Task) *Task {
	if t == nil {
		return nil
	}
	copy := *t
	copy.Description = cloneString(t.Description)
	return &copy
}

func statusPtr(s Status) *Status {
	return &s
}

func TestService_TaskLifecycle(t *testing.T) {
	t.Parallel()

	repo := newFakeTaskRepo()
	clk := &stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(repo, clk, nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskInput{Title: "A"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}
	if created.Status != StatusOpen {
		t.Fatalf("expected default status OPEN, got %s", created.Status)
	}
	if !created.CreatedAt.Equal(clk.now) || !created.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected timestamps to use clock now")
	}

	clk.now = clk.now.Add(time.Hour)
	if _, err := svc.UpdateTask(ctx, UpdateTaskInput{ID: created.ID, Status: statusPtr(StatusDone)}); err != nil {
		t.Fatalf("UpdateTask returned error: %v", err)
	}

	found, err := svc.GetTask(ctx, GetTaskInput{ID: created.ID})
	if err != nil {
		t.Fatalf("GetTask returned error: %v", err)
	}
	if found.Status != StatusDone {
		t.Fatalf("expected status DONE, got %s", found.Status)
	}
	if found.Title != "A" {
		t.Fatalf("partial update must keep title, got %q", found.Title)
	}
	if !found.UpdatedAt.Equal(clk.now) {
		t.Fatalf("expected updated timestamp to use clock")
	}

	if _, err := svc.DeleteTask(ctx, DeleteTaskInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}

	_, err = svc.GetTask(ctx, GetTaskInput{ID: created.ID})
	if !errors.Is(err, ErrTaskNotFound) || !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestService_CreateTask_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeTaskRepo(), nil, nil)

	if _, err := svc.CreateTask(context.Background(), CreateTaskInput{Title: "   "}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	if _, err := svc.CreateTask(context.Background(), CreateTaskInput{Title: "x", Status: statusPtr("CLOSED")}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestService_UpdateTask_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeTaskRepo(), nil, nil)
	title := "B"

	_, err := svc.UpdateTask(context.Background(), UpdateTaskInput{ID: "missing", Title: &title})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}

	if _, err := svc.UpdateTask(context.Background(), UpdateTaskInput{ID: " "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_DeleteTask_Twice(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeTaskRepo(), nil, nil)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, CreateTaskInput{Title: "to delete"})
	if err != nil {
		t.Fatalf("CreateTask returned error: %v", err)
	}

	if _, err := svc.DeleteTask(ctx, DeleteTaskInput{ID: created.ID}); err != nil {
		t.Fatalf("first delete returned error: %v", err)
	}
	if _, err := svc.DeleteTask(ctx, DeleteTaskInput{ID: created.ID}); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected second delete to fail with ErrTaskNotFound, got %v", err)
	}
}

func TestService_ListTasks_FilterAndPagination(t *testing.T) {
	t.Parallel()

	repo := newFakeTaskRepo()
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	statuses := []Status{StatusOpen, StatusDone, StatusOpen, StatusOpen, StatusInProgress}
	for i, st := range statuses {
		if _, err := svc.CreateTask(ctx, CreateTaskInput{Title: fmt.Sprintf("t%d", i), Status: statusPtr(st)}); err != nil {
			t.Fatalf("seed error: %v", err)
		}
	}

	open := StatusOpen
	page, err := svc.ListTasks(ctx, ListTasksInput{Page: "2", Limit: "2", Status: &open})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if page.TotalCount != 3 || page.TotalPages != 2 || page.CurrentPage != 2 {
		t.Fatalf("unexpected envelope: %+v", page)
	}
	if len(page.Data) != 1 || page.Data[0].Title != "t3" {
		t.Fatalf("unexpected page data: %+v", page.Data)
	}

	all, err := svc.ListTasks(ctx, ListTasksInput{})
	if err != nil {
		t.Fatalf("ListTasks returned error: %v", err)
	}
	if all.TotalCount != 5 || all.TotalPages != 1 || len(all.Data) != 5 {
		t.Fatalf("unexpected unfiltered envelope: %+v", all)
	}
}

func TestService_ListTasks_CountFailure(t *testing.T) {
	t.Parallel()

	repo := newFakeTaskRepo()
	repo.countErr = errors.New("store unavailable")
	svc := NewService(repo, nil, nil)

	if _, err := svc.ListTasks(context.Background(), ListTasksInput{}); !errors.Is(err, repo.countErr) {
		t.Fatalf("expected count failure to fail the list, got %v", err)
	}
}
