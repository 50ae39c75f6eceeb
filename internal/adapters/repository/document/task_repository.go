package document

import (
	"context"
	"fmt"

	"github.com/ogurasousui/codex-records-api/internal/core/docstore"
	"github.com/ogurasousui/codex-records-api/internal/core/task"
)

// TaskRepository はドキュメントストアを利用したタスク永続化の実装です。
type TaskRepository struct {
	coll docstore.Collection
}

// NewTaskRepository は TaskRepository を生成します。
func NewTaskRepository(coll docstore.Collection) *TaskRepository {
	return &TaskRepository{coll: coll}
}

// Create はタスクを保存します。
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	doc := docstore.Document{
		"title":     t.Title,
		"status":    string(t.Status),
		"createdAt": utc(t.CreatedAt),
		"updatedAt": utc(t.UpdatedAt),
	}
	if t.Description != nil {
		doc["description"] = *t.Description
	}

	inserted, err := r.coll.Insert(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("document: insert task: %w", err)
	}
	return taskFromDocument(inserted), nil
}

// FindByID は ID でタスクを取得します。
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*task.Task, error) {
	doc, err := r.coll.FindByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, task.ErrTaskNotFound)
	}
	return taskFromDocument(doc), nil
}

// Count は条件に一致するタスク数を返します。
func (r *TaskRepository) Count(ctx context.Context, filter task.ListFilter) (int64, error) {
	n, err := r.coll.Count(ctx, taskFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("document: count tasks: %w", err)
	}
	return n, nil
}

// List は条件に一致するタスクを作成順に返します。
func (r *TaskRepository) List(ctx context.Context, filter task.ListFilter, limit, skip int) ([]*task.Task, error) {
	docs, err := r.coll.Find(ctx, taskFilter(filter), limit, skip)
	if err != nil {
		return nil, fmt.Errorf("document: list tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, taskFromDocument(doc))
	}
	return tasks, nil
}

// Update は patch の非 nil フィールドと更新日時を反映します。
func (r *TaskRepository) Update(ctx context.Context, id string, patch task.Patch) (*task.Task, error) {
	doc := docstore.Document{"updatedAt": utc(patch.UpdatedAt)}
	if patch.Title != nil {
		doc["title"] = *patch.Title
	}
	if patch.Description != nil {
		doc["description"] = *patch.Description
	}
	if patch.Status != nil {
		doc["status"] = string(*patch.Status)
	}

	updated, err := r.coll.UpdateByID(ctx, id, doc)
	if err != nil {
		return nil, translateNotFound(err, task.ErrTaskNotFound)
	}
	return taskFromDocument(updated), nil
}

// Delete はタスクを削除し、削除したタスクを返します。
func (r *TaskRepository) Delete(ctx context.Context, id string) (*task.Task, error) {
	deleted, err := r.coll.DeleteByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, task.ErrTaskNotFound)
	}
	return taskFromDocument(deleted), nil
}

func taskFilter(filter task.ListFilter) docstore.Filter {
	var f docstore.Filter
	if filter.Status != nil {
		f = f.And("status", string(*filter.Status))
	}
	return f
}

func taskFromDocument(doc docstore.Document) *task.Task {
	t := &task.Task{
		ID:        doc.ID(),
		Title:     doc.String("title"),
		Status:    task.Status(doc.String("status")),
		CreatedAt: doc.Time("createdAt"),
		UpdatedAt: doc.Time("updatedAt"),
	}
	if doc.Has("description") && doc["description"] != nil {
		description := doc.String("description")
		t.Description = &description
	}
	return t
}
