package service

import (
	"errors"
	"testing"
	"time"

	"github.com/focusup/internal/db"
)

func TestTodoCreateAndList(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTodoService(db.DB)

	if _, err := svc.Create(1, TodoInput{TaskName: "  "}); !errors.Is(err, ErrTodoInvalidInput) {
		t.Fatalf("expected ErrTodoInvalidInput for blank name, got %v", err)
	}

	todo, err := svc.Create(1, TodoInput{TaskName: "整理周报"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if todo.IsCompleted {
		t.Fatal("new todo should not be completed")
	}
	if todo.CompletedAt != nil {
		t.Fatal("new todo should not have completedAt")
	}

	todos, err := svc.List(1)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(todos) != 1 {
		t.Fatalf("expected 1 todo, got %d", len(todos))
	}
}

func TestTodoToggleMaintainsCompletedAt(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTodoService(db.DB)
	todo, err := svc.Create(1, TodoInput{TaskName: "修复登录问题"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	now := time.Date(2025, 7, 10, 15, 0, 0, 0, time.Local)
	done := true
	completed, err := svc.Update(todo.ID, 1, TodoInput{IsCompleted: &done}, now)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !completed.IsCompleted {
		t.Fatal("expected todo to be completed")
	}
	if completed.CompletedAt == nil || !completed.CompletedAt.Equal(now) {
		t.Fatalf("expected completedAt %v, got %v", now, completed.CompletedAt)
	}

	// 翻回未完成时清空 CompletedAt
	undone := false
	reopened, err := svc.Update(todo.ID, 1, TodoInput{IsCompleted: &undone}, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if reopened.IsCompleted || reopened.CompletedAt != nil {
		t.Fatalf("expected todo reopened without completedAt, got %v/%v", reopened.IsCompleted, reopened.CompletedAt)
	}

	// 空名称保留原值
	renamed, err := svc.Update(todo.ID, 1, TodoInput{TaskName: ""}, now)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if renamed.TaskName != "修复登录问题" {
		t.Fatalf("blank name should keep old value, got %s", renamed.TaskName)
	}
}

func TestTodoOwnerScopingAndCount(t *testing.T) {
	cleanup := setupTestDB(t)
	defer cleanup()

	svc := NewTodoService(db.DB)
	todo, err := svc.Create(1, TodoInput{TaskName: "买菜"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Update(todo.ID, 2, TodoInput{TaskName: "偷改"}, time.Now()); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound for other user, got %v", err)
	}
	if err := svc.Delete(todo.ID, 2); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("expected ErrTodoNotFound on foreign delete, got %v", err)
	}

	now := time.Date(2025, 7, 10, 10, 0, 0, 0, time.Local)
	done := true
	if _, err := svc.Update(todo.ID, 1, TodoInput{IsCompleted: &done}, now.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	within, err := svc.CompletedCountSince(1, now.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("CompletedCountSince returned error: %v", err)
	}
	if within != 1 {
		t.Fatalf("expected 1 completed todo in window, got %d", within)
	}

	outside, err := svc.CompletedCountSince(1, now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("CompletedCountSince returned error: %v", err)
	}
	if outside != 0 {
		t.Fatalf("expected 0 completed todos in narrow window, got %d", outside)
	}
}
