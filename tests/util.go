package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo track.Repository, userID, name, color string) track.Course {
	course, err := repo.CreateCourse(track.Course{UserID: userID, Name: name, Color: color})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

func CreateTask(
	t *testing.T,
	repo track.Repository,
	userID, course, name string,
	completed bool,
	dueDate *time.Time,
) track.Task {
	task, err := repo.CreateTask(track.Task{
		UserID:    userID,
		CourseID:  course,
		Name:      name,
		Completed: completed,
		DueDate:   dueDate,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	return task
}
