package track

import (
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/user"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		CheckCourseUniqueness(userID, name string) error
		CreateCourse(course Course) (Course, error)
		QueryCourses(userID string) ([]Course, error)
		UpdateCourseProgress(userID, name string, progress float64) error
		DeleteCourse(userID, name string) error

		CheckTaskUniqueness(userID, course, name string) error
		CreateTask(task Task) (Task, error)
		QueryCourseTasks(userID, course string) ([]Task, error)
		SetTaskCompleted(userID, course, name string, completed bool) error
		GetTaskReminderSent(userID, course, name string) (bool, error)
		SetTaskReminderSent(userID, course, name string, sent bool) error
		DeleteTask(userID, course, name string) error
	}

	Service struct {
		repo         Repository
		mailSvc      core.EmailService
		logger       core.Logger
		conf         *core.Config
		reminderLead time.Duration
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	lead := conf.ReminderLead
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	return &Service{
		repo:         repo,
		mailSvc:      mailSvc,
		logger:       logger,
		conf:         conf,
		reminderLead: lead,
	}
}

// PartialError reports courses whose task fetch failed during a refresh.
// The refresh still returns the data that did load.
type PartialError struct {
	Failed map[string]error
}

func (err PartialError) Error() string {
	names := make([]string, 0, len(err.Failed))
	for name := range err.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("loading tasks failed for %d course(s): %v", len(names), names)
}

// Refresh loads the user's full course/task set and recomputes each course's
// completion ratio. One course failing to load does not block the others;
// failures are collected into a *PartialError alongside the loaded data.
func (svc *Service) Refresh(userID string) ([]Course, []Task, error) {
	courses, err := svc.repo.QueryCourses(userID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying courses")
	}

	var allTasks []Task
	failed := make(map[string]error)
	for i, c := range courses {
		tasks, err := svc.repo.QueryCourseTasks(userID, c.Name)
		if err != nil {
			failed[c.Name] = err
			continue
		}

		var completed int
		for _, t := range tasks {
			if t.Completed {
				completed++
			}
		}
		progress := Stats{Completed: completed, Total: len(tasks)}.Ratio()
		courses[i].Progress = progress
		if err := svc.repo.UpdateCourseProgress(userID, c.Name, progress); err != nil {
			svc.logger.Warn(fmt.Sprintf("persisting progress for course %q: %v", c.Name, err))
		}

		allTasks = append(allTasks, tasks...)
	}

	if len(failed) > 0 {
		return courses, allTasks, &PartialError{Failed: failed}
	}
	return courses, allTasks, nil
}

func (svc *Service) CreateCourse(userID string, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	if err := svc.repo.CheckCourseUniqueness(userID, nc.Name); err != nil {
		if err == ErrCourseExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return Course{}, err
	}

	color := nc.Color
	if color == "" {
		existing, err := svc.repo.QueryCourses(userID)
		if err != nil {
			return Course{}, errors.Wrap(err, "querying courses")
		}
		color = PickColor(len(existing))
	}
	return svc.repo.CreateCourse(Course{UserID: userID, Name: nc.Name, Color: color})
}

func (svc *Service) CreateTask(userID string, nt NewTask) (Task, error) {
	if err := nt.Validate(); err != nil {
		return Task{}, err
	}
	if err := svc.repo.CheckTaskUniqueness(userID, nt.Course, nt.Name); err != nil {
		if err == ErrTaskExists {
			return Task{}, core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return Task{}, err
	}
	return svc.repo.CreateTask(Task{
		UserID:   userID,
		CourseID: nt.Course,
		Name:     nt.Name,
		DueDate:  nt.Due(),
	})
}

func (svc *Service) CompleteTask(userID, course, name string) error {
	return svc.repo.SetTaskCompleted(userID, course, name, true)
}

func (svc *Service) DeleteTask(userID, course, name string) error {
	return svc.repo.DeleteTask(userID, course, name)
}

func (svc *Service) DeleteCourse(userID, name string) error {
	return svc.repo.DeleteCourse(userID, name)
}

// RunReminderScan dispatches one reminder per due-soon task in the given
// weekly set (all courses, unfiltered). The persisted "reminder sent" flag
// is re-read for each candidate since it may have changed since the last
// refresh. The read-send-write sequence is not atomic against concurrent
// scans, so the guarantee is at-most-once best-effort: a failed dispatch
// leaves the flag unset to be retried on the next scan, while a failed flag
// write after a successful send may produce one duplicate.
func (svc *Service) RunReminderScan(usr user.User, tasks []Task) error {
	now := NowFunc().In(loc)
	cutoff := now.Add(svc.reminderLead)

	var lastErr error
	for _, t := range tasks {
		if t.Completed || t.DueDate == nil || !t.DueDate.After(now) || !t.DueDate.Before(cutoff) {
			continue
		}

		sent, err := svc.repo.GetTaskReminderSent(usr.ID, t.CourseID, t.Name)
		if err != nil {
			svc.logger.Warn(fmt.Sprintf("reading reminder flag for task %q: %v", t.Name, err))
			lastErr = err
			continue
		}
		if sent {
			continue
		}

		if err := svc.mailSvc.SendMessages(svc.reminderMessage(usr, t)); err != nil {
			// flag stays unset so the next scan retries this task
			svc.logger.Error(fmt.Sprintf("sending reminder for task %q: %v", t.Name, err))
			lastErr = err
			continue
		}
		if err := svc.repo.SetTaskReminderSent(usr.ID, t.CourseID, t.Name, true); err != nil {
			svc.logger.Warn(fmt.Sprintf("persisting reminder flag for task %q (duplicate possible): %v", t.Name, err))
			lastErr = err
		}
	}
	return lastErr
}

func (svc *Service) reminderMessage(usr user.User, t Task) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("Reminder: %q is due soon for %s", t.Name, t.CourseID),
		TemplateName: "task-reminder",
		TemplateData: struct {
			Course string
			Task   string
			Due    string
		}{
			Course: t.CourseID,
			Task:   t.Name,
			Due:    t.DueLabel(),
		},
	}
}
