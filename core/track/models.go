package track

import (
	"errors"
	"time"

	"github.com/trezcool/kazi/core"
)

var (
	// errors
	ErrCourseNotFound = errors.New("course not found")
	ErrTaskNotFound   = errors.New("task not found")
	ErrCourseExists   = errors.New("a course with this name already exists")
	ErrTaskExists     = errors.New("a task with this name already exists in this course")
)

const dueDateFormat = "Jan 2 at 3:04 PM"

// Course is identified by its display name, unique per user.
// Progress is the last known completion ratio; it is recomputed on every
// data refresh and never mutated by the rendering layer.
type Course struct {
	UserID   string  `json:"-" db:"user_id"`
	Name     string  `json:"name" db:"name"`
	Color    string  `json:"color" db:"color"`
	Progress float64 `json:"progress" db:"progress"`
}

// Task belongs to exactly one Course, referenced by course name.
// Its own name is unique within the course. A nil DueDate is valid: such
// tasks sort last within their bucket and are excluded from window filters.
type Task struct {
	UserID       string     `json:"-" db:"user_id"`
	CourseID     string     `json:"course_id" db:"course_id"`
	Name         string     `json:"name" db:"name"`
	Completed    bool       `json:"completed" db:"completed"`
	DueDate      *time.Time `json:"due_date" db:"due_date"`
	ReminderSent bool       `json:"-" db:"reminder_sent"`
}

// DueLabel returns the human-readable due date rendering, e.g. "Due Jan 7 at 8:00 PM".
func (t Task) DueLabel() string {
	if t.DueDate == nil {
		return "No due date"
	}
	return "Due " + t.DueDate.In(loc).Format(dueDateFormat)
}

// CourseProgress pairs a course with its completion ratio in [0,1].
// Produced fresh on every aggregation pass, never mutated in place.
type CourseProgress struct {
	CourseID string  `json:"course_id"`
	Ratio    float64 `json:"ratio"`
}

// Stats accumulates completed/total task counts.
type Stats struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

func (s Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}

// Percent returns floor(100 * completed / total), or 0 when there are no tasks.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return 100 * s.Completed / s.Total
}

// Progress is the aggregate view handed to the rendering layer.
type Progress struct {
	PerCourse []CourseProgress `json:"per_course"`
	Completed int              `json:"completed"`
	Total     int              `json:"total"`
	Percent   int              `json:"percent"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name  string `json:"name" validate:"required,max=60,alphanum_space"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Color = core.CleanString(nc.Color)
	return core.Validate.Struct(nc)
}

// NewTask contains information needed to create a new Task.
// DueDate is RFC 3339; a missing or malformed value means "no due date".
type NewTask struct {
	Course  string `json:"course" validate:"required"`
	Name    string `json:"name" validate:"required,max=120"`
	DueDate string `json:"due_date"`
}

func (nt *NewTask) Validate() error {
	nt.Course = core.CleanString(nt.Course)
	nt.Name = core.CleanString(nt.Name)
	nt.DueDate = core.CleanString(nt.DueDate)
	return core.Validate.Struct(nt)
}

// Due parses the requested due date. Malformed input is treated as "no due
// date", never as an error.
func (nt NewTask) Due() *time.Time {
	if nt.DueDate == "" {
		return nil
	}
	due, err := time.Parse(time.RFC3339, nt.DueDate)
	if err != nil {
		return nil
	}
	due = due.In(loc)
	return &due
}
