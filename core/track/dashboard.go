package track

import (
	"sort"
	"time"
)

// Display buckets; lower sorts first.
const (
	bucketOverdue = iota
	bucketInProgress
	bucketCompleted
)

func taskBucket(t Task, now time.Time) int {
	switch {
	case !t.Completed && t.DueDate != nil && t.DueDate.Before(now):
		return bucketOverdue
	case !t.Completed:
		return bucketInProgress
	default:
		return bucketCompleted
	}
}

// Dashboard is the weekly progress engine for one user: the current window
// plus the last refreshed course/task snapshot. Every view is a pure
// recomputation from that state; calling a view twice with identical inputs
// yields identical output. It is driven from a single logical thread of
// control and holds no locks.
type Dashboard struct {
	week    Week
	courses []Course
	tasks   []Task
}

// NewDashboard starts on the window containing now.
func NewDashboard(now time.Time) *Dashboard {
	return &Dashboard{week: StartOfWeek(now)}
}

// SetData replaces the course/task snapshot, typically after a refresh.
// Courses are kept in name order so derived views are stably ordered.
func (d *Dashboard) SetData(courses []Course, tasks []Task) {
	courses = append([]Course(nil), courses...)
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	d.courses = courses
	d.tasks = append([]Task(nil), tasks...)
}

func (d *Dashboard) Week() Week        { return d.week }
func (d *Dashboard) WeekLabel() string { return d.week.Label() }
func (d *Dashboard) Courses() []Course { return d.courses }

func (d *Dashboard) NextWeek()     { d.week = d.week.Next() }
func (d *Dashboard) PreviousWeek() { d.week = d.week.Previous() }

// WeeklyTasks returns the tasks due inside the current window, all courses.
// Tasks without a due date are excluded. This is the basis set for display,
// statistics and the reminder scan.
func (d *Dashboard) WeeklyTasks() []Task {
	weekly := make([]Task, 0, len(d.tasks))
	for _, t := range d.tasks {
		if t.DueDate != nil && d.week.Contains(*t.DueDate) {
			weekly = append(weekly, t)
		}
	}
	return weekly
}

// DisplayTasks returns the incomplete weekly tasks matching the course
// filter ("" = all courses), ordered by (bucket, due date asc); within a
// bucket, tasks lacking a due date sort after all tasks that have one.
// The sort is stable for equal keys.
func (d *Dashboard) DisplayTasks(courseID string, now time.Time) []Task {
	weekly := d.WeeklyTasks()
	display := make([]Task, 0, len(weekly))
	for _, t := range weekly {
		if (courseID == "" || t.CourseID == courseID) && !t.Completed {
			display = append(display, t)
		}
	}

	sort.SliceStable(display, func(i, j int) bool {
		bi, bj := taskBucket(display[i], now), taskBucket(display[j], now)
		if bi != bj {
			return bi < bj
		}
		di, dj := display[i].DueDate, display[j].DueDate
		switch {
		case di == nil:
			return false // nil due dates sort last
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return display
}

// PerCourseStats accumulates (completed, total) over each course's weekly
// tasks. Every known course reports, courses with zero weekly tasks as (0,0).
func (d *Dashboard) PerCourseStats() map[string]Stats {
	stats := make(map[string]Stats, len(d.courses))
	for _, c := range d.courses {
		stats[c.Name] = Stats{}
	}
	for _, t := range d.WeeklyTasks() {
		s := stats[t.CourseID]
		s.Total++
		if t.Completed {
			s.Completed++
		}
		stats[t.CourseID] = s
	}
	return stats
}

// AggregateStats sums PerCourseStats across all courses when courseID is
// empty, otherwise returns the single course's pair.
func (d *Dashboard) AggregateStats(courseID string) Stats {
	stats := d.PerCourseStats()
	if courseID != "" {
		return stats[courseID]
	}
	var agg Stats
	for _, s := range stats {
		agg.Completed += s.Completed
		agg.Total += s.Total
	}
	return agg
}

// Progress builds the aggregate view for the rendering layer: one ratio per
// course in stable (name) order, plus the overall pair for the course filter.
func (d *Dashboard) Progress(courseID string) Progress {
	stats := d.PerCourseStats()
	perCourse := make([]CourseProgress, 0, len(d.courses))
	for _, c := range d.courses {
		perCourse = append(perCourse, CourseProgress{CourseID: c.Name, Ratio: clampRatio(stats[c.Name].Ratio())})
	}

	agg := d.AggregateStats(courseID)
	return Progress{
		PerCourse: perCourse,
		Completed: agg.Completed,
		Total:     agg.Total,
		Percent:   agg.Percent(),
	}
}

func clampRatio(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
