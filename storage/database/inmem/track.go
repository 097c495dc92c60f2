package inmemdb

import (
	"sort"

	"github.com/trezcool/kazi/core/track"
)

type trackRepository struct {
	db *DB
}

func NewTrackRepository(db *DB) track.Repository {
	return &trackRepository{db: db}
}

func (repo *trackRepository) CheckCourseUniqueness(userID, name string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.courses[userID][name]; ok {
		return track.ErrCourseExists
	}
	return nil
}

func (repo *trackRepository) CreateCourse(course track.Course) (track.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if repo.db.courses[course.UserID] == nil {
		repo.db.courses[course.UserID] = make(map[string]*track.Course)
	}
	repo.db.courses[course.UserID][course.Name] = &course
	return course, nil
}

func (repo *trackRepository) QueryCourses(userID string) ([]track.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]track.Course, 0, len(repo.db.courses[userID]))
	for _, c := range repo.db.courses[userID] {
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *trackRepository) UpdateCourseProgress(userID, name string, progress float64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	course, ok := repo.db.courses[userID][name]
	if !ok {
		return track.ErrCourseNotFound
	}
	course.Progress = progress
	return nil
}

func (repo *trackRepository) DeleteCourse(userID, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[userID][name]; !ok {
		return track.ErrCourseNotFound
	}
	delete(repo.db.courses[userID], name)

	// cascade the course's tasks
	for id := range repo.db.tasks[userID] {
		if id.course == name {
			delete(repo.db.tasks[userID], id)
		}
	}
	return nil
}

func (repo *trackRepository) CheckTaskUniqueness(userID, course, name string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.tasks[userID][taskID{course, name}]; ok {
		return track.ErrTaskExists
	}
	return nil
}

func (repo *trackRepository) CreateTask(task track.Task) (track.Task, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.courses[task.UserID][task.CourseID]; !ok {
		return track.Task{}, track.ErrCourseNotFound
	}
	if repo.db.tasks[task.UserID] == nil {
		repo.db.tasks[task.UserID] = make(map[taskID]*track.Task)
	}
	repo.db.tasks[task.UserID][taskID{task.CourseID, task.Name}] = &task
	return task, nil
}

func (repo *trackRepository) QueryCourseTasks(userID, course string) ([]track.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.courses[userID][course]; !ok {
		return nil, track.ErrCourseNotFound
	}
	tasks := make([]track.Task, 0)
	for id, t := range repo.db.tasks[userID] {
		if id.course == course {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Name < tasks[j].Name })
	return tasks, nil
}

func (repo *trackRepository) SetTaskCompleted(userID, course, name string, completed bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	task, ok := repo.db.tasks[userID][taskID{course, name}]
	if !ok {
		return track.ErrTaskNotFound
	}
	task.Completed = completed
	return nil
}

func (repo *trackRepository) GetTaskReminderSent(userID, course, name string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	task, ok := repo.db.tasks[userID][taskID{course, name}]
	if !ok {
		return false, track.ErrTaskNotFound
	}
	return task.ReminderSent, nil
}

func (repo *trackRepository) SetTaskReminderSent(userID, course, name string, sent bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	task, ok := repo.db.tasks[userID][taskID{course, name}]
	if !ok {
		return track.ErrTaskNotFound
	}
	task.ReminderSent = sent
	return nil
}

func (repo *trackRepository) DeleteTask(userID, course, name string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.tasks[userID][taskID{course, name}]; !ok {
		return track.ErrTaskNotFound
	}
	delete(repo.db.tasks[userID], taskID{course, name})
	return nil
}
