// Package sqlxrepos implements the storage contracts on PostgreSQL.
package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/track"
)

type trackRepository struct {
	db *sqlx.DB
}

func NewTrackRepository(db *sqlx.DB) track.Repository {
	return &trackRepository{db: db}
}

func (repo *trackRepository) CheckCourseUniqueness(userID, name string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM course WHERE user_id = $1 AND name = $2)`
	if err := repo.db.Get(&exists, query, userID, name); err != nil {
		return errors.Wrap(err, "checking course uniqueness")
	}
	if exists {
		return track.ErrCourseExists
	}
	return nil
}

func (repo *trackRepository) CreateCourse(course track.Course) (track.Course, error) {
	query := `
		INSERT INTO course (user_id, name, color, progress)
		VALUES (:user_id, :name, :color, :progress)`
	if _, err := repo.db.NamedExec(query, course); err != nil {
		return track.Course{}, errors.Wrap(err, "creating course")
	}
	return course, nil
}

func (repo *trackRepository) QueryCourses(userID string) ([]track.Course, error) {
	var courses []track.Course
	query := `SELECT * FROM course WHERE user_id = $1 ORDER BY name`
	if err := repo.db.Select(&courses, query, userID); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *trackRepository) UpdateCourseProgress(userID, name string, progress float64) error {
	res, err := repo.db.Exec(`UPDATE course SET progress = $1 WHERE user_id = $2 AND name = $3`, progress, userID, name)
	if err != nil {
		return errors.Wrap(err, "updating course progress")
	}
	return checkAffected(res, track.ErrCourseNotFound)
}

func (repo *trackRepository) DeleteCourse(userID, name string) error {
	// tasks cascade via FK
	res, err := repo.db.Exec(`DELETE FROM course WHERE user_id = $1 AND name = $2`, userID, name)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return checkAffected(res, track.ErrCourseNotFound)
}

func (repo *trackRepository) CheckTaskUniqueness(userID, course, name string) error {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM task WHERE user_id = $1 AND course_id = $2 AND name = $3)`
	if err := repo.db.Get(&exists, query, userID, course, name); err != nil {
		return errors.Wrap(err, "checking task uniqueness")
	}
	if exists {
		return track.ErrTaskExists
	}
	return nil
}

func (repo *trackRepository) CreateTask(task track.Task) (track.Task, error) {
	query := `
		INSERT INTO task (user_id, course_id, name, completed, due_date, reminder_sent)
		VALUES (:user_id, :course_id, :name, :completed, :due_date, :reminder_sent)`
	if _, err := repo.db.NamedExec(query, task); err != nil {
		return track.Task{}, errors.Wrap(err, "creating task")
	}
	return task, nil
}

func (repo *trackRepository) QueryCourseTasks(userID, course string) ([]track.Task, error) {
	var tasks []track.Task
	query := `SELECT * FROM task WHERE user_id = $1 AND course_id = $2 ORDER BY name`
	if err := repo.db.Select(&tasks, query, userID, course); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	return tasks, nil
}

func (repo *trackRepository) SetTaskCompleted(userID, course, name string, completed bool) error {
	query := `UPDATE task SET completed = $1 WHERE user_id = $2 AND course_id = $3 AND name = $4`
	res, err := repo.db.Exec(query, completed, userID, course, name)
	if err != nil {
		return errors.Wrap(err, "updating task")
	}
	return checkAffected(res, track.ErrTaskNotFound)
}

func (repo *trackRepository) GetTaskReminderSent(userID, course, name string) (bool, error) {
	var sent bool
	query := `SELECT reminder_sent FROM task WHERE user_id = $1 AND course_id = $2 AND name = $3`
	if err := repo.db.Get(&sent, query, userID, course, name); err != nil {
		if err == sql.ErrNoRows {
			return false, track.ErrTaskNotFound
		}
		return false, errors.Wrap(err, "getting reminder flag")
	}
	return sent, nil
}

func (repo *trackRepository) SetTaskReminderSent(userID, course, name string, sent bool) error {
	query := `UPDATE task SET reminder_sent = $1 WHERE user_id = $2 AND course_id = $3 AND name = $4`
	res, err := repo.db.Exec(query, sent, userID, course, name)
	if err != nil {
		return errors.Wrap(err, "updating reminder flag")
	}
	return checkAffected(res, track.ErrTaskNotFound)
}

func (repo *trackRepository) DeleteTask(userID, course, name string) error {
	query := `DELETE FROM task WHERE user_id = $1 AND course_id = $2 AND name = $3`
	res, err := repo.db.Exec(query, userID, course, name)
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return checkAffected(res, track.ErrTaskNotFound)
}

func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
