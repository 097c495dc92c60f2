// Package inmemdb is an in-memory storage backend for development and tests.
package inmemdb

import (
	"sync"

	"github.com/trezcool/kazi/core/track"
	"github.com/trezcool/kazi/core/user"
)

type taskID struct {
	course string
	name   string
}

type DB struct {
	mutex   sync.RWMutex
	users   map[string]*user.User               // id -> user
	courses map[string]map[string]*track.Course // userID -> name -> course
	tasks   map[string]map[taskID]*track.Task   // userID -> (course, name) -> task
}

func Open() (*DB, error) {
	return &DB{
		users:   make(map[string]*user.User),
		courses: make(map[string]map[string]*track.Course),
		tasks:   make(map[string]map[taskID]*track.Task),
	}, nil
}
