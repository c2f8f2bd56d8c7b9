// Package inmemdb is a throwaway in-memory store for tests and local hacking.
package inmemdb

import (
	"sync"

	"github.com/trezcool/sajili/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	// studentTable keeps records in insertion order.
	studentTable struct {
		sync.RWMutex
		rows []*student.Student
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{rows: make([]*student.Student, 0)},
	}
	return db, nil
}
