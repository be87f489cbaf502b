// Package inmemdb keeps student records in memory. Used by tests & demos.
package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-dashboard/core/student"
)

type studentTable struct {
	mutex sync.RWMutex
	table map[int]*student.Student
	order []int // insertion order
}

type DB struct {
	student *studentTable
}

func Open() *DB {
	return &DB{
		student: &studentTable{table: make(map[int]*student.Student)},
	}
}
