package inmemdb

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/student"
)

var ErrDuplicateID = errors.New("a student with this ID already exists")

type StudentRepository struct {
	db *studentTable
}

var _ student.Repository = (*StudentRepository)(nil)

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db.student}
}

func (repo *StudentRepository) CreateStudents(students ...student.Student) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, s := range students {
		if _, ok := repo.db.table[s.ID]; ok {
			return errors.Wrapf(ErrDuplicateID, "student %d", s.ID)
		}
		s := s
		repo.db.table[s.ID] = &s
		repo.db.order = append(repo.db.order, s.ID)
	}
	return nil
}

func (repo *StudentRepository) QueryAll(ctx context.Context) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		students = append(students, *repo.db.table[id])
	}
	return students, nil
}

func (repo *StudentRepository) GetByID(ctx context.Context, id int) (student.Student, error) {
	if err := ctx.Err(); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}
