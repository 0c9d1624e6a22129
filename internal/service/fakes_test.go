package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/gestion-etudiants-api/internal/models"
	"github.com/noah-isme/gestion-etudiants-api/pkg/database"
	appErrors "github.com/noah-isme/gestion-etudiants-api/pkg/errors"
)

// memStore keeps the three tables in memory and enforces the schema constraints.
type memStore struct {
	mu          sync.Mutex
	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[int64]models.Enrollment
	nextID      int64
	clock       time.Time
	failWith    error
}

func newMemStore() *memStore {
	return &memStore{
		students:    map[int64]models.Student{},
		courses:     map[int64]models.Course{},
		enrollments: map[int64]models.Enrollment{},
		clock:       time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func uniqueErr(constraint string) error {
	return &pq.Error{Code: "23505", Constraint: constraint}
}

func fkErr(constraint string) error {
	return &pq.Error{Code: "23503", Constraint: constraint}
}

type mockStudentRepo struct{ *memStore }

func (m mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []models.Student{}
	for _, s := range m.students {
		if filter.Nom != "" && !strings.Contains(strings.ToLower(s.Nom), strings.ToLower(filter.Nom)) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nom < out[j].Nom })
	return out, nil
}

func (m mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (m mockStudentRepo) FindByMatriculeOrEmail(ctx context.Context, matricule, email string, excludeID int64) (*models.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var byEmail *models.Student
	for _, s := range m.students {
		if s.ID == excludeID {
			continue
		}
		if s.Matricule == matricule {
			cp := s
			return &cp, nil
		}
		if s.Email == email && byEmail == nil {
			cp := s
			byEmail = &cp
		}
	}
	return byEmail, nil
}

func (m mockStudentRepo) checkUnique(student *models.Student) error {
	for _, s := range m.students {
		if s.ID == student.ID {
			continue
		}
		if s.Matricule == student.Matricule {
			return uniqueErr(database.ConstraintStudentMatricule)
		}
		if s.Email == student.Email {
			return uniqueErr(database.ConstraintStudentEmail)
		}
	}
	return nil
}

func (m mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUnique(student); err != nil {
		return err
	}
	student.ID = m.id()
	student.CreatedAt = m.tick()
	m.students[student.ID] = *student
	return nil
}

func (m mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	if err := m.checkUnique(student); err != nil {
		return err
	}
	m.students[student.ID] = *student
	return nil
}

func (m mockStudentRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	for eid, e := range m.enrollments {
		if e.EtudiantID == id {
			delete(m.enrollments, eid)
		}
	}
	return nil
}

type mockCourseRepo struct{ *memStore }

func (m mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Course{}
	for _, c := range m.courses {
		if filter.Professeur != "" && !strings.Contains(strings.ToLower(c.Professeur), strings.ToLower(filter.Professeur)) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Intitule < out[j].Intitule })
	return out, nil
}

func (m mockCourseRepo) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &c, nil
}

func (m mockCourseRepo) FindByCode(ctx context.Context, code string, excludeID int64) (*models.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Code == code && c.ID != excludeID {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if c.Code == course.Code {
			return uniqueErr(database.ConstraintCourseCode)
		}
	}
	course.ID = m.id()
	course.CreatedAt = m.tick()
	m.courses[course.ID] = *course
	return nil
}

func (m mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	m.courses[course.ID] = *course
	return nil
}

func (m mockCourseRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	for _, e := range m.enrollments {
		if e.CoursID == id {
			return fkErr(database.ConstraintEnrollmentCourse)
		}
	}
	delete(m.courses, id)
	return nil
}

type mockEnrollmentRepo struct{ *memStore }

func (m mockEnrollmentRepo) sorted() []models.Enrollment {
	out := make([]models.Enrollment, 0, len(m.enrollments))
	for _, e := range m.enrollments {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateInscription.After(out[j].DateInscription) })
	return out
}

func (m mockEnrollmentRepo) detail(e models.Enrollment) models.EnrollmentDetail {
	return models.EnrollmentDetail{Enrollment: e, Etudiant: m.students[e.EtudiantID], Cours: m.courses[e.CoursID]}
}

func (m mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.EnrollmentDetail{}
	for _, e := range m.sorted() {
		if filter.AnneeAcademique != "" && e.AnneeAcademique != filter.AnneeAcademique {
			continue
		}
		if filter.Semestre != 0 && e.Semestre != filter.Semestre {
			continue
		}
		if filter.EtudiantID != 0 && e.EtudiantID != filter.EtudiantID {
			continue
		}
		if filter.CoursID != 0 && e.CoursID != filter.CoursID {
			continue
		}
		out = append(out, m.detail(e))
	}
	return out, nil
}

func (m mockEnrollmentRepo) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &e, nil
}

func (m mockEnrollmentRepo) FindDetailByID(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := m.detail(e)
	return &d, nil
}

func (m mockEnrollmentRepo) Exists(ctx context.Context, key models.EnrollmentKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.enrollments {
		if e.EtudiantID == key.EtudiantID && e.CoursID == key.CoursID && e.AnneeAcademique == key.AnneeAcademique && e.Semestre == key.Semestre {
			return true, nil
		}
	}
	return false, nil
}

func (m mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.students[enrollment.EtudiantID]; !ok {
		return fkErr(database.ConstraintEnrollmentStudent)
	}
	if _, ok := m.courses[enrollment.CoursID]; !ok {
		return fkErr(database.ConstraintEnrollmentCourse)
	}
	for _, e := range m.enrollments {
		if e.EtudiantID == enrollment.EtudiantID && e.CoursID == enrollment.CoursID && e.AnneeAcademique == enrollment.AnneeAcademique && e.Semestre == enrollment.Semestre {
			return uniqueErr(database.ConstraintEnrollmentPeriod)
		}
	}
	enrollment.ID = m.id()
	enrollment.DateInscription = m.tick()
	m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (m mockEnrollmentRepo) UpdateNote(ctx context.Context, id int64, note *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.Note = note
	m.enrollments[id] = e
	return nil
}

func (m mockEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.enrollments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.enrollments, id)
	return nil
}

func (m mockEnrollmentRepo) ListByStudents(ctx context.Context, ids []int64) ([]models.EnrollmentWithCourse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.EnrollmentWithCourse{}
	for _, e := range m.sorted() {
		if wanted[e.EtudiantID] {
			out = append(out, models.EnrollmentWithCourse{Enrollment: e, Cours: m.courses[e.CoursID]})
		}
	}
	return out, nil
}

func (m mockEnrollmentRepo) ListByCourses(ctx context.Context, ids []int64) ([]models.EnrollmentWithStudent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := []models.EnrollmentWithStudent{}
	for _, e := range m.sorted() {
		if wanted[e.CoursID] {
			out = append(out, models.EnrollmentWithStudent{Enrollment: e, Etudiant: m.students[e.EtudiantID]})
		}
	}
	return out, nil
}

func (m mockEnrollmentRepo) Totals(ctx context.Context, annee string) (models.EnrollmentTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	students, courses := map[int64]bool{}, map[int64]bool{}
	var totals models.EnrollmentTotals
	for _, e := range m.enrollments {
		if annee != "" && e.AnneeAcademique != annee {
			continue
		}
		totals.TotalInscriptions++
		students[e.EtudiantID] = true
		courses[e.CoursID] = true
	}
	totals.TotalEtudiants = int64(len(students))
	totals.TotalCours = int64(len(courses))
	return totals, nil
}

func (m mockEnrollmentRepo) AverageGrades(ctx context.Context, annee string) ([]models.CourseAverage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums, counts := map[int64]float64{}, map[int64]int{}
	for _, e := range m.enrollments {
		if e.Note == nil || (annee != "" && e.AnneeAcademique != annee) {
			continue
		}
		sums[e.CoursID] += *e.Note
		counts[e.CoursID]++
	}
	out := []models.CourseAverage{}
	for id, sum := range sums {
		out = append(out, models.CourseAverage{CoursID: id, Moyenne: sum / float64(counts[id])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoursID < out[j].CoursID })
	return out, nil
}

// memCache is an in-memory CacheRepository.
type memCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deletes int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]interface{}{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	stats := v.(*models.EnrollmentStats)
	*(dest.(*models.EnrollmentStats)) = *stats
	return nil
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.deletes++
	return nil
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

type fixture struct {
	store       *memStore
	cache       *memCache
	invalidator *StatsInvalidator
	students    *StudentService
	courses     *CourseService
	enrollments *EnrollmentService
	exports     *ExportService
}

func newFixture() *fixture {
	store := newMemStore()
	cache := newMemCache()
	cacheSvc := NewCacheService(cache, nil, time.Minute, nil, true)
	invalidator := NewStatsInvalidator(cacheSvc, nil)
	validate := NewValidator()
	studentRepo := mockStudentRepo{store}
	courseRepo := mockCourseRepo{store}
	enrollmentRepo := mockEnrollmentRepo{store}
	return &fixture{
		store:       store,
		cache:       cache,
		invalidator: invalidator,
		students:    NewStudentService(studentRepo, enrollmentRepo, validate, invalidator, nil),
		courses:     NewCourseService(courseRepo, enrollmentRepo, validate, invalidator, nil),
		enrollments: NewEnrollmentService(EnrollmentServiceDeps{
			Repo:        enrollmentRepo,
			Students:    studentRepo,
			Courses:     courseRepo,
			Validator:   validate,
			Cache:       cacheSvc,
			Invalidator: invalidator,
			CacheTTL:    time.Minute,
		}),
		exports: NewExportService(studentRepo, enrollmentRepo, nil),
	}
}
