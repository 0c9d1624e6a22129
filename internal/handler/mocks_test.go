package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gestion-etudiants-api/internal/dto"
	"github.com/noah-isme/gestion-etudiants-api/internal/models"
)

type studentServiceMock struct {
	listResp    []models.StudentWithEnrollments
	getResp     *models.StudentWithEnrollments
	student     *models.Student
	enrollments []models.EnrollmentWithCourse
	err         error

	lastFilter models.StudentFilter
	lastID     int64
	lastCreate dto.CreateStudentRequest
	lastUpdate dto.UpdateStudentRequest
	calls      []string
}

func (m *studentServiceMock) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentWithEnrollments, error) {
	m.calls = append(m.calls, "List")
	m.lastFilter = filter
	return m.listResp, m.err
}

func (m *studentServiceMock) Get(ctx context.Context, id int64) (*models.StudentWithEnrollments, error) {
	m.calls = append(m.calls, "Get")
	m.lastID = id
	return m.getResp, m.err
}

func (m *studentServiceMock) Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithCourse, error) {
	m.calls = append(m.calls, "Enrollments")
	m.lastID = id
	return m.enrollments, m.err
}

func (m *studentServiceMock) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	m.calls = append(m.calls, "Create")
	m.lastCreate = req
	return m.student, m.err
}

func (m *studentServiceMock) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	m.calls = append(m.calls, "Update")
	m.lastID = id
	m.lastUpdate = req
	return m.student, m.err
}

func (m *studentServiceMock) Delete(ctx context.Context, id int64) error {
	m.calls = append(m.calls, "Delete")
	m.lastID = id
	return m.err
}

type transcriptMock struct {
	data     []byte
	filename string
	err      error
}

func (m *transcriptMock) Transcript(ctx context.Context, studentID int64) ([]byte, string, error) {
	return m.data, m.filename, m.err
}

type courseServiceMock struct {
	listResp []models.CourseWithEnrollments
	getResp  *models.CourseWithEnrollments
	course   *models.Course
	err      error

	lastFilter models.CourseFilter
	lastID     int64
	calls      []string
}

func (m *courseServiceMock) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseWithEnrollments, error) {
	m.calls = append(m.calls, "List")
	m.lastFilter = filter
	return m.listResp, m.err
}

func (m *courseServiceMock) Get(ctx context.Context, id int64) (*models.CourseWithEnrollments, error) {
	m.calls = append(m.calls, "Get")
	m.lastID = id
	return m.getResp, m.err
}

func (m *courseServiceMock) Enrollments(ctx context.Context, id int64) ([]models.EnrollmentWithStudent, error) {
	m.calls = append(m.calls, "Enrollments")
	m.lastID = id
	return []models.EnrollmentWithStudent{}, m.err
}

func (m *courseServiceMock) Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	m.calls = append(m.calls, "Create")
	return m.course, m.err
}

func (m *courseServiceMock) Update(ctx context.Context, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	m.calls = append(m.calls, "Update")
	m.lastID = id
	return m.course, m.err
}

func (m *courseServiceMock) Delete(ctx context.Context, id int64) error {
	m.calls = append(m.calls, "Delete")
	m.lastID = id
	return m.err
}

type enrollmentServiceMock struct {
	filter    models.EnrollmentFilter
	filterErr error
	items     []models.EnrollmentDetail
	item      *models.EnrollmentDetail
	stats     *models.EnrollmentStats
	err       error

	lastQuery  dto.EnrollmentQuery
	lastCreate dto.CreateEnrollmentRequest
	lastUpdate dto.UpdateEnrollmentRequest
	lastYear   string
	lastID     int64
	calls      []string
}

func (m *enrollmentServiceMock) ParseFilter(query dto.EnrollmentQuery) (models.EnrollmentFilter, error) {
	m.lastQuery = query
	return m.filter, m.filterErr
}

func (m *enrollmentServiceMock) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	m.calls = append(m.calls, "List")
	return m.items, m.err
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	m.calls = append(m.calls, "Get")
	m.lastID = id
	return m.item, m.err
}

func (m *enrollmentServiceMock) Create(ctx context.Context, req dto.CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	m.calls = append(m.calls, "Create")
	m.lastCreate = req
	return m.item, m.err
}

func (m *enrollmentServiceMock) Update(ctx context.Context, id int64, req dto.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	m.calls = append(m.calls, "Update")
	m.lastID = id
	m.lastUpdate = req
	return m.item, m.err
}

func (m *enrollmentServiceMock) Delete(ctx context.Context, id int64) error {
	m.calls = append(m.calls, "Delete")
	m.lastID = id
	return m.err
}

func (m *enrollmentServiceMock) Stats(ctx context.Context, anneeAcademique string) (*models.EnrollmentStats, error) {
	m.calls = append(m.calls, "Stats")
	m.lastYear = anneeAcademique
	return m.stats, m.err
}

type exporterMock struct {
	data       []byte
	err        error
	lastFilter models.EnrollmentFilter
}

func (m *exporterMock) EnrollmentsCSV(ctx context.Context, filter models.EnrollmentFilter) ([]byte, error) {
	m.lastFilter = filter
	return m.data, m.err
}

type authServiceMock struct {
	resp *dto.LoginResponse
	err  error
	last dto.LoginRequest
}

func (m *authServiceMock) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	m.last = req
	return m.resp, m.err
}

type metricsMock struct{}

func (metricsMock) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# HELP http_requests_total\n"))
	})
}

type testAPI struct {
	students    *studentServiceMock
	transcripts *transcriptMock
	courses     *courseServiceMock
	enrollments *enrollmentServiceMock
	exporter    *exporterMock
	auth        *authServiceMock
	router      *gin.Engine
}

func newTestAPI(requireAuth gin.HandlerFunc, checks map[string]Pinger) *testAPI {
	gin.SetMode(gin.TestMode)
	api := &testAPI{
		students:    &studentServiceMock{},
		transcripts: &transcriptMock{},
		courses:     &courseServiceMock{},
		enrollments: &enrollmentServiceMock{},
		exporter:    &exporterMock{},
		auth:        &authServiceMock{},
		router:      gin.New(),
	}
	enrollmentHandler := NewEnrollmentHandler(api.enrollments, api.exporter)
	enrollmentHandler.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }

	RegisterRoutes(api.router, "/api", Handlers{
		Students:    NewStudentHandler(api.students, api.transcripts),
		Courses:     NewCourseHandler(api.courses),
		Enrollments: enrollmentHandler,
		Auth:        NewAuthHandler(api.auth),
		System:      NewSystemHandler("/api", metricsMock{}, checks, nil),
	}, requireAuth)
	return api
}
