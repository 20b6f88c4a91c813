package store

import (
	"context"
	"errors"
	"fmt"

	"learnhub/backend/models"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type courseRow struct {
	CourseID    string `gorm:"primaryKey;size:64"`
	TeacherID   string `gorm:"index;size:128"`
	TeacherName string
	Title       string
	Description string
	Category    string `gorm:"index;size:128"`
	Image       string
	Price       int64
	Level       string `gorm:"size:32"`
	Status      string `gorm:"size:32"`
	Sections    datatypes.JSONType[[]models.Section]
	Enrollments datatypes.JSONType[[]models.Enrollment]
	CreatedOn   string `gorm:"column:created_at"`
	UpdatedOn   string `gorm:"column:updated_at"`
}

func (courseRow) TableName() string { return "courses" }

type transactionRow struct {
	UserID          string `gorm:"index;size:128"`
	TransactionID   string `gorm:"primaryKey;size:128"`
	DateTime        string
	CourseID        string `gorm:"size:64"`
	PaymentProvider string `gorm:"size:32"`
	Amount          int64
}

func (transactionRow) TableName() string { return "transactions" }

type progressRow struct {
	UserID                string `gorm:"primaryKey;size:128"`
	CourseID              string `gorm:"primaryKey;size:64"`
	EnrollmentDate        string
	OverallProgress       float64
	Sections              datatypes.JSONType[[]models.SectionProgress]
	LastAccessedTimestamp string
}

func (progressRow) TableName() string { return "user_course_progress" }

// OpenDB connects to postgres, or to a sqlite file when driver is "sqlite".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

type sqlStore struct {
	db *gorm.DB
}

type sqlCourses struct{ *sqlStore }
type sqlTransactions struct{ *sqlStore }
type sqlProgress struct{ *sqlStore }

func NewSQLStore(db *gorm.DB) *Store {
	ss := &sqlStore{db: db}
	return &Store{
		Courses:      sqlCourses{ss},
		Transactions: sqlTransactions{ss},
		Progress:     sqlProgress{ss},
		Purchases:    ss,
		Migrator:     ss,
	}
}

func (s *sqlStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&courseRow{}, &transactionRow{}, &progressRow{})
}

func (s sqlCourses) List(ctx context.Context, category string) ([]models.Course, error) {
	query := s.db.WithContext(ctx).Order("created_at")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var rows []courseRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toModel())
	}
	return courses, nil
}

func (s sqlCourses) Get(ctx context.Context, courseID string) (*models.Course, error) {
	var row courseRow
	if err := s.db.WithContext(ctx).First(&row, "course_id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course %s: %w", courseID, err)
	}
	course := row.toModel()
	return &course, nil
}

func (s sqlCourses) BatchGet(ctx context.Context, ids []string) ([]models.Course, error) {
	ids = uniqueStrings(ids)
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	var rows []courseRow
	if err := s.db.WithContext(ctx).Where("course_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("batch get courses: %w", err)
	}
	found := make(map[string]models.Course, len(rows))
	for _, row := range rows {
		found[row.CourseID] = row.toModel()
	}
	courses := make([]models.Course, 0, len(found))
	for _, id := range ids {
		if course, ok := found[id]; ok {
			courses = append(courses, course)
		}
	}
	return courses, nil
}

func (s sqlCourses) Put(ctx context.Context, course *models.Course) error {
	row := newCourseRow(course)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("put course %s: %w", course.CourseID, err)
	}
	return nil
}

func (s sqlCourses) Delete(ctx context.Context, courseID string) error {
	if err := s.db.WithContext(ctx).Delete(&courseRow{}, "course_id = ?", courseID).Error; err != nil {
		return fmt.Errorf("delete course %s: %w", courseID, err)
	}
	return nil
}

func (s sqlTransactions) List(ctx context.Context) ([]models.Transaction, error) {
	return s.find(s.db.WithContext(ctx))
}

func (s sqlTransactions) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	return s.find(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s sqlTransactions) find(query *gorm.DB) ([]models.Transaction, error) {
	var rows []transactionRow
	if err := query.Order("date_time").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, models.Transaction(row))
	}
	return transactions, nil
}

func (s sqlProgress) Get(ctx context.Context, userID, courseID string) (*models.UserCourseProgress, error) {
	var row progressRow
	err := s.db.WithContext(ctx).First(&row, "user_id = ? AND course_id = ?", userID, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get progress %s/%s: %w", userID, courseID, err)
	}
	progress := row.toModel()
	return &progress, nil
}

func (s sqlProgress) ListByUser(ctx context.Context, userID string) ([]models.UserCourseProgress, error) {
	var rows []progressRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("course_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list progress for %s: %w", userID, err)
	}
	list := make([]models.UserCourseProgress, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toModel())
	}
	return list, nil
}

func (s sqlProgress) Put(ctx context.Context, progress *models.UserCourseProgress) error {
	row := newProgressRow(progress)
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("put progress %s/%s: %w", progress.UserID, progress.CourseID, err)
	}
	return nil
}

func (s *sqlStore) Fulfill(ctx context.Context, tx *models.Transaction, progress *models.UserCourseProgress, enrollment models.Enrollment) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		txRow := transactionRow(*tx)
		created := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&txRow)
		if created.Error != nil {
			return fmt.Errorf("create transaction %s: %w", tx.TransactionID, created.Error)
		}
		if created.RowsAffected == 0 {
			return ErrConflict
		}

		var course courseRow
		if err := db.First(&course, "course_id = ?", tx.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load course %s: %w", tx.CourseID, err)
		}
		current := course.toModel()
		if current.IsEnrolled(enrollment.UserID) {
			return nil
		}

		pRow := newProgressRow(progress)
		if err := db.Save(&pRow).Error; err != nil {
			return fmt.Errorf("create progress: %w", err)
		}

		enrollments := append(current.Enrollments, enrollment)
		err := db.Model(&courseRow{}).
			Where("course_id = ?", tx.CourseID).
			Update("enrollments", datatypes.NewJSONType(enrollments)).Error
		if err != nil {
			return fmt.Errorf("enroll in course %s: %w", tx.CourseID, err)
		}
		return nil
	})
}

func newCourseRow(c *models.Course) courseRow {
	return courseRow{
		CourseID:    c.CourseID,
		TeacherID:   c.TeacherID,
		TeacherName: c.TeacherName,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Image:       c.Image,
		Price:       c.Price,
		Level:       c.Level,
		Status:      c.Status,
		Sections:    datatypes.NewJSONType(c.Sections),
		Enrollments: datatypes.NewJSONType(c.Enrollments),
		CreatedOn:   c.CreatedAt,
		UpdatedOn:   c.UpdatedAt,
	}
}

func (r courseRow) toModel() models.Course {
	course := models.Course{
		CourseID:    r.CourseID,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
		Price:       r.Price,
		Level:       r.Level,
		Status:      r.Status,
		Sections:    r.Sections.Data(),
		Enrollments: r.Enrollments.Data(),
		CreatedAt:   r.CreatedOn,
		UpdatedAt:   r.UpdatedOn,
	}
	if course.Sections == nil {
		course.Sections = []models.Section{}
	}
	if course.Enrollments == nil {
		course.Enrollments = []models.Enrollment{}
	}
	return course
}

func newProgressRow(p *models.UserCourseProgress) progressRow {
	return progressRow{
		UserID:                p.UserID,
		CourseID:              p.CourseID,
		EnrollmentDate:        p.EnrollmentDate,
		OverallProgress:       p.OverallProgress,
		Sections:              datatypes.NewJSONType(p.Sections),
		LastAccessedTimestamp: p.LastAccessedTimestamp,
	}
}

func (r progressRow) toModel() models.UserCourseProgress {
	progress := models.UserCourseProgress{
		UserID:                r.UserID,
		CourseID:              r.CourseID,
		EnrollmentDate:        r.EnrollmentDate,
		OverallProgress:       r.OverallProgress,
		Sections:              r.Sections.Data(),
		LastAccessedTimestamp: r.LastAccessedTimestamp,
	}
	if progress.Sections == nil {
		progress.Sections = []models.SectionProgress{}
	}
	return progress
}
