package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
	"github.com/aliskhannn/uniportal/internal/infra/postgres"
)

var ErrSubjectNotFound = errors.New("subject not found")

// SubjectRepository reads the subject and chapter catalog.
type SubjectRepository struct {
	db postgres.DBTX
}

func NewSubjectRepository(db postgres.DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns all subjects ordered by title.
func (r *SubjectRepository) List(ctx context.Context) ([]entities.Subject, error) {
	query := `
		SELECT id, title, icon, description
		FROM subjects
		ORDER BY title
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []entities.Subject
	for rows.Next() {
		var s entities.Subject
		if err := rows.Scan(&s.ID, &s.Title, &s.Icon, &s.Description); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// GetByID retrieves a single subject.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*entities.Subject, error) {
	query := `
		SELECT id, title, icon, description
		FROM subjects
		WHERE id = $1
	`

	var s entities.Subject
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Title, &s.Icon, &s.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	return &s, nil
}

// ListChapters returns the chapters of a subject in display order.
func (r *SubjectRepository) ListChapters(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	query := `
		SELECT id, subject_id, title, position
		FROM chapters
		WHERE subject_id = $1
		ORDER BY position, id
	`

	rows, err := r.db.Query(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []entities.Chapter
	for rows.Next() {
		var c entities.Chapter
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Title, &c.Position); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}
