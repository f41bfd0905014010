package service

import (
	"context"

	"github.com/aliskhannn/uniportal/internal/domain/entities"
)

type SubjectService struct {
	catalog SubjectCatalog
}

func NewSubjectService(catalog SubjectCatalog) *SubjectService {
	return &SubjectService{catalog: catalog}
}

func (s *SubjectService) List(ctx context.Context) ([]entities.Subject, error) {
	return s.catalog.List(ctx)
}

func (s *SubjectService) Get(ctx context.Context, id int64) (*entities.Subject, error) {
	return s.catalog.GetByID(ctx, id)
}

func (s *SubjectService) Chapters(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	return s.catalog.ListChapters(ctx, subjectID)
}
