package subject

import (
	"context"

	"gator.dev/studygator/internal/modules/subject/dto"
	"gator.dev/studygator/internal/modules/subject/repository"
)

type SubjectService interface {
	GetAllSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
}

type subjectService struct {
	repo repository.SubjectRepository
}

func NewSubjectService(repo repository.SubjectRepository) SubjectService {
	return &subjectService{repo: repo}
}

func (s *subjectService) GetAllSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subj := range subjects {
		responses = append(responses, dto.SubjectResponse{
			ID:   subj.ID,
			Name: subj.Name,
		})
	}

	return responses, nil
}
