package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

const candidateResource = "htd/candidates"

// CandidateService serves HTD candidates and their profile sections.
type CandidateService struct {
	*ResourceService[entity.Candidate]
	Education  *SubResourceService[entity.Education]
	Experience *SubResourceService[entity.Experience]
	CareerGaps *SubResourceService[entity.CareerGap]
	Skills     *SubResourceService[entity.Skill]
	Documents  *DocumentsService
}

func NewCandidateService(client httpclient.HTTPClient, logger *zap.Logger) *CandidateService {
	return &CandidateService{
		ResourceService: NewResourceService[entity.Candidate](client, candidateResource, logger),
		Education:       NewSubResourceService[entity.Education](client, candidateResource, "education", logger),
		Experience:      NewSubResourceService[entity.Experience](client, candidateResource, "experience", logger),
		CareerGaps:      NewSubResourceService[entity.CareerGap](client, candidateResource, "career-gaps", logger),
		Skills:          NewSubResourceService[entity.Skill](client, candidateResource, "skills", logger),
		Documents:       NewDocumentsService(client, candidateResource, logger),
	}
}

func (s *CandidateService) ClientProfile(ctx context.Context, candidateID string) (*entity.ClientProfile, error) {
	if err := requireID("candidate id", candidateID); err != nil {
		return nil, err
	}

	var response entity.Response[entity.ClientProfile]
	if err := s.client.Get(ctx, resourcePath(candidateResource, candidateID, "client-profile"), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get client profile: %w", err)
	}
	return &response.Data, nil
}

func (s *CandidateService) UpdateClientProfile(ctx context.Context, candidateID string, profile entity.ClientProfile) (*entity.ClientProfile, error) {
	if err := requireID("candidate id", candidateID); err != nil {
		return nil, err
	}

	var response entity.Response[entity.ClientProfile]
	if err := s.client.Put(ctx, resourcePath(candidateResource, candidateID, "client-profile"), profile, &response); err != nil {
		return nil, fmt.Errorf("failed to update client profile: %w", err)
	}

	s.logger.Info("Client profile updated", zap.String("candidate_id", candidateID))
	return &response.Data, nil
}
