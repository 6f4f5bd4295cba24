package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jansankalp/grievance-service/internal/ai"
	"github.com/jansankalp/grievance-service/internal/domain"
)

// ClassificationService orchestrates the primary/fallback provider chain.
// Classification is advisory: callers always proceed, with or without a
// suggestion.
type ClassificationService struct {
	primary  ai.Classifier
	fallback ai.Classifier
	logger   *zap.Logger
}

// NewClassificationService constructs the orchestrator.
func NewClassificationService(primary, fallback ai.Classifier, logger *zap.Logger) *ClassificationService {
	return &ClassificationService{primary: primary, fallback: fallback, logger: logger}
}

// Classify tries the primary provider, then the fallback. A timeout on either
// leg counts as a hard failure of that leg; there are no retries beyond the
// single fallback hop. When both legs fail it returns nil ("no suggestion"),
// never an error.
func (s *ClassificationService) Classify(ctx context.Context, text, imageURL string) *ai.Suggestion {
	if s.primary != nil {
		suggestion, err := s.primary.Classify(ctx, text, imageURL)
		if err == nil {
			return suggestion
		}
		s.logger.Warn("primary classifier failed, trying fallback", zap.Error(err))
	}
	if s.fallback != nil {
		suggestion, err := s.fallback.Classify(ctx, text, imageURL)
		if err == nil {
			return suggestion
		}
		s.logger.Warn("fallback classifier failed", zap.Error(err))
	}
	return nil
}

// PriorityFor maps a severity score to its routing bucket.
func (s *ClassificationService) PriorityFor(severity int) domain.Priority {
	return domain.PriorityForSeverity(severity)
}
