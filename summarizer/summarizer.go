package summarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/mediscan/mediscan-api/dataset"
	"github.com/mediscan/mediscan-api/logging"
	"github.com/mediscan/mediscan-api/metrics"
)

// maxRegenerateAttempts bounds how often Regenerate re-prompts before
// accepting a repeat of the previous summary.
const maxRegenerateAttempts = 5

// Service generates medicine summaries through an injected Generator.
type Service struct {
	generator Generator
}

// NewService constructs a summarizer service.
func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// Summarize produces one summary for the medicine.
func (s *Service) Summarize(ctx context.Context, med *dataset.Medicine) (string, error) {
	timer := metrics.StartSummaryTimer()
	defer timer.ObserveDuration()

	summary, err := s.generator.Generate(ctx, BuildPrompt(med))
	if err != nil {
		return "", fmt.Errorf("summary generation failed for %s: %w", med.DrugName, err)
	}
	return summary, nil
}

// Regenerate produces a summary that differs from previous, re-prompting
// with fresh variants up to maxRegenerateAttempts times. When every attempt
// repeats itself the last candidate is returned anyway; a stale summary
// beats no summary.
func (s *Service) Regenerate(ctx context.Context, med *dataset.Medicine, previous string) (string, error) {
	var candidate string
	var err error

	for attempt := 1; attempt <= maxRegenerateAttempts; attempt++ {
		metrics.RegenerateAttempts.Inc()

		candidate, err = s.generator.Generate(ctx, BuildPrompt(med))
		if err != nil {
			return "", fmt.Errorf("summary regeneration failed for %s: %w", med.DrugName, err)
		}
		if strings.TrimSpace(candidate) != strings.TrimSpace(previous) {
			return candidate, nil
		}
	}

	logging.Debug("Regenerated summary identical after all attempts", "drug", med.DrugName)
	return candidate, nil
}
