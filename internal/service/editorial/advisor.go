package editorial

import (
	"context"
	"fmt"

	"grantos/internal/external"
)

// Advisor produces advisory critique of section content. It is an
// optional collaborator: failure or absence never blocks the lifecycle.
type Advisor interface {
	Critique(ctx context.Context, text string) (string, error)
}

// LLMAdvisor implements Advisor on top of a text generator
type LLMAdvisor struct {
	generator external.TextGenerator
}

// NewLLMAdvisor creates an advisor backed by the given text generator
func NewLLMAdvisor(generator external.TextGenerator) *LLMAdvisor {
	return &LLMAdvisor{generator: generator}
}

const critiquePrompt = "You are an expert academic editor. Critique the following text for clarity, academic tone, and logical flow. Respond with concise bullet points.\n\n%s"

// Critique implements Advisor
func (a *LLMAdvisor) Critique(ctx context.Context, text string) (string, error) {
	return a.generator.Generate(ctx, fmt.Sprintf(critiquePrompt, text))
}

// ReviewSection asks the advisor for feedback on the section's current
// content. The returned string is always a usable message: missing
// content, a missing advisor and advisor failures all produce a
// description instead of an error.
func (s *SectionService) ReviewSection(ctx context.Context, id string) (string, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if section.ContentText == "" {
		return "No content to review.", nil
	}

	if s.advisor == nil {
		return "Review advisor is not configured.", nil
	}

	feedback, err := s.advisor.Critique(ctx, section.ContentText)
	if err != nil {
		s.logger.Warn("review advisor failed",
			"section_id", id,
			"error", err,
		)
		return "Review advisor is currently unavailable.", nil
	}

	return feedback, nil
}
