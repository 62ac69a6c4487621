package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-caseform/pkg/session"
)

// Prompter answers session prompts, such as page group keys, through a
// PromptDriver. An aborted or blank answer cancels the prompt.
type Prompter struct {
	driver PromptDriver
}

var _ session.Prompter = (*Prompter)(nil)

// NewPrompter wraps driver. A nil driver uses survey on stdout.
func NewPrompter(driver PromptDriver) *Prompter {
	if driver == nil {
		driver = NewSurveyDriver(nil)
	}
	return &Prompter{driver: driver}
}

func (p *Prompter) Prompt(ctx context.Context, message, defaultValue string) (string, bool, error) {
	answer, err := p.driver.Input(ctx, InputConfig{Message: message, Default: defaultValue})
	if errors.Is(err, ErrAborted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", false, nil
	}
	return answer, true, nil
}
