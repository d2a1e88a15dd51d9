package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	clierrors "github.com/arcuo/clockify-cli/internal/errors"
	"github.com/arcuo/clockify-cli/internal/output"
)

// Prompter asks the user for input.
type Prompter interface {
	// Select offers choices. The answer may be typed freely when stdin is not
	// a terminal.
	Select(label string, choices []string) (string, error)
	// Secret reads a masked value.
	Secret(label string) (string, error)
}

type promptuiPrompter struct{}

func (promptuiPrompter) Select(label string, choices []string) (string, error) {
	if len(choices) > 0 && output.StdinIsTerminal() {
		sel := promptui.Select{
			Label:             label,
			Items:             choices,
			Size:              10,
			StartInSearchMode: len(choices) > 10,
			Searcher: func(input string, index int) bool {
				return strings.Contains(strings.ToLower(choices[index]), strings.ToLower(input))
			},
		}
		_, answer, err := sel.Run()
		if err != nil {
			return "", promptError(err)
		}
		return answer, nil
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("a name is required")
			}
			return nil
		},
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return answer, nil
}

func (promptuiPrompter) Secret(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("the API key is required")
			}
			return nil
		},
	}
	answer, err := prompt.Run()
	if err != nil {
		return "", promptError(err)
	}
	return strings.TrimSpace(answer), nil
}

func promptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return clierrors.ValidationError(fmt.Errorf("prompt cancelled"), "")
	}
	return fmt.Errorf("prompt failed: %w", err)
}
