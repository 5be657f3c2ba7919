package cli

import (
	"fmt"

	"github.com/julianstephens/habithub/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	result, err := validateData(ctx)
	if err != nil {
		return err
	}

	ctx.println()
	ctx.println(result.FormatReport())
	return nil
}

func validateData(ctx *Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load habits: %w", err)
	}
	logs, err := ctx.Store.GetAllHabitLogs()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load logs: %w", err)
	}

	ctx.printf("Validating %d habits and %d logs...\n", len(habits), len(logs))
	return validation.New().ValidateHabits(habits, logs), nil
}
