package appraisal

import (
	"fmt"

	"github.com/noah-isme/hris-go-api/internal/models"
)

// ScoreBudget is the number of marks every objective set must distribute.
const ScoreBudget = 100

// ValidateObjectiveSet accepts a non-empty objective list whose marks sum to ScoreBudget.
func ValidateObjectiveSet(objectives []models.Objective) error {
	if len(objectives) == 0 {
		return fmt.Errorf("%w: no objectives", ErrScoreBudget)
	}

	total := 0
	seen := make(map[string]struct{}, len(objectives))
	for _, objective := range objectives {
		if objective.Marks < 0 || objective.Marks > ScoreBudget {
			return fmt.Errorf("%w: objective %q has marks %d", ErrScoreBudget, objective.ID, objective.Marks)
		}
		if objective.ID != "" {
			if _, dup := seen[objective.ID]; dup {
				return fmt.Errorf("%w: duplicate objective id %q", ErrValidation, objective.ID)
			}
			seen[objective.ID] = struct{}{}
		}
		total += objective.Marks
	}

	if total != ScoreBudget {
		return fmt.Errorf("%w: marks sum to %d", ErrScoreBudget, total)
	}
	return nil
}
