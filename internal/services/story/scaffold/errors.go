package scaffold

import (
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
)

// Reasons carried in error metadata.
const (
	reasonScene         = "scene"
	reasonChallenge     = "challenge"
	reasonOutOfUses     = "out_of_uses"
	reasonChallengeFull = "challenge_full"
)

func sceneBudgetExceeded(available, requested, maxPips int) error {
	return apperrors.WithMetadata(
		apperrors.CodeBudgetExceeded,
		fmt.Sprintf("Cannot set pips. Scene pip limit exceeded. Available: %d, Tried to set to: %d.", available, requested),
		map[string]string{
			"Reason":    reasonScene,
			"Available": strconv.Itoa(available),
			"Requested": strconv.Itoa(requested),
			"Max":       strconv.Itoa(maxPips),
		},
	)
}

func challengeCapExceeded(available, requested, capPips int) error {
	return apperrors.WithMetadata(
		apperrors.CodeBudgetExceeded,
		fmt.Sprintf("Challenge pips (%d) cannot exceed the maximum of %d.", requested, capPips),
		map[string]string{
			"Reason":    reasonChallenge,
			"Available": strconv.Itoa(available),
			"Requested": strconv.Itoa(requested),
			"Max":       strconv.Itoa(capPips),
		},
	)
}

func cardInUse(characters int) error {
	return apperrors.WithMetadata(
		apperrors.CodeInUse,
		fmt.Sprintf("Cannot delete card. It is in use by %d character(s).", characters),
		map[string]string{"Entity": "card", "Count": strconv.Itoa(characters)},
	)
}

func characterCardPlayed(plays int) error {
	return apperrors.WithMetadata(
		apperrors.CodeInUse,
		"Cannot remove a card that has already been played in a challenge.",
		map[string]string{"Entity": "character_card", "Count": strconv.Itoa(plays)},
	)
}

func outOfUses() error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidState,
		"This card is out of uses.",
		map[string]string{"Reason": reasonOutOfUses},
	)
}

func challengeFull() error {
	return apperrors.WithMetadata(
		apperrors.CodeInvalidState,
		"This challenge is full.",
		map[string]string{"Reason": reasonChallengeFull},
	)
}

func invalidArgument(field string, value any) error {
	v := fmt.Sprint(value)
	return apperrors.WithMetadata(
		apperrors.CodeInvalidArgument,
		fmt.Sprintf("invalid %s: %q", field, v),
		map[string]string{"Field": field, "Value": v},
	)
}

func notFoundByName(entity, name string) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotFound,
		fmt.Sprintf("%s %q not found", entity, name),
		map[string]string{"Entity": entity, "ID": name},
	)
}
