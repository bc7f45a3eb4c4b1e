package i18n

import apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"

var enUS = map[apperrors.Code]string{
	apperrors.CodeNotFound:            "{{.Entity}} {{.ID}} was not found.",
	apperrors.CodeConstraintViolation: "A row with the same {{.Key}} already exists in {{.Table}}.",
	apperrors.CodeBudgetExceeded:      `{{if eq .Reason "challenge"}}Challenge pips ({{.Requested}}) cannot exceed the maximum of {{.Max}}.{{else}}Cannot set pips. Scene pip limit exceeded. Available: {{.Available}}, Tried to set to: {{.Requested}}.{{end}}`,
	apperrors.CodeInUse:               `{{if eq .Entity "card"}}Cannot delete card. It is in use by {{.Count}} character(s).{{else}}Cannot remove a card that has already been played in a challenge.{{end}}`,
	apperrors.CodeInvalidState:        `{{if eq .Reason "challenge_full"}}This challenge is full.{{else}}This card is out of uses.{{end}}`,
	apperrors.CodeInvalidArgument:     "Invalid {{.Field}}: {{.Value}}.",
}
