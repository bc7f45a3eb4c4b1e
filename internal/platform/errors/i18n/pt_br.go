package i18n

import apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"

var ptBR = map[apperrors.Code]string{
	apperrors.CodeNotFound:            "{{.Entity}} {{.ID}} não foi encontrado.",
	apperrors.CodeConstraintViolation: "Já existe uma linha com o mesmo {{.Key}} em {{.Table}}.",
	apperrors.CodeBudgetExceeded:      `{{if eq .Reason "challenge"}}Os pips do desafio ({{.Requested}}) não podem passar do máximo de {{.Max}}.{{else}}Não é possível definir os pips. Limite da cena excedido. Disponível: {{.Available}}, tentativa: {{.Requested}}.{{end}}`,
	apperrors.CodeInUse:               `{{if eq .Entity "card"}}Não é possível excluir a carta. Ela está em uso por {{.Count}} personagem(ns).{{else}}Não é possível remover uma carta que já foi jogada em um desafio.{{end}}`,
	apperrors.CodeInvalidState:        `{{if eq .Reason "challenge_full"}}Este desafio está cheio.{{else}}Esta carta não tem mais usos.{{end}}`,
	apperrors.CodeInvalidArgument:     "{{.Field}} inválido: {{.Value}}.",
}
