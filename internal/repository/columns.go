package repository

import (
	"fmt"
	"strings"
)

var (
	studentColumns    = []string{"id", "matricule", "nom", "prenom", "date_naissance", "email", "telephone", "adresse", "created_at"}
	courseColumns     = []string{"id", "code", "intitule", "description", "credits", "professeur", "created_at"}
	enrollmentColumns = []string{"id", "etudiant_id", "cours_id", "annee_academique", "semestre", "note", "date_inscription"}
)

// selectColumns qualifies columns with a table alias.
func selectColumns(alias string, columns []string) string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = fmt.Sprintf("%s.%s", alias, col)
	}
	return strings.Join(out, ", ")
}

// nestedColumns aliases columns as "prefix.column" so sqlx scans them into a nested struct.
func nestedColumns(alias, prefix string, columns []string) string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = fmt.Sprintf(`%s.%s AS "%s.%s"`, alias, col, prefix, col)
	}
	return strings.Join(out, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likeArg builds a case-insensitive substring pattern matched with ESCAPE '\'.
func likeArg(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(value))) + "%"
}
