package renderer

import (
	"strconv"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"cell":  cell,
	"cells": cells,
	"inc":   func(i int) string { return strconv.Itoa(i + 1) },
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// cell makes s safe inside a markdown table cell. Blank cells read "-".
func cell(s string) string {
	s = strings.TrimSpace(cellEscaper.Replace(s))
	if s == "" {
		return "-"
	}
	return s
}

// cells joins a raw row into a single table cell.
func cells(row []string) string {
	parts := make([]string, len(row))
	for i, s := range row {
		parts[i] = cell(s)
	}
	return strings.Join(parts, " ¦ ")
}
