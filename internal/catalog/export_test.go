package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func lowerCaser() cases.Caser { return cases.Lower(language.Und) }

func lowerString(s string) string { return lowerCaser().String(s) }
