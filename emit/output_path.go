package emit

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gosimple/slug"

	"litgen/config"
)

// OutputPath derives generated file location from the type name: snake cased
// base name plus configured suffix, next to the annotated source. Non-ASCII
// type names can optionally be transliterated first.
func OutputPath(dir, typeName string, conf *config.GeneratorConfig) string {
	name := typeName
	if conf.FileNameTransliterate {
		// Use slug for transliteration (temporarily disable lowercase)
		slug.Lowercase = false
		name = slug.Make(name)
		slug.Lowercase = true
		name = strings.ReplaceAll(name, "-", "_")
	}
	name = config.CleanFileName(toSnake(name))
	return filepath.Join(dir, name+conf.Suffix)
}

// toSnake converts a Go identifier to snake case keeping acronym runs
// together: GroceryList -> grocery_list, HTTPCache -> http_cache.
func toSnake(in string) string {
	runes := []rune(in)

	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
