package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics descompone a NFD y elimina las marcas combinantes, de modo
// que "fáctura" y "factura" produzcan el mismo token.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Tokenize normaliza el texto (minúsculas, sin acentos) y lo parte en
// secuencias alfanuméricas. Tokens de un solo carácter se descartan.
func Tokenize(s string) []string {
	if s == "" {
		return nil
	}
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		folded = s
	}

	out := make([]string, 0, 32)
	var b strings.Builder
	flush := func() {
		if b.Len() > 1 {
			out = append(out, b.String())
		}
		b.Reset()
	}
	for _, r := range folded {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return out
}

// TermFrequencies cuenta ocurrencias por término.
func TermFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
