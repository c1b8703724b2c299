// Package region normalizes region names and infers a region from a
// free-text postal address. It does no I/O: the gazetteer of federal
// subjects is embedded into the binary.
package region

import (
	_ "embed"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// Entry is a gazetteer record.
type Entry struct {
	// Name is the region name in its normalized form.
	Name string `yaml:"name"`

	// Keywords are lower-cased words or phrases identifying the region
	// inside an address.
	Keywords []string `yaml:"keywords"`
}

var (
	loadOnce  sync.Once
	gazetteer []Entry
	loadErr   error
)

// Gazetteer returns the embedded list of federal subjects.
func Gazetteer() ([]Entry, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(regionsYAML, &gazetteer)
		for i := range gazetteer {
			gazetteer[i].Name = Normalize(gazetteer[i].Name)
			for j, kw := range gazetteer[i].Keywords {
				gazetteer[i].Keywords[j] = words(kw)
			}
		}
	})
	return gazetteer, loadErr
}

// Normalize trims a region name, collapses inner whitespace, lower-cases
// it and upper-cases the first letter. The result is used both as the
// run cache key and as the persisted name, so "москва" and " МОСКВА "
// become "Москва".
func Normalize(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = cases.Lower(language.Russian).String(name)
	_, size := utf8.DecodeRuneInString(name)
	return cases.Upper(language.Russian).String(name[:size]) + name[size:]
}

// Infer finds a region name in a free-text address. It returns false when
// the address is empty, when nothing matches, or when the longest matches
// point to different regions.
func Infer(address string) (string, bool) {
	addr := words(address)
	if addr == "" {
		return "", false
	}
	entries, err := Gazetteer()
	if err != nil {
		return "", false
	}
	addr = " " + addr + " "

	var best string
	var bestLen int
	var tie bool
	for _, e := range entries {
		for _, kw := range e.Keywords {
			l := utf8.RuneCountInString(kw)
			if kw == "" || l < bestLen {
				continue
			}
			if !strings.Contains(addr, " "+kw+" ") {
				continue
			}
			switch {
			case l > bestLen:
				best, bestLen, tie = e.Name, l, false
			case e.Name != best:
				tie = true
			}
		}
	}

	if best == "" || tie {
		return "", false
	}
	return best, true
}

// words lower-cases a string and replaces everything except letters and
// digits with single spaces. Casers are not safe for concurrent use, so
// each call makes its own.
func words(s string) string {
	s = cases.Lower(language.Russian).String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
