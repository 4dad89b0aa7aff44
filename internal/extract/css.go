package extract

import (
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// RootCustomProperties returns the custom property names declared by
// top-level ":root" rules of a stylesheet, in declaration order. Rules nested
// in at-rules such as @media are not top-level and are ignored.
func RootCustomProperties(stylesheet string) []string {
	p := css.NewParser(parse.NewInput(strings.NewReader(stylesheet)), false)

	var (
		props   []string
		atDepth int
		inRoot  bool
	)
	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.Err() == io.EOF || !p.HasParseError() {
				return props
			}
		case css.BeginAtRuleGrammar:
			atDepth++
		case css.EndAtRuleGrammar:
			if atDepth > 0 {
				atDepth--
			}
		case css.BeginRulesetGrammar:
			inRoot = atDepth == 0 && isRootSelector(p.Values())
		case css.EndRulesetGrammar:
			inRoot = false
		case css.CustomPropertyGrammar, css.DeclarationGrammar:
			if inRoot && atDepth == 0 && strings.HasPrefix(string(data), "--") {
				props = append(props, string(data))
			}
		}
	}
}

func isRootSelector(selector []css.Token) bool {
	var b strings.Builder
	for _, tok := range selector {
		b.Write(tok.Data)
	}
	return strings.EqualFold(b.String(), ":root")
}
