package css

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Scanner extracts class names from CSS text produced earlier, so a fresh
// process can learn what is already present in a style tag.
type Scanner struct {
	log *zap.Logger
}

// NewScanner creates a new class scanner.
func NewScanner(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{log: log.Named("css-scanner")}
}

// Classes returns distinct class names starting with prefix in order of
// first appearance. Empty prefix returns every class name. Lexing stops at
// the first error; classes found before it are returned.
func (s *Scanner) Classes(data []byte, prefix string) []string {
	// leave room for the terminating zero NewInputBytes may append
	in := make([]byte, len(data), len(data)+1)
	copy(in, data)
	lexer := css.NewLexer(parse.NewInputBytes(in))

	var (
		classes []string
		seen    = make(map[string]bool)
		dot     bool
	)
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				s.log.Debug("CSS scan stopped", zap.Error(err), zap.Int("classes", len(classes)))
			}
			return classes
		}

		if dot && tt == css.IdentToken {
			name := string(text)
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				classes = append(classes, name)
			}
		}
		dot = tt == css.DelimToken && len(text) == 1 && text[0] == '.'
	}
}
