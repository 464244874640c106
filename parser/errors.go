package parser

import (
	"strings"

	"github.com/yu-lang/yuc/diag"
	"github.com/yu-lang/yuc/token"
)

// errorAt records a diagnostic anchored at the given token. WARNING
// accumulates and parsing continues in place; ERROR synchronizes to the
// next statement boundary; FATAL terminates the parse.
func (p *Parser) errorAt(tokenIndex uint32, flags diag.Flags, severity diag.Severity, message, suggestion string) {
	d := p.makeDiagnostic(tokenIndex, flags, severity, message, suggestion)

	switch severity {
	case diag.WARNING:
		p.warnings = append(p.warnings, d)
	case diag.ERROR:
		p.errors = append(p.errors, d)
		p.synchronize()
	case diag.FATAL:
		p.errors = append(p.errors, d)
		p.fatal = true
	}
}

func (p *Parser) makeDiagnostic(tokenIndex uint32, flags diag.Flags, severity diag.Severity, message, suggestion string) diag.Diagnostic {
	tok := p.tokens.At(int(tokenIndex))
	line, col := p.lex.LineCol(tok)

	return diag.Diagnostic{
		Flags:      flags,
		Severity:   severity,
		Message:    message,
		Suggestion: suggestion,
		Filename:   p.filename,
		Line:       line,
		Column:     col,
		SourceLine: p.sourceLineAt(tok),
		Caret:      p.caretFor(tok),
	}
}

func (p *Parser) sourceLineAt(tok token.Token) string {
	start := int(tok.Start)
	if start > len(p.source) {
		start = len(p.source)
	}

	lineStart := start
	for lineStart > 0 && p.source[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := start
	for lineEnd < len(p.source) && p.source[lineEnd] != '\n' {
		lineEnd++
	}

	return p.source[lineStart:lineEnd]
}

// caretFor builds the pointer string aligned under the offending
// token: column spaces, a caret, then tildes spanning the rest of the
// token.
func (p *Parser) caretFor(tok token.Token) string {
	start := int(tok.Start)
	if start > len(p.source) {
		start = len(p.source)
	}

	lineStart := start
	for lineStart > 0 && p.source[lineStart-1] != '\n' {
		lineStart--
	}

	col := start - lineStart
	tildes := 0
	if tok.Length > 1 {
		tildes = int(tok.Length) - 1
	}

	return strings.Repeat(" ", col) + "^" + strings.Repeat("~", tildes)
}

// synchronize consumes tokens until the next ';' (consumed) or a
// start-of-statement keyword (left in place). If no token would be
// consumed at all, one is, so that error recovery always makes
// progress.
func (p *Parser) synchronize() {
	moved := false
	for !p.atEnd() {
		switch p.tokens.Types[p.current] {
		case token.SEMICOLON:
			p.advance()
			return

		case token.FUNCTION, token.VAR, token.CONST, token.IF,
			token.WHILE, token.FOR, token.RETURN, token.RIGHT_BRACE:
			if !moved {
				p.advance()
			}
			return

		default:
			p.advance()
			moved = true
		}
	}
}
