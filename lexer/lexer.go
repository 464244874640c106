package lexer

import (
	"errors"
	"math"
	"sort"

	"github.com/yu-lang/yuc/token"
)

// ErrSourceTooLarge is returned by New for inputs whose byte offsets
// would not fit the 32-bit token model.
var ErrSourceTooLarge = errors.New("lexer: source exceeds 4 GiB")

// Byte classes. Every byte of the input falls into exactly one class;
// everything not listed here is resolved through singleCharTokens.
const (
	classOther      = 0
	classWhitespace = 1
	classSlash      = 2
	classStar       = 3
	classIdentStart = 4
	classDigit      = 5
	classQuote      = 6
)

var charType = func() [256]uint8 {
	var types [256]uint8
	for i := 0; i < 256; i++ {
		c := byte(i)
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			types[i] = classWhitespace
		case c == '/':
			types[i] = classSlash
		case c == '*':
			types[i] = classStar
		case isAlpha(c) || c == '_' || c == '@':
			types[i] = classIdentStart
		case isDigit(c):
			types[i] = classDigit
		case c == '"':
			types[i] = classQuote
		}
	}
	return types
}()

var singleCharTokens = func() [256]token.TokenType {
	var tokens [256]token.TokenType
	for i := range tokens {
		tokens[i] = token.UNKNOWN
	}
	tokens['+'] = token.PLUS
	tokens['-'] = token.MINUS
	tokens['*'] = token.STAR
	tokens['/'] = token.SLASH
	tokens['%'] = token.PERCENT
	tokens['='] = token.EQUAL
	tokens['!'] = token.BANG
	tokens['<'] = token.LESS
	tokens['>'] = token.GREATER
	tokens['&'] = token.AND
	tokens['|'] = token.OR
	tokens['^'] = token.XOR
	tokens['~'] = token.TILDE
	tokens['.'] = token.DOT
	tokens['('] = token.LEFT_PAREN
	tokens[')'] = token.RIGHT_PAREN
	tokens['{'] = token.LEFT_BRACE
	tokens['}'] = token.RIGHT_BRACE
	tokens['['] = token.LEFT_BRACKET
	tokens[']'] = token.RIGHT_BRACKET
	tokens[','] = token.COMMA
	tokens[':'] = token.COLON
	tokens[';'] = token.SEMICOLON
	tokens['?'] = token.QUESTION
	return tokens
}()

var validEscapes = func() [256]bool {
	var table [256]bool
	for _, c := range []byte{'n', 't', 'r', '\\', '"', '0', 'x'} {
		table[c] = true
	}
	return table
}()

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isAlnum(c byte) bool {
	return isAlpha(c) || isDigit(c)
}

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// isPunct matches printable ASCII that terminates an identifier.
func isPunct(c byte) bool {
	return c > ' ' && c < 0x7f && !isAlnum(c) && c != '_'
}

// Lexer turns a source buffer into a TokenList, recording line starts
// as it goes. A Lexer is not safe for concurrent use; tokenize each
// file with its own instance.
type Lexer struct {
	src        string
	pos        uint32
	length     uint32
	tokens     token.TokenList
	lineStarts []uint32
}

// New captures a byte view of src. The buffer must fit 32-bit offsets.
func New(src string) (*Lexer, error) {
	if len(src) > math.MaxUint32 {
		return nil, ErrSourceTooLarge
	}
	l := &Lexer{
		src:    src,
		length: uint32(len(src)),
	}
	l.tokens.Reserve(len(src) / 4)
	l.lineStarts = make([]uint32, 1, len(src)/40+1)
	return l, nil
}

// Tokenize appends tokens until a single END_OF_FILE terminator has
// been emitted and returns the owned list. The list and the line table
// are read-only afterwards.
func (l *Lexer) Tokenize() *token.TokenList {
	for {
		tok := l.nextToken()
		l.tokens.Push(tok)
		if tok.Type == token.END_OF_FILE {
			return &l.tokens
		}
		l.pos += uint32(tok.Length)
	}
}

// Tokens returns the list produced by Tokenize.
func (l *Lexer) Tokens() *token.TokenList {
	return &l.tokens
}

// Src returns the underlying source buffer.
func (l *Lexer) Src() string {
	return l.src
}

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespaceComment()

	if l.pos >= l.length {
		return token.Token{Start: l.pos, Type: token.END_OF_FILE}
	}

	c := l.src[l.pos]
	switch charType[c] {
	case classIdentStart:
		return l.lexIdentifier()
	case classDigit:
		return l.lexNumber()
	case classQuote:
		return l.lexString()
	default:
		return token.Token{Start: l.pos, Length: 1, Type: singleCharTokens[c]}
	}
}

// skipWhitespaceComment advances past whitespace, // comments and
// /* */ comments (not nested), appending newline offsets to the line
// table, including newlines inside comments. An unterminated block
// comment consumes the rest of the input.
func (l *Lexer) skipWhitespaceComment() {
	for l.pos < l.length {
		c := l.src[l.pos]
		switch charType[c] {
		case classWhitespace:
			if c == '\n' {
				l.lineStarts = append(l.lineStarts, l.pos+1)
			}
			l.pos++

		case classSlash:
			if l.pos+1 >= l.length {
				return
			}
			switch l.src[l.pos+1] {
			case '/':
				l.pos += 2
				for l.pos < l.length && l.src[l.pos] != '\n' {
					l.pos++
				}
			case '*':
				l.pos += 2
				l.skipBlockComment()
			default:
				return
			}

		default:
			return
		}
	}
}

func (l *Lexer) skipBlockComment() {
	for l.pos+1 < l.length {
		if l.src[l.pos] == '*' && l.src[l.pos+1] == '/' {
			l.pos += 2
			return
		}
		if l.src[l.pos] == '\n' {
			l.lineStarts = append(l.lineStarts, l.pos+1)
		}
		l.pos++
	}
	// Unterminated: consume the tail. Reporting is the parser's job.
	for ; l.pos < l.length; l.pos++ {
		if l.src[l.pos] == '\n' {
			l.lineStarts = append(l.lineStarts, l.pos+1)
		}
	}
}

func (l *Lexer) lexIdentifier() token.Token {
	start := l.pos
	i := l.pos
	var flags token.Flags

	c := l.src[i]
	if !isAlpha(c) && c != '_' && c != '@' {
		flags |= token.INVALID_IDENTIFIER_START
	}
	if c == '@' {
		i++
	}

	for i < l.length {
		c := l.src[i]
		if isAlnum(c) || c == '_' {
			i++
			continue
		}
		if !isPunct(c) && c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			flags |= token.INVALID_IDENTIFIER_CHAR
		}
		break
	}

	length := uint16(i - start)
	text := l.src[start:i]
	return token.Token{
		Start:  start,
		Length: length,
		Type:   token.LookupIdent(text),
		Flags:  flags,
	}
}

func (l *Lexer) lexNumber() token.Token {
	start := l.pos
	i := l.pos
	end := l.length
	var flags token.Flags

	isHex := false
	isBin := false
	if l.src[i] == '0' && i+1 < end {
		switch l.src[i+1] | 32 {
		case 'x':
			isHex = true
			i += 2
		case 'b':
			isBin = true
			i += 2
		}
	}

	decimals := 0
body:
	for i < end {
		c := l.src[i]
		switch {
		case isHex:
			if !isHexDigit(c) {
				break body
			}
		case isBin:
			if c != '0' && c != '1' {
				break body
			}
		case isDigit(c):
		case c == '.':
			decimals++
			if decimals > 1 {
				flags |= token.MULTIPLE_DECIMAL_POINTS
			}
		default:
			break body
		}
		i++
	}

	if !isHex && !isBin && i < end && l.src[i]|32 == 'e' {
		i++
		if i < end && (l.src[i] == '+' || l.src[i] == '-') {
			i++
		}
		if i >= end || !isDigit(l.src[i]) {
			flags |= token.INVALID_EXPONENT
		}
		for i < end && isDigit(l.src[i]) {
			i++
		}
	}

	return token.Token{
		Start:  start,
		Length: uint16(i - start),
		Type:   token.NUM_LITERAL,
		Flags:  flags,
	}
}

func (l *Lexer) lexString() token.Token {
	start := l.pos
	i := l.pos + 1
	end := l.length
	var flags token.Flags
	closed := false

scan:
	for i < end {
		switch c := l.src[i]; c {
		case '"':
			i++
			closed = true
			break scan
		case '\\':
			var next byte
			if i+1 < end {
				next = l.src[i+1]
			}
			if !validEscapes[next] {
				// The token ends on the bad escape.
				flags |= token.INVALID_ESCAPE_SEQUENCE
				i += 2
				if i > end {
					i = end
				}
				break scan
			}
			i += 2
			if next == 'x' {
				i += 2 // two hex bytes
			}
			if i > end {
				i = end
			}
		default:
			i++
		}
	}

	if !closed && i >= end && flags&token.INVALID_ESCAPE_SEQUENCE == 0 {
		flags |= token.UNTERMINATED_STRING
	}

	return token.Token{
		Start:  start,
		Length: uint16(i - start),
		Type:   token.STR_LITERAL,
		Flags:  flags,
	}
}

// LineCol maps a token's start offset to 1-based (line, column) by
// upper-bound search on the line table.
func (l *Lexer) LineCol(tok token.Token) (uint32, uint32) {
	idx := sort.Search(len(l.lineStarts), func(i int) bool {
		return l.lineStarts[i] > tok.Start
	})
	return uint32(idx), tok.Start - l.lineStarts[idx-1] + 1
}

// TokenValue returns the byte slice [start, start+length).
func (l *Lexer) TokenValue(tok token.Token) string {
	return l.src[tok.Start : tok.Start+uint32(tok.Length)]
}

// Value returns the text of the token at index pos in the list.
func (l *Lexer) Value(pos int) string {
	return l.src[l.tokens.Starts[pos] : l.tokens.Starts[pos]+uint32(l.tokens.Lengths[pos])]
}
