package edn

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError describes a syntax error with its source position and the
// grammar rule being read when the input failed to match.
type ParseError struct {
	Message string
	Rule    string
	Pos     Position

	// eof marks failures caused by running out of input mid-form. The
	// stream reader retries these after refilling its buffer; for a
	// complete input they are ordinary syntax errors.
	eof bool
}

func (e *ParseError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("edn: %s at %s (while reading %s)", e.Message, e.Pos, e.Rule)
	}
	return fmt.Sprintf("edn: %s at %s", e.Message, e.Pos)
}

// Parse reads exactly one edn form from input. Whitespace, commas,
// comments, and discarded forms may precede and follow it; any other
// trailing input is an error.
func Parse(input string) (*Value, error) {
	p := &parser{input: input, line: 1, col: 1}
	v, err := p.parseNext()
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, p.errorf("form", "expected a value")
	}
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf("form", "unexpected trailing input")
	}
	return v, nil
}

// ============================================================
// Parser state
// ============================================================

type parser struct {
	input string
	pos   int
	line  int
	col   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) peekAt(n int) byte {
	if p.pos+n >= len(p.input) {
		return 0
	}
	return p.input[p.pos+n]
}

func (p *parser) advance() {
	c := p.input[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else if c&0xC0 != 0x80 {
		// UTF-8 continuation bytes do not advance the column.
		p.col++
	}
}

func (p *parser) position() Position {
	return Position{Line: p.line, Column: p.col, Offset: p.pos}
}

func (p *parser) errorf(rule, format string, args ...interface{}) error {
	return &ParseError{Message: fmt.Sprintf(format, args...), Rule: rule, Pos: p.position()}
}

func (p *parser) errorEOF(rule, msg string) error {
	return &ParseError{Message: msg, Rule: rule, Pos: p.position(), eof: true}
}

// ============================================================
// Separators: whitespace, commas, comments, discards
// ============================================================

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v', ',':
		return true
	}
	return false
}

// isDelimiter reports whether c may legally terminate a token.
func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '"', ';', '\\':
		return true
	}
	return isWhitespace(c)
}

// skipSeparators consumes whitespace, commas, line comments, and
// discarded forms. A discard #_ suppresses the whole next form, after
// any further separators; discards nest, so "#_ #_ 1 2 3" leaves only 3.
func (p *parser) skipSeparators() error {
	for {
		if p.eof() {
			return nil
		}
		c := p.peek()
		switch {
		case isWhitespace(c):
			p.advance()
		case c == ';':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		case c == '#' && p.peekAt(1) == '_':
			p.advance()
			p.advance()
			if err := p.skipSeparators(); err != nil {
				return err
			}
			if p.eof() {
				return p.errorEOF("discard", "expected a form after #_")
			}
			if _, err := p.parseForm(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// parseNext consumes leading separators and reads one form. It returns
// (nil, nil) when only separators remain, which the stream reader uses
// to detect a cleanly exhausted buffer.
func (p *parser) parseNext() (*Value, error) {
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, nil
	}
	return p.parseForm()
}

// ============================================================
// Form dispatch
// ============================================================

func (p *parser) parseForm() (*Value, error) {
	start := p.position()
	var v *Value
	var err error
	c := p.peek()
	switch {
	case c == '(':
		v, err = p.parseSeq('(', ')', TypeList)
	case c == '[':
		v, err = p.parseSeq('[', ']', TypeVector)
	case c == '{':
		v, err = p.parseMapForm()
	case c == '"':
		v, err = p.parseString()
	case c == '\\':
		v, err = p.parseCharacter()
	case c == ':':
		v, err = p.parseKeyword()
	case c == '#':
		if p.pos+1 >= len(p.input) {
			return nil, p.errorEOF("dispatch", "incomplete # dispatch")
		}
		switch p.peekAt(1) {
		case '{':
			v, err = p.parseSet()
		case '_':
			return nil, p.errorf("dispatch", "unexpected discard")
		default:
			v, err = p.parseTagged()
		}
	case isDigit(c) || ((c == '+' || c == '-') && isDigit(p.peekAt(1))):
		v, err = p.parseNumber()
	case c == ')' || c == ']' || c == '}':
		return nil, p.errorf("form", "unexpected %q", string(rune(c)))
	default:
		v, err = p.parseSymbolish()
	}
	if err != nil {
		return nil, err
	}
	v.SetPos(start)
	return v, nil
}

// ============================================================
// Collections
// ============================================================

func ruleFor(typ Type) string {
	return typ.String()
}

func (p *parser) parseSeq(open, close byte, typ Type) (*Value, error) {
	rule := ruleFor(typ)
	p.advance() // open
	var elems []*Value
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorEOF(rule, fmt.Sprintf("unterminated %s", rule))
		}
		if p.peek() == close {
			p.advance()
			return &Value{typ: typ, elems: elems}, nil
		}
		e, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
}

func (p *parser) parseMapForm() (*Value, error) {
	p.advance() // '{'
	var forms []*Value
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorEOF("map", "unterminated map")
		}
		if p.peek() == '}' {
			p.advance()
			break
		}
		f, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	if len(forms)%2 != 0 {
		return nil, p.errorf("map", "map literal with odd number of forms")
	}
	entries := make([]Entry, 0, len(forms)/2)
	for i := 0; i < len(forms); i += 2 {
		entries = append(entries, Entry{Key: forms[i], Value: forms[i+1]})
	}
	return Map(entries...), nil
}

func (p *parser) parseSet() (*Value, error) {
	p.advance() // '#'
	p.advance() // '{'
	var elems []*Value
	for {
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorEOF("set", "unterminated set")
		}
		if p.peek() == '}' {
			p.advance()
			return Set(elems...), nil
		}
		e, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
}

// ============================================================
// Strings and characters
// ============================================================

func (p *parser) parseString() (*Value, error) {
	p.advance() // '"'
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorEOF("string", "unterminated string")
		}
		c := p.peek()
		switch c {
		case '"':
			p.advance()
			return Str(b.String()), nil
		case '\\':
			p.advance()
			if p.eof() {
				return nil, p.errorEOF("string", "unterminated escape")
			}
			e := p.peek()
			p.advance()
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case '"', '\\':
				b.WriteByte(e)
			default:
				// Unknown escapes pass the character through.
				b.WriteByte(e)
			}
		default:
			// Raw bytes, including literal newlines and UTF-8
			// sequences, pass through unchanged.
			b.WriteByte(c)
			p.advance()
		}
	}
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func (p *parser) parseCharacter() (*Value, error) {
	p.advance() // '\'
	if p.eof() {
		return nil, p.errorEOF("character", "expected a character")
	}
	start := p.pos
	for !p.eof() && isLetter(p.peek()) {
		p.advance()
	}
	name := p.input[start:p.pos]
	switch len(name) {
	case 0:
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		for i := 0; i < size; i++ {
			p.advance()
		}
		return Char(r), nil
	case 1:
		return Char(rune(name[0])), nil
	}
	switch name {
	case "newline":
		return Char('\n'), nil
	case "tab":
		return Char('\t'), nil
	case "return":
		return Char('\r'), nil
	case "space":
		return Char(' '), nil
	}
	if p.eof() {
		// The run may be a prefix of a named character split across a
		// buffer boundary.
		return nil, p.errorEOF("character", "incomplete character name")
	}
	return nil, p.errorf("character", "unknown character name %q", name)
}

// ============================================================
// Symbols and keywords
// ============================================================

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSymbolStart(c byte) bool {
	if isLetter(c) {
		return true
	}
	switch c {
	case '.', '*', '+', '!', '-', '_', '?', '$', '%', '&', '=', '<', '>':
		return true
	}
	return false
}

func isSymbolChar(c byte) bool {
	return isSymbolStart(c) || isDigit(c) || c == ':' || c == '#'
}

// parseSymbolToken reads a symbol: name, prefix/name, or the literal /.
func (p *parser) parseSymbolToken(rule string) (Symbol, error) {
	if p.peek() == '/' {
		p.advance()
		if !p.eof() && !isDelimiter(p.peek()) {
			return Symbol{}, p.errorf(rule, "invalid symbol starting with /")
		}
		return Symbol{Name: "/"}, nil
	}
	if !isSymbolStart(p.peek()) {
		return Symbol{}, p.errorf(rule, "invalid symbol character %q", string(rune(p.peek())))
	}
	// +, - and . may not be followed by a digit at the head of a symbol.
	if c := p.peek(); (c == '+' || c == '-' || c == '.') && isDigit(p.peekAt(1)) {
		return Symbol{}, p.errorf(rule, "invalid symbol: %q followed by a digit", string(rune(c)))
	}
	start := p.pos
	p.advance()
	for !p.eof() && isSymbolChar(p.peek()) {
		p.advance()
	}
	name := p.input[start:p.pos]
	if p.peek() != '/' {
		return Symbol{Name: name}, nil
	}
	p.advance() // '/'
	if p.eof() {
		return Symbol{}, p.errorEOF(rule, "incomplete namespaced symbol")
	}
	if !isSymbolStart(p.peek()) {
		return Symbol{}, p.errorf(rule, "invalid name after / in symbol")
	}
	nameStart := p.pos
	for !p.eof() && isSymbolChar(p.peek()) {
		p.advance()
	}
	if p.peek() == '/' {
		return Symbol{}, p.errorf(rule, "symbol contains more than one /")
	}
	return Symbol{Prefix: name, Name: p.input[nameStart:p.pos]}, nil
}

// parseSymbolish reads a symbol and resolves the reserved words nil,
// true, and false to their literals.
func (p *parser) parseSymbolish() (*Value, error) {
	sym, err := p.parseSymbolToken("symbol")
	if err != nil {
		return nil, err
	}
	if sym.Prefix == "" {
		switch sym.Name {
		case "nil":
			return Nil(), nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
	}
	return &Value{typ: TypeSymbol, symVal: sym}, nil
}

func (p *parser) parseKeyword() (*Value, error) {
	p.advance() // ':'
	if p.eof() {
		return nil, p.errorEOF("keyword", "expected a name after :")
	}
	sym, err := p.parseSymbolToken("keyword")
	if err != nil {
		return nil, err
	}
	if sym.Prefix == "" && sym.Name == "/" {
		return nil, p.errorf("keyword", "invalid keyword :/")
	}
	return &Value{typ: TypeKeyword, symVal: sym}, nil
}

// ============================================================
// Numbers
// ============================================================

func (p *parser) parseNumber() (*Value, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.advance()
	}
	digitsStart := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.advance()
	}
	if p.pos-digitsStart > 1 && p.input[digitsStart] == '0' {
		return nil, p.errorf("number", "number literal with leading zero")
	}

	isFloat := false
	if p.peek() == '.' {
		if p.pos+1 >= len(p.input) {
			// A digit may follow after refill.
			return nil, p.errorEOF("number", "incomplete number literal")
		}
		if !isDigit(p.peekAt(1)) {
			return nil, p.errorf("number", "expected a digit after the decimal point")
		}
		p.advance() // '.'
		for !p.eof() && isDigit(p.peek()) {
			p.advance()
		}
		isFloat = true
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		j := p.pos + 1
		if j < len(p.input) && (p.input[j] == '+' || p.input[j] == '-') {
			j++
		}
		if j >= len(p.input) {
			return nil, p.errorEOF("number", "incomplete exponent")
		}
		if !isDigit(p.input[j]) {
			return nil, p.errorf("number", "expected a digit in exponent")
		}
		for p.pos < j {
			p.advance()
		}
		for !p.eof() && isDigit(p.peek()) {
			p.advance()
		}
		isFloat = true
	}

	lit := p.input[start:p.pos]
	var v *Value
	switch {
	case p.peek() == 'M':
		p.advance()
		d, err := ParseDecimal(lit)
		if err != nil {
			return nil, p.errorf("number", "invalid decimal literal %q", lit)
		}
		v = Dec(d)
	case p.peek() == 'N' && !isFloat:
		p.advance()
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, p.errorf("number", "invalid integer literal %q", lit)
		}
		v = BigInt(n)
	case isFloat:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorf("number", "invalid float literal %q", lit)
		}
		v = Float(f)
	default:
		n, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return nil, p.errorf("number", "invalid integer literal %q", lit)
		}
		v = &Value{typ: TypeInt, intVal: n}
	}
	if !p.eof() && !isDelimiter(p.peek()) {
		return nil, p.errorf("number", "invalid character %q in number", string(rune(p.peek())))
	}
	return v, nil
}

// ============================================================
// Tagged elements
// ============================================================

func (p *parser) parseTagged() (*Value, error) {
	p.advance() // '#'
	tag, err := p.parseSymbolToken("tag")
	if err != nil {
		return nil, err
	}
	if tag.Prefix == "" && tag.Name == "/" {
		return nil, p.errorf("tag", "invalid tag #/")
	}
	before := p.pos
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorEOF("tag", "expected a form after tag")
	}
	if p.pos == before {
		return nil, p.errorf("tag", "expected whitespace after tag")
	}
	payload, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	return Tag(tag, payload), nil
}
