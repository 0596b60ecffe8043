package parser

import (
	"fmt"

	"goex/pkg/errors"
	"goex/pkg/lexer"
	"goex/pkg/source"
)

// Parser consumes a token sequence and builds one Program. Comment and
// newline tokens are filtered out up front; the grammar is newline
// insensitive.
type Parser struct {
	tokens []lexer.Token
	pos    int
	src    *source.SourceFile
}

// NewParser creates a Parser over a token sequence produced by the lexer.
func NewParser(tokens []lexer.Token) *Parser {
	return NewParserWithSource(tokens, nil)
}

// NewParserWithSource attaches a SourceFile so syntax errors can reference
// the unit they came from.
func NewParserWithSource(tokens []lexer.Token, src *source.SourceFile) *Parser {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type == lexer.COMMENT || t.Type == lexer.NEWLINE {
			continue
		}
		filtered = append(filtered, t)
	}
	return &Parser{tokens: filtered, src: src}
}

// cur returns the current token. The sequence always ends in EOF, so after
// filtering there is always at least one token to return.
func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) == 0 {
			return lexer.Token{Type: lexer.EOF}
		}
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// peek looks ahead without advancing.
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) curIs(types ...lexer.TokenType) bool {
	cur := p.cur().Type
	for _, t := range types {
		if cur == t {
			return true
		}
	}
	return false
}

// expect consumes a token of the given type or returns a syntax error
// naming the expected kind and the token actually found.
func (p *Parser) expect(tokType lexer.TokenType) (lexer.Token, error) {
	tok := p.cur()
	if tok.Type != tokType {
		return tok, p.syntaxErrorf(tok, "expected %s, found %s", tokType, describeToken(tok))
	}
	p.advance()
	return tok, nil
}

func describeToken(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of file"
	}
	return fmt.Sprintf("%s (%q)", tok.Type, tok.Literal)
}

func (p *Parser) syntaxErrorf(tok lexer.Token, format string, args ...interface{}) *errors.SyntaxError {
	return &errors.SyntaxError{
		Position: errors.Position{
			Line:     tok.Line,
			Column:   tok.Column,
			StartPos: tok.StartPos,
			EndPos:   tok.EndPos,
			Source:   p.src,
		},
		Msg: fmt.Sprintf(format, args...),
	}
}

// ParseProgram parses one translation unit: a mandatory package clause,
// zero or more imports, then top-level declarations until end of file.
func (p *Parser) ParseProgram() (*Program, error) {
	if _, err := p.expect(lexer.PACKAGE); err != nil {
		return nil, err
	}
	pkg, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	program := &Program{Package: pkg.Literal}

	for p.curIs(lexer.IMPORT) {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}
		program.Imports = append(program.Imports, imp)
	}

	for !p.curIs(lexer.EOF) {
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		program.Declarations = append(program.Declarations, decl)
	}

	return program, nil
}

func (p *Parser) parseImport() (*ImportDecl, error) {
	if _, err := p.expect(lexer.IMPORT); err != nil {
		return nil, err
	}

	alias := ""
	if p.curIs(lexer.IDENT) && p.peek().Type == lexer.STRING {
		alias = p.cur().Literal
		p.advance()
	}

	path, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	return &ImportDecl{Path: path.Literal, Alias: alias}, nil
}

// parseDeclaration dispatches on the leading keyword.
func (p *Parser) parseDeclaration() (Declaration, error) {
	switch p.cur().Type {
	case lexer.FUNC:
		return p.parseFuncDecl()
	case lexer.VAR:
		return p.parseVarDecl()
	case lexer.CONST:
		return p.parseConstDecl()
	case lexer.TYPE:
		return p.parseTypeDecl()
	case lexer.STRUCT:
		return p.parseStructDecl()
	case lexer.INTERFACE:
		return p.parseInterfaceDecl()
	case lexer.CLASS:
		return p.parseClassDecl()
	default:
		return nil, p.syntaxErrorf(p.cur(), "unrecognized declaration: %s", describeToken(p.cur()))
	}
}

func (p *Parser) parseFuncDecl() (*FuncDecl, error) {
	p.advance() // consume 'func'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	params, returnType, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{Name: name.Literal, Params: params, ReturnType: returnType, Body: body}, nil
}

// parseSignature parses "(params) [returnType]" up to, but not including,
// the body brace.
func (p *Parser) parseSignature() ([]*Parameter, string, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, "", err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, "", err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, "", err
	}

	returnType := ""
	if !p.curIs(lexer.LBRACE) {
		ret, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, "", err
		}
		returnType = ret.Literal
	}
	return params, returnType, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	p.advance() // consume 'var'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	typeName := ""
	if !p.curIs(lexer.ASSIGN) {
		typ, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		typeName = typ.Literal
	}

	var value Expression
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return &VarDecl{Name: name.Literal, Type: typeName, Value: value}, nil
}

func (p *Parser) parseConstDecl() (*ConstDecl, error) {
	p.advance() // consume 'const'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	typeName := ""
	if !p.curIs(lexer.ASSIGN) {
		typ, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		typeName = typ.Literal
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ConstDecl{Name: name.Literal, Type: typeName, Value: value}, nil
}

func (p *Parser) parseTypeDecl() (*TypeDecl, error) {
	p.advance() // consume 'type'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	def, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	return &TypeDecl{Name: name.Literal, Type: def.Literal}, nil
}

func (p *Parser) parseStructDecl() (*StructDecl, error) {
	p.advance() // consume 'struct'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	decl := &StructDecl{Name: name.Literal}
	for !p.curIs(lexer.RBRACE, lexer.EOF) {
		fieldName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		fieldType, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, &StructField{Name: fieldName.Literal, Type: fieldType.Literal})
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseInterfaceDecl() (*InterfaceDecl, error) {
	p.advance() // consume 'interface'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	decl := &InterfaceDecl{Name: name.Literal}
	for !p.curIs(lexer.RBRACE, lexer.EOF) {
		methodName, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		params, err := p.parseParameterList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}

		returnType := ""
		if p.curIs(lexer.IDENT) {
			returnType = p.cur().Literal
			p.advance()
		}
		decl.Methods = append(decl.Methods, &MethodSignature{Name: methodName.Literal, Params: params, ReturnType: returnType})
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseClassDecl parses a class declaration. Inside the body, a member
// starting with the class's own name is the constructor, a member starting
// with 'func' is a method, and anything else is a field.
func (p *Parser) parseClassDecl() (*ClassDecl, error) {
	p.advance() // consume 'class'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	extends := ""
	if p.curIs(lexer.EXTENDS) {
		p.advance()
		parent, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		extends = parent.Literal
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	decl := &ClassDecl{Name: name.Literal, Extends: extends}
	for !p.curIs(lexer.RBRACE, lexer.EOF) {
		switch {
		case p.curIs(lexer.IDENT) && p.cur().Literal == decl.Name:
			ctor, err := p.parseConstructor()
			if err != nil {
				return nil, err
			}
			decl.Constructor = ctor

		case p.curIs(lexer.FUNC):
			method, err := p.parseMethodDecl()
			if err != nil {
				return nil, err
			}
			decl.Methods = append(decl.Methods, method)

		default:
			fieldName, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			fieldType, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}

			var fieldValue Expression
			if p.curIs(lexer.ASSIGN) {
				p.advance()
				fieldValue, err = p.parseExpression()
				if err != nil {
					return nil, err
				}
			}
			decl.Fields = append(decl.Fields, &ClassField{Name: fieldName.Literal, Type: fieldType.Literal, Value: fieldValue})
		}
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseConstructor() (*ConstructorDecl, error) {
	p.advance() // consume the class name

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &ConstructorDecl{Params: params, Body: body}, nil
}

func (p *Parser) parseMethodDecl() (*MethodDecl, error) {
	p.advance() // consume 'func'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	params, returnType, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &MethodDecl{Name: name.Literal, Params: params, ReturnType: returnType, Body: body}, nil
}

func (p *Parser) parseParameterList() ([]*Parameter, error) {
	var params []*Parameter
	for !p.curIs(lexer.RPAREN, lexer.EOF) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		typ, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, &Parameter{Name: name.Literal, Type: typ.Literal})

		if !p.curIs(lexer.COMMA) {
			break
		}
		p.advance()
	}
	return params, nil
}

func (p *Parser) parseBlockStmt() (*BlockStmt, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	block := &BlockStmt{}
	for !p.curIs(lexer.RBRACE, lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseStatement() (Statement, error) {
	switch p.cur().Type {
	case lexer.VAR:
		return p.parseVarStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		p.advance()
		return &BreakStmt{}, nil
	case lexer.CONTINUE:
		p.advance()
		return &ContinueStmt{}, nil
	case lexer.GO:
		return p.parseGoStmt()
	case lexer.DEFER:
		return p.parseDeferStmt()
	case lexer.TRY:
		return p.parseTryStmt()
	case lexer.THROW:
		return p.parseThrowStmt()
	case lexer.LBRACE:
		return p.parseBlockStmt()
	}

	// Expression statement or assignment
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.ASSIGN, lexer.SHORT_ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN,
		lexer.MULT_ASSIGN, lexer.DIV_ASSIGN, lexer.MOD_ASSIGN) {
		op := p.cur().Literal
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: expr, Value: value, Operator: op}, nil
	}
	if p.curIs(lexer.INCREMENT, lexer.DECREMENT) {
		op := p.cur().Literal
		p.advance()
		return &IncDecStmt{Target: expr, Operator: op}, nil
	}
	return &ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) parseVarStmt() (*VarStmt, error) {
	p.advance() // consume 'var'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	typeName := ""
	if !p.curIs(lexer.ASSIGN) {
		typ, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		typeName = typ.Literal
	}

	var value Expression
	if p.curIs(lexer.ASSIGN) {
		p.advance()
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return &VarStmt{Name: name.Literal, Type: typeName, Value: value}, nil
}

func (p *Parser) parseIfStmt() (*IfStmt, error) {
	p.advance() // consume 'if'
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	var elseStmt Statement
	if p.curIs(lexer.ELSE) {
		p.advance()
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: condition, Then: then, Else: elseStmt}, nil
}

// parseForStmt disambiguates the ranged form from the three-clause counted
// form. A for followed by an identifier is speculatively parsed as a ranged
// iteration; on failure the token cursor rewinds and the counted form is
// parsed instead. This is the grammar's only backtracking point.
func (p *Parser) parseForStmt() (Statement, error) {
	p.advance() // consume 'for'

	if p.curIs(lexer.IDENT) {
		checkpoint := p.pos
		stmt, err := p.parseRangeClause()
		if err == nil {
			return stmt, nil
		}
		p.pos = checkpoint
	}

	// Three-clause counted form
	var init Statement
	var err error
	if !p.curIs(lexer.SEMICOLON) {
		init, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	var condition Expression
	if !p.curIs(lexer.SEMICOLON) {
		condition, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.SEMICOLON); err != nil {
		return nil, err
	}

	var update Statement
	if !p.curIs(lexer.LBRACE) {
		update, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ForStmt{Init: init, Condition: condition, Update: update, Body: body}, nil
}

// parseRangeClause parses "key[, value] := range <expr> <stmt>" after the
// for keyword. Both the := token and the two-token ": =" spelling are
// accepted.
func (p *Parser) parseRangeClause() (*RangeStmt, error) {
	key, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	value := ""
	if p.curIs(lexer.COMMA) {
		p.advance()
		v, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		value = v.Literal
	}

	if p.curIs(lexer.SHORT_ASSIGN) {
		p.advance()
	} else {
		if _, err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.ASSIGN); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.RANGE); err != nil {
		return nil, err
	}

	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &RangeStmt{Key: key.Literal, Value: value, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseSwitchStmt() (*SwitchStmt, error) {
	p.advance() // consume 'switch'

	var expression Expression
	var err error
	if !p.curIs(lexer.LBRACE) {
		expression, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	stmt := &SwitchStmt{Expression: expression}
	for !p.curIs(lexer.RBRACE, lexer.EOF) {
		switch {
		case p.curIs(lexer.CASE):
			p.advance()
			caseStmt := &CaseStmt{}
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			caseStmt.Values = append(caseStmt.Values, value)
			for p.curIs(lexer.COMMA) {
				p.advance()
				value, err = p.parseExpression()
				if err != nil {
					return nil, err
				}
				caseStmt.Values = append(caseStmt.Values, value)
			}

			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			caseStmt.Body, err = p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Cases = append(stmt.Cases, caseStmt)

		case p.curIs(lexer.DEFAULT):
			p.advance()
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			body, err := p.parseCaseBody()
			if err != nil {
				return nil, err
			}
			stmt.Default = &DefaultStmt{Body: body}

		default:
			return nil, p.syntaxErrorf(p.cur(), "expected case or default, found %s", describeToken(p.cur()))
		}
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseCaseBody() ([]Statement, error) {
	var body []Statement
	for !p.curIs(lexer.CASE, lexer.DEFAULT, lexer.RBRACE, lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return body, nil
}

func (p *Parser) parseReturnStmt() (*ReturnStmt, error) {
	p.advance() // consume 'return'

	var value Expression
	var err error
	if !p.curIs(lexer.RBRACE, lexer.SEMICOLON, lexer.EOF) {
		value, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	return &ReturnStmt{Value: value}, nil
}

func (p *Parser) parseGoStmt() (*GoStmt, error) {
	goTok := p.cur()
	p.advance() // consume 'go'
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*CallExpr)
	if !ok {
		return nil, p.syntaxErrorf(goTok, "go statement must be followed by a function call")
	}
	return &GoStmt{Call: call}, nil
}

func (p *Parser) parseDeferStmt() (*DeferStmt, error) {
	deferTok := p.cur()
	p.advance() // consume 'defer'
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*CallExpr)
	if !ok {
		return nil, p.syntaxErrorf(deferTok, "defer statement must be followed by a function call")
	}
	return &DeferStmt{Call: call}, nil
}

func (p *Parser) parseTryStmt() (*TryStmt, error) {
	p.advance() // consume 'try'
	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}

	stmt := &TryStmt{Body: body}
	for p.curIs(lexer.CATCH) {
		catch, err := p.parseCatchStmt()
		if err != nil {
			return nil, err
		}
		stmt.Catches = append(stmt.Catches, catch)
	}

	if p.curIs(lexer.FINALLY) {
		p.advance()
		finallyBody, err := p.parseBlockStmt()
		if err != nil {
			return nil, err
		}
		stmt.Finally = &FinallyStmt{Body: finallyBody}
	}
	return stmt, nil
}

// parseCatchStmt parses "catch [(Type var | var)] { ... }". A single name
// in the parentheses is the binding; two names are category then binding.
func (p *Parser) parseCatchStmt() (*CatchStmt, error) {
	p.advance() // consume 'catch'

	exceptionType := ""
	exceptionVar := ""
	if p.curIs(lexer.LPAREN) {
		p.advance()
		if p.curIs(lexer.IDENT) {
			exceptionVar = p.cur().Literal
			p.advance()
			if p.curIs(lexer.IDENT) {
				exceptionType = exceptionVar
				exceptionVar = p.cur().Literal
				p.advance()
			}
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlockStmt()
	if err != nil {
		return nil, err
	}
	return &CatchStmt{ExceptionType: exceptionType, ExceptionVar: exceptionVar, Body: body}, nil
}

func (p *Parser) parseThrowStmt() (*ThrowStmt, error) {
	p.advance() // consume 'throw'
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ThrowStmt{Expression: expr}, nil
}

// --- Expressions ---
//
// Precedence climbs through the chain logical-or, logical-and, equality,
// relational, additive, multiplicative, unary, postfix, primary.

func (p *Parser) parseExpression() (Expression, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseBinaryLevel(next func() (Expression, error), ops ...lexer.TokenType) (Expression, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.curIs(ops...) {
		op := p.cur().Literal
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) parseLogicalOr() (Expression, error) {
	return p.parseBinaryLevel(p.parseLogicalAnd, lexer.OR)
}

func (p *Parser) parseLogicalAnd() (Expression, error) {
	return p.parseBinaryLevel(p.parseEquality, lexer.AND)
}

func (p *Parser) parseEquality() (Expression, error) {
	return p.parseBinaryLevel(p.parseComparison, lexer.EQ, lexer.NE)
}

func (p *Parser) parseComparison() (Expression, error) {
	return p.parseBinaryLevel(p.parseAddition, lexer.LT, lexer.LE, lexer.GT, lexer.GE)
}

func (p *Parser) parseAddition() (Expression, error) {
	return p.parseBinaryLevel(p.parseMultiplication, lexer.PLUS, lexer.MINUS)
}

func (p *Parser) parseMultiplication() (Expression, error) {
	return p.parseBinaryLevel(p.parseUnary, lexer.MULTIPLY, lexer.DIVIDE, lexer.MODULO)
}

func (p *Parser) parseUnary() (Expression, error) {
	if p.curIs(lexer.NOT, lexer.MINUS, lexer.PLUS) {
		op := p.cur().Literal
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

// parsePostfix parses chainable, left-associative call, index, and
// selector suffixes.
func (p *Parser) parsePostfix() (Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.curIs(lexer.LPAREN):
			p.advance()
			args, err := p.parseArgumentList()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{Function: expr, Args: args}

		case p.curIs(lexer.LBRACKET):
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Object: expr, Index: index}

		case p.curIs(lexer.DOT):
			p.advance()
			field, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			expr = &SelectorExpr{Object: expr, Field: field.Literal}

		default:
			return expr, nil
		}
	}
}

// parseArgumentList parses expressions up to and including the closing
// parenthesis.
func (p *Parser) parseArgumentList() ([]Expression, error) {
	var args []Expression
	for !p.curIs(lexer.RPAREN, lexer.EOF) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if !p.curIs(lexer.COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.IDENT:
		p.advance()
		return &Identifier{Name: tok.Literal}, nil

	case lexer.NUMBER:
		p.advance()
		kind := LiteralInt
		for i := 0; i < len(tok.Literal); i++ {
			if tok.Literal[i] == '.' {
				kind = LiteralFloat
				break
			}
		}
		return &Literal{Value: tok.Literal, Kind: kind}, nil

	case lexer.STRING:
		p.advance()
		return &Literal{Value: tok.Literal, Kind: LiteralString}, nil

	case lexer.BOOLEAN:
		p.advance()
		return &Literal{Value: tok.Literal, Kind: LiteralBool}, nil

	case lexer.NEW:
		return p.parseNewExpr()

	case lexer.THIS:
		p.advance()
		return &ThisExpr{}, nil

	case lexer.SUPER:
		p.advance()
		return &SuperExpr{}, nil

	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}

	return nil, p.syntaxErrorf(tok, "unrecognized expression: %s", describeToken(tok))
}

func (p *Parser) parseNewExpr() (*NewExpr, error) {
	p.advance() // consume 'new'
	className, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	args, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}
	return &NewExpr{ClassName: className.Literal, Args: args}, nil
}
