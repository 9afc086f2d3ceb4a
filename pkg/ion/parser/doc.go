// Package parser builds an Ion AST from a token stream by recursive descent.
//
// Parsing is fail-fast: the first malformed construct aborts with a single
// positioned diagnostic and no partial AST is returned. There is no error
// recovery; the caller fixes the source and retries.
//
// # Grammar
//
//	program      := topDecl* EOF
//	topDecl      := moduleDecl | importStmt | exportStmt | functionDecl
//	moduleDecl   := "module" IDENT "{" (functionDecl | exportStmt)* "}"
//	importStmt   := "import" IDENT ("." ("*" | "{" identList "}"))?
//	              | "from" IDENT "import" "{" identList "}"
//	exportStmt   := "export" "{" identList "}"
//	functionDecl := "export"? "pure"? "function" IDENT "(" params? ")"
//	                usesClause? ("->" type)? block
//	usesClause   := "uses" "[" EFFECT ("," EFFECT)* "]"
//	params       := IDENT ":" type ("," IDENT ":" type)*
//	type         := (IDENT | "Result") ("<" type ("," type)* ">")?
//	block        := "{" statement* "}"
//	statement    := letStmt | ifStmt | guardStmt | returnStmt | exprStmt
//	letStmt      := "let" IDENT (":" type)? "=" expression ";"?
//	ifStmt       := "if" expression block ("else" (ifStmt | block))?
//	guardStmt    := "guard" expression "else" block
//	returnStmt   := "return" expression? ";"?
//	exprStmt     := expression ";"?
//
//	expression   := ternary
//	ternary      := logicalOr ("?" expression ":" ternary)?
//	logicalOr    := logicalAnd ("||" logicalAnd)*
//	logicalAnd   := equality ("&&" equality)*
//	equality     := relational (("==" | "!=") relational)*
//	relational   := additive (("<" | "<=" | ">" | ">=") additive)*
//	additive     := multiplicative (("+" | "-") multiplicative)*
//	multiplicative := unary (("*" | "/") unary)*
//	unary        := ("!" | "-") unary | postfix
//	postfix      := primary ("?")*            // adjacent '?' only, see below
//	primary      := NUMBER | STRING | INTERP | "true" | "false"
//	              | "Ok" "(" expression ")" | "Error" "(" expression ")"
//	              | matchExpr | qualifiedCall | IDENT | "(" expression ")"
//	qualifiedCall := IDENT ("." IDENT)* "(" arguments? ")"
//	matchExpr    := "match" expression "{" matchArm+ "}"
//	matchArm     := pattern "->" expression ","?
//	pattern      := "Ok" ("(" IDENT ")")? | "Error" ("(" IDENT ")")?
//	              | NUMBER | STRING | "true" | "false" | "_"
//
// # The two meanings of '?'
//
// The language uses '?' both as the postfix error-propagation operator and
// to open a ternary. A '?' that starts in the column immediately after the
// preceding token is consumed as propagation; a detached '?' opens a
// ternary:
//
//	let x = g()?          // propagation
//	let y = a > b ? a : b // ternary
//
// The rule is decided from token positions alone, so the lexer stays
// context-free.
package parser
