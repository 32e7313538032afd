package lexer

var tokenTypeNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING", BIGINT: "BIGINT",
	REGEX: "REGEX", TEMPLATE_HEAD: "TEMPLATE_HEAD", TEMPLATE_MIDDLE: "TEMPLATE_MIDDLE",
	TEMPLATE_TAIL: "TEMPLATE_TAIL", TEMPLATE_NO_SUBSTITUTION: "TEMPLATE_NO_SUBSTITUTION",

	BREAK: "break", CASE: "case", CATCH: "catch", CLASS: "class", CONST: "const",
	CONTINUE: "continue", DEBUGGER: "debugger", DEFAULT: "default", DELETE: "delete",
	DO: "do", ELSE: "else", ENUM: "enum", EXPORT: "export", EXTENDS: "extends",
	FALSE: "false", FINALLY: "finally", FOR: "for", FUNCTION: "function", IF: "if",
	IMPORT: "import", IN: "in", INSTANCEOF: "instanceof", NEW: "new", NULL: "null",
	RETURN: "return", SUPER: "super", SWITCH: "switch", THIS: "this", THROW: "throw",
	TRUE: "true", TRY: "try", TYPEOF: "typeof", VAR: "var", VOID: "void",
	WHILE: "while", WITH: "with", YIELD: "yield", LET: "let", STATIC: "static",
	ASYNC: "async", AWAIT: "await", OF: "of", GET: "get", SET: "set",

	TYPE: "type", INTERFACE: "interface", NAMESPACE: "namespace", MODULE: "module",
	READONLY: "readonly", PUBLIC: "public", PRIVATE: "private", PROTECTED: "protected",
	ABSTRACT: "abstract", DECLARE: "declare", SATISFIES: "satisfies", AS: "as",
	IS: "is", KEYOF: "keyof", INFER: "infer", IMPLEMENTS: "implements",
	ANY: "any", UNKNOWN: "unknown", NEVER: "never", UNDEFINED: "undefined",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	SEMICOLON: ";", COMMA: ",", DOT: ".", DOTDOTDOT: "...", COLON: ":",
	QUESTION: "?", QUESTION_DOT: "?.", QUESTION_DOT_L: "?.(", QUESTION_DOT_LB: "?.[",
	QUESTION_QUESTION: "??", QUESTION_QUESTION_EQ: "??=", ARROW: "=>",

	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", STAR_STAR: "**",
	EQ: "==", NOT_EQ: "!=",
	EQ_EQ_EQ: "===", NOT_EQ_EQ: "!==",
	LT: "<", GT: ">", LT_EQ: "<=", GT_EQ: ">=", LT_LT: "<<", GT_GT: ">>", GT_GTGT: ">>>",
	AMP: "&", PIPE: "|", CARET: "^", TILDE: "~", BANG: "!",
	AMP_AMP: "&&", PIPE_PIPE: "||",

	ASSIGN: "=", PLUS_EQ: "+=", MINUS_EQ: "-=", STAR_EQ: "*=", SLASH_EQ: "/=",
	PERCENT_EQ: "%=", STAR_STAR_EQ: "**=", LT_LT_EQ: "<<=", GT_GT_EQ: ">>=",
	GT_GTGT_EQ: ">>>=", AMP_EQ: "&=", PIPE_EQ: "|=", CARET_EQ: "^=",
	AMP_AMP_EQ: "&&=", PIPE_PIPE_EQ: "||=",

	PLUS_PLUS: "++", MINUS_MINUS: "--", AT: "@",
}

// String returns the canonical spelling or category name for tt.
func (tt TokenType) String() string {
	if name, ok := tokenTypeNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}
