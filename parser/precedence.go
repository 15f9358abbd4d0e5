package parser

import "github.com/deepnoodle-ai/schooljs/token"

// Operator precedence levels, from weakest to strongest binding.
const (
	LOWEST = iota
	ASSIGN
	TERNARY
	LOGIC_OR
	LOGIC_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALS
	LESSGREATER
	SHIFT
	SUM
	PRODUCT
	PREFIX
	CALL
)

// precedences maps token types to their precedence level when used as an
// infix operator.
var precedences = map[token.Type]int{
	token.ASSIGN:        ASSIGN,
	token.PLUS_EQ:       ASSIGN,
	token.MINUS_EQ:      ASSIGN,
	token.ASTERISK_EQ:   ASSIGN,
	token.SLASH_EQ:      ASSIGN,
	token.MOD_EQ:        ASSIGN,
	token.ARROW:         ASSIGN,
	token.QUESTION:      TERNARY,
	token.OR:            LOGIC_OR,
	token.AND:           LOGIC_AND,
	token.PIPE:          BIT_OR,
	token.CARET:         BIT_XOR,
	token.AMPERSAND:     BIT_AND,
	token.EQ:            EQUALS,
	token.NOT_EQ:        EQUALS,
	token.EQ_STRICT:     EQUALS,
	token.NOT_EQ_STRICT: EQUALS,
	token.LT:            LESSGREATER,
	token.LT_EQUALS:     LESSGREATER,
	token.GT:            LESSGREATER,
	token.GT_EQUALS:     LESSGREATER,
	token.IN:            LESSGREATER,
	token.INSTANCEOF:    LESSGREATER,
	token.LT_LT:         SHIFT,
	token.GT_GT:         SHIFT,
	token.GT_GT_GT:      SHIFT,
	token.PLUS:          SUM,
	token.MINUS:         SUM,
	token.ASTERISK:      PRODUCT,
	token.SLASH:         PRODUCT,
	token.MOD:           PRODUCT,
	token.LPAREN:        CALL,
	token.LBRACKET:      CALL,
	token.PERIOD:        CALL,
}
