// Package clientcode derives unique six character client codes: three uppercase letters taken
// from the client name followed by a three digit sequence number.
//
//	"First National Bank" -> FNB001
//	"Protea"              -> PRO001
//	"IT"                  -> ITA001
package clientcode

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

const (
	PrefixLen = 3
	MaxSuffix = 999
)

// Oracle reports whether a code is already taken.
type Oracle interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// OracleFunc adapts a function to Oracle.
type OracleFunc func(ctx context.Context, code string) (bool, error)

func (f OracleFunc) CodeExists(ctx context.Context, code string) (bool, error) { return f(ctx, code) }

type Generator struct {
	oracle Oracle
}

func New(oracle Oracle) *Generator {
	return &Generator{oracle: oracle}
}

// Prefix returns the first three letters of name, uppercased, padded with A, B, C...
func Prefix(name string) string {
	out := make([]rune, 0, PrefixLen)
	for _, r := range name {
		if len(out) == PrefixLen {
			break
		}
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
	}
	for pad := 'A'; len(out) < PrefixLen; pad++ {
		out = append(out, pad)
	}
	return string(out)
}

// Format joins a prefix and a sequence number into a code.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// Generate returns the first code for name's prefix the oracle reports as free.
// The check is not atomic; callers serialize per prefix and rely on the storage unique
// index to reject a lost race.
func (g *Generator) Generate(ctx context.Context, clientName string) (string, error) {
	const op = "clientcode.Generate"
	prefix := Prefix(clientName)
	for i := 1; i <= MaxSuffix; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code := Format(prefix, i)
		exists, err := g.oracle.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check client code %s: %w", code, err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", aggregates.ResourceExhausted(op, fmt.Sprintf("all client codes exhausted for prefix '%s'", prefix))
}

// Valid reports whether code has the shape Generate produces.
func Valid(code string) bool {
	runes := []rune(code)
	if len(runes) != PrefixLen+3 {
		return false
	}
	for _, r := range runes[:PrefixLen] {
		if !unicode.IsLetter(r) || unicode.ToUpper(r) != r {
			return false
		}
	}
	return strings.IndexFunc(string(runes[PrefixLen:]), func(r rune) bool { return r < '0' || r > '9' }) < 0
}
