package clientcode

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/clientcontacts-backend/internal/domain/aggregates"
)

type takenSet map[string]bool

func (s takenSet) CodeExists(_ context.Context, code string) (bool, error) { return s[code], nil }

func TestPrefix(t *testing.T) {
	cases := map[string]string{
		"First National Bank": "FNB",
		"Protea":              "PRO",
		"IT":                  "ITA",
		"x":                   "XAB",
		"":                    "ABC",
		"3M":                  "MAB",
		"  a-b.c d":           "ABC",
		"acme corp":           "ACM",
	}
	for in, want := range cases {
		if got := Prefix(in); got != want {
			t.Fatalf("Prefix(%q): got %q want %q", in, got, want)
		}
	}
}

func TestGenerate_FirstCodeIs001(t *testing.T) {
	g := New(takenSet{})
	for name, want := range map[string]string{
		"First National Bank": "FNB001",
		"Protea":              "PRO001",
		"IT":                  "ITA001",
		"Acme Corp":           "ACM001",
	} {
		got, err := g.Generate(context.Background(), name)
		if err != nil {
			t.Fatalf("Generate(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("Generate(%q): got %q want %q", name, got, want)
		}
		if !Valid(got) {
			t.Fatalf("Generate(%q) produced invalid code %q", name, got)
		}
	}
}

func TestGenerate_SkipsTakenCodes(t *testing.T) {
	g := New(takenSet{"PRO001": true, "PRO002": true, "PRO004": true})
	got, err := g.Generate(context.Background(), "Protea")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "PRO003" {
		t.Fatalf("expected PRO003, got %q", got)
	}
}

func TestGenerate_ExhaustedPrefix(t *testing.T) {
	taken := takenSet{}
	for i := 1; i <= MaxSuffix; i++ {
		taken[Format("FNB", i)] = true
	}
	_, err := New(taken).Generate(context.Background(), "First National Bank")
	if !aggregates.IsCode(err, aggregates.CodeResourceExhausted) {
		t.Fatalf("expected resource_exhausted, got %v", err)
	}
	var aggErr *aggregates.Error
	if !errors.As(err, &aggErr) || aggErr.Message != "all client codes exhausted for prefix 'FNB'" {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestGenerate_PropagatesOracleError(t *testing.T) {
	boom := errors.New("db down")
	g := New(OracleFunc(func(context.Context, string) (bool, error) { return false, boom }))
	if _, err := g.Generate(context.Background(), "Acme"); !errors.Is(err, boom) {
		t.Fatalf("expected oracle error, got %v", err)
	}
}

func TestGenerate_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	g := New(OracleFunc(func(context.Context, string) (bool, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return true, nil
	}))
	if _, err := g.Generate(ctx, "Acme"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected generation to stop after 3 checks, got %d", calls)
	}
}

func TestValid(t *testing.T) {
	for code, want := range map[string]bool{
		"ACM001":  true,
		"acm001":  false,
		"AC0001":  false,
		"ACM01":   false,
		"ACM0011": false,
		"ACM00A":  false,
	} {
		if got := Valid(code); got != want {
			t.Fatalf("Valid(%q): got %v want %v", code, got, want)
		}
	}
}
