package core_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jewelerp/internal/core"
)

func TestPosting_Normalize_DefaultsDate(t *testing.T) {
	p := core.Posting{Date: "  "}
	p.Normalize()
	want := time.Now().Format("2006-01-02")
	if p.Date != want {
		t.Errorf("date = %q, want today %q", p.Date, want)
	}
}

func TestPosting_Validate(t *testing.T) {
	line := func(code string, debit, credit string) core.PostingLine {
		return core.PostingLine{
			AccountCode: code,
			Debit:       decimal.RequireFromString(debit),
			Credit:      decimal.RequireFromString(credit),
		}
	}

	tests := []struct {
		name      string
		posting   core.Posting
		expectErr bool
	}{
		{
			name: "balanced two lines",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "0"),
				line("4001", "0", "500"),
			}},
		},
		{
			name: "balanced four lines",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "0"),
				line("4001", "0", "500"),
				line("5001", "200", "0"),
				line("1200", "0", "200"),
			}},
		},
		{
			name: "imbalanced",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "0"),
				line("4001", "0", "400"),
			}},
			expectErr: true,
		},
		{
			name: "single line",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "0"),
			}},
			expectErr: true,
		},
		{
			name: "both sides set on one line",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "500"),
				line("4001", "0", "0"),
			}},
			expectErr: true,
		},
		{
			name: "zero-amount line",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "500", "0"),
				line("4001", "0", "500"),
				line("5001", "0", "0"),
			}},
			expectErr: true,
		},
		{
			name: "negative amount",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("1001", "-500", "0"),
				line("4001", "0", "-500"),
			}},
			expectErr: true,
		},
		{
			name: "missing account code",
			posting: core.Posting{Date: "2026-08-01", Lines: []core.PostingLine{
				line("", "500", "0"),
				line("4001", "0", "500"),
			}},
			expectErr: true,
		},
		{
			name: "bad date",
			posting: core.Posting{Date: "01/08/2026", Lines: []core.PostingLine{
				line("1001", "500", "0"),
				line("4001", "0", "500"),
			}},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.posting.Validate()
			if tt.expectErr && err == nil {
				t.Errorf("expected error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPosting_Totals(t *testing.T) {
	p := core.Posting{Lines: []core.PostingLine{
		{AccountCode: "1001", Debit: decimal.RequireFromString("300")},
		{AccountCode: "5001", Debit: decimal.RequireFromString("200")},
		{AccountCode: "4001", Credit: decimal.RequireFromString("500")},
	}}
	if !p.TotalDebits().Equal(decimal.RequireFromString("500")) {
		t.Errorf("total debits = %s, want 500", p.TotalDebits())
	}
	if !p.TotalCredits().Equal(decimal.RequireFromString("500")) {
		t.Errorf("total credits = %s, want 500", p.TotalCredits())
	}
}
