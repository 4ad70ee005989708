package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// PostingLine is a single debit or credit row of a posting. Exactly one of
// Debit/Credit must be non-zero.
type PostingLine struct {
	AccountCode string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	RelatedID   *int64
	RelatedType *string
}

// Posting is the balanced set of ledger rows produced by one business
// event. It is validated as a whole before anything is appended, so a
// partially written event can never reach the ledger.
type Posting struct {
	Date  string
	Lines []PostingLine
}

// Normalize trims fields and defaults a blank date to today's local
// calendar date. Local, not UTC: a late-evening sale must not post into
// tomorrow's (or last month's) ledger period.
func (p *Posting) Normalize() {
	p.Date = strings.TrimSpace(p.Date)
	if p.Date == "" {
		p.Date = time.Now().Format(dateLayout)
	}
	for i := range p.Lines {
		p.Lines[i].AccountCode = strings.TrimSpace(p.Lines[i].AccountCode)
	}
}

// Validate enforces the ledger balance invariant: at least two lines, every
// line strictly one-sided with a positive amount, and total debits exactly
// equal to total credits.
func (p *Posting) Validate() error {
	if _, err := time.Parse(dateLayout, p.Date); err != nil {
		return fmt.Errorf("invalid entry date %q: %w", p.Date, err)
	}

	if len(p.Lines) < 2 {
		return errors.New("posting must have at least 2 lines")
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for i, line := range p.Lines {
		if line.AccountCode == "" {
			return fmt.Errorf("line %d: missing account code", i+1)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line %d: amounts cannot be negative for account %s", i+1, line.AccountCode)
		}
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("line %d: exactly one of debit/credit must be non-zero for account %s", i+1, line.AccountCode)
		}
		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("posting imbalance: debits %s != credits %s", totalDebit, totalCredit)
	}

	return nil
}

// TotalDebits returns the sum of all debit amounts.
func (p *Posting) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Debit)
	}
	return total
}

// TotalCredits returns the sum of all credit amounts.
func (p *Posting) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Credit)
	}
	return total
}

func debitLine(code string, amount decimal.Decimal, desc string) PostingLine {
	return PostingLine{AccountCode: code, Debit: amount, Description: desc}
}

func creditLine(code string, amount decimal.Decimal, desc string) PostingLine {
	return PostingLine{AccountCode: code, Credit: amount, Description: desc}
}

func related(line PostingLine, id int64, relatedType string) PostingLine {
	line.RelatedID = &id
	line.RelatedType = &relatedType
	return line
}
