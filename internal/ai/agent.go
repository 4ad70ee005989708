// Package ai drafts ledger postings from natural-language event
// descriptions. The model only ever produces a draft; it is validated
// against the posting rules before anything is shown to the user, and
// nothing is appended to the ledger without an explicit commit through the
// engine's API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/shopspring/decimal"

	"jewelerp/internal/core"
)

// PostingDraftLine is one proposed ledger row.
type PostingDraftLine struct {
	AccountCode string `json:"account_code" jsonschema_description:"Account code from the chart of accounts, e.g. 1001"`
	Description string `json:"description" jsonschema_description:"Short human-readable line description"`
	Debit       string `json:"debit" jsonschema_description:"Debit amount as a decimal string, or 0 if this is a credit line"`
	Credit      string `json:"credit" jsonschema_description:"Credit amount as a decimal string, or 0 if this is a debit line"`
}

// PostingDraft is the model's proposed balanced entry plus its reasoning.
type PostingDraft struct {
	Date       string             `json:"date" jsonschema_description:"Entry date in YYYY-MM-DD format"`
	Summary    string             `json:"summary" jsonschema_description:"One-line summary of the business event"`
	Reasoning  string             `json:"reasoning" jsonschema_description:"Why these accounts and amounts were chosen"`
	Confidence float64            `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Lines      []PostingDraftLine `json:"lines" jsonschema_description:"The balanced set of debit and credit lines"`
}

// ToPosting converts the draft into a core posting and validates it, so a
// hallucinated or unbalanced draft is rejected here rather than downstream.
func (d *PostingDraft) ToPosting() (*core.Posting, error) {
	posting := core.Posting{Date: d.Date}
	for i, line := range d.Lines {
		debit, err := decimal.NewFromString(strings.TrimSpace(line.Debit))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid debit %q: %w", i+1, line.Debit, err)
		}
		credit, err := decimal.NewFromString(strings.TrimSpace(line.Credit))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid credit %q: %w", i+1, line.Credit, err)
		}
		if _, ok := core.AccountNames[strings.TrimSpace(line.AccountCode)]; !ok {
			return nil, fmt.Errorf("line %d: unknown account code %q", i+1, line.AccountCode)
		}
		posting.Lines = append(posting.Lines, core.PostingLine{
			AccountCode: line.AccountCode,
			Description: line.Description,
			Debit:       debit,
			Credit:      credit,
		})
	}
	posting.Normalize()
	if err := posting.Validate(); err != nil {
		return nil, fmt.Errorf("draft validation failed: %w", err)
	}
	return &posting, nil
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// DraftPosting asks the model to turn a natural-language event description
// into a balanced posting over the fixed chart of accounts. The returned
// draft has already passed ToPosting validation.
func (a *Agent) DraftPosting(ctx context.Context, event string) (*PostingDraft, error) {
	prompt := fmt.Sprintf(`You are the bookkeeper of a jewelry retailer.
Interpret the business event below and propose a double-entry ledger posting.
Rules:
1. Use ONLY account codes from the chart of accounts.
2. Debits MUST equal Credits.
3. Amounts are decimal strings, e.g. "1500.00". Exactly one of debit/credit per line is non-zero; the other is "0".
4. Provide a confidence score (0.0-1.0) and short reasoning.

Chart of Accounts:
%s

Event: %s`, chartOfAccounts(), event)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "ledger_posting_draft",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A draft double-entry ledger posting"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var draft PostingDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if _, err := draft.ToPosting(); err != nil {
		return nil, err
	}
	return &draft, nil
}

func chartOfAccounts() string {
	codes := make([]string, 0, len(core.AccountNames))
	for code := range core.AccountNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&b, "%s - %s\n", code, core.AccountNames[code])
	}
	return b.String()
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v PostingDraft
	return reflector.Reflect(v)
}
