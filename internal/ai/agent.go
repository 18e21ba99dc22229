package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"invoice-ledger/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AnalystReport is the structured answer to a natural language question
// about the billing data.
type AnalystReport struct {
	Answer   string   `json:"answer" jsonschema_description:"A concise, professional answer to the user's question, in Markdown"`
	Insights []string `json:"insights" jsonschema_description:"Up to three short actionable insights derived from the data; empty if none apply"`
}

type AgentService interface {
	AnswerQuery(ctx context.Context, question string, clients []core.Client, invoices []core.Invoice) (*AnalystReport, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// clientSnapshot is the simplified business data handed to the model.
type clientSnapshot struct {
	ClientName string            `json:"client_name"`
	Invoices   []invoiceSnapshot `json:"invoices"`
}

type invoiceSnapshot struct {
	InvoiceNumber string         `json:"invoice_number"`
	Status        string         `json:"status"`
	IssueDate     string         `json:"issue_date"`
	DueDate       string         `json:"due_date"`
	TotalAmount   string         `json:"total_amount"`
	BalanceDue    string         `json:"balance_due"`
	Items         []itemSnapshot `json:"items"`
}

type itemSnapshot struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// AnswerQuery asks the model a question over a JSON snapshot of all
// clients and their invoices, expecting a schema-constrained answer.
func (a *Agent) AnswerQuery(ctx context.Context, question string, clients []core.Client, invoices []core.Invoice) (*AnalystReport, error) {
	snapshot := buildSnapshot(clients, invoices)
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal business data: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert business analyst for an invoicing application.
Answer questions based only on the provided data. Be concise, professional, and actionable.
Today's date is %s. Use it to determine whether payments are late.

Here is the complete business data in JSON format:
%s

Question: %s`, time.Now().UTC().Format("2006-01-02"), string(data), question)

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
					Name:        "analyst_report",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A structured answer to a billing data question"),
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

	var report AnalystReport
	if err := json.Unmarshal([]byte(content), &report); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &report, nil
}

func buildSnapshot(clients []core.Client, invoices []core.Invoice) []clientSnapshot {
	byClient := make(map[string][]invoiceSnapshot)
	for i := range invoices {
		inv := &invoices[i]
		items := make([]itemSnapshot, len(inv.Items))
		for j, item := range inv.Items {
			items[j] = itemSnapshot{
				Name:     item.ItemName,
				Quantity: item.Quantity,
				Price:    item.UnitPrice.StringFixed(2),
			}
		}
		byClient[inv.ClientID] = append(byClient[inv.ClientID], invoiceSnapshot{
			InvoiceNumber: inv.InvoiceNumber,
			Status:        string(inv.Status),
			IssueDate:     inv.IssueDate.Format(time.RFC3339),
			DueDate:       inv.DueDate.Format(time.RFC3339),
			TotalAmount:   inv.Total.StringFixed(2),
			BalanceDue:    core.BalanceDue(inv).StringFixed(2),
			Items:         items,
		})
	}

	snapshot := make([]clientSnapshot, 0, len(clients))
	for _, c := range clients {
		snapshot = append(snapshot, clientSnapshot{
			ClientName: c.Name,
			Invoices:   byClient[c.ID],
		})
	}
	return snapshot
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v AnalystReport
	return reflector.Reflect(v)
}
