// pkg/invoice/invoice.go

package invoice

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/receipt-microservice/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	// DefaultDescription replaces a blank item description.
	DefaultDescription = "Service/Product"

	issueDateLayout   = "2006-01-02"
	displayDateLayout = "02/01/2006"
)

// Request represents the receipt data submitted by the form or JSON body.
type Request struct {
	CompanyName    string `json:"company_name"`
	CompanyDoc     string `json:"company_doc"`
	CompanyAddress string `json:"company_address"`
	ClientName     string `json:"client_name"`
	ClientDoc      string `json:"client_doc"`
	DocNumber      string `json:"doc_number"`
	IssueDate      string `json:"issue_date"`
	Description    string `json:"description"`
	// Value is a localized string ("1.234,50") or a JSON number.
	Value any `json:"value"`
}

// ParseJSON reads a Request from a JSON object. Each field is read on its
// own: numbers and booleans are kept as their JSON text, while nulls, objects
// and arrays leave the field empty. A body that is not valid JSON yields an
// empty Request.
func ParseJSON(body []byte) Request {
	if !gjson.ValidBytes(body) {
		return Request{}
	}
	doc := gjson.ParseBytes(body)

	return Request{
		CompanyName:    text(doc.Get("company_name")),
		CompanyDoc:     text(doc.Get("company_doc")),
		CompanyAddress: text(doc.Get("company_address")),
		ClientName:     text(doc.Get("client_name")),
		ClientDoc:      text(doc.Get("client_doc")),
		DocNumber:      text(doc.Get("doc_number")),
		IssueDate:      text(doc.Get("issue_date")),
		Description:    text(doc.Get("description")),
		Value:          amount(doc.Get("value")),
	}
}

func text(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number, gjson.True, gjson.False:
		return r.Raw
	}
	return ""
}

func amount(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.Str
	case gjson.Number:
		return json.Number(r.Raw)
	}
	return nil
}

// Item represents an item in the receipt.
type Item struct {
	Description string
	UnitCost    decimal.Decimal
	Quantity    int
	Amount      decimal.Decimal
}

// Item returns the single line the receipt carries.
func (r Request) Item() Item {
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		desc = DefaultDescription
	}
	value := money.Parse(r.Value)

	return Item{
		Description: desc,
		UnitCost:    value,
		Quantity:    1,
		Amount:      value,
	}
}

// Total is the sum of the receipt's items.
func (r Request) Total() decimal.Decimal {
	return r.Item().Amount
}

// FormattedIssueDate turns "2024-03-05" into "05/03/2024". Input that is
// not a valid date is returned as given.
func (r Request) FormattedIssueDate() string {
	return FormatDate(r.IssueDate)
}

func FormatDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := time.Parse(issueDateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format(displayDateLayout)
}
