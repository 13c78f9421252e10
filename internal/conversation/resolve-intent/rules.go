package resolveintent

import (
	"context"
	"strings"
	"unicode"
)

// Responder produces the answer for a matched rule. question is the raw text.
type Responder func(ctx context.Context, lookup StoreLookup, question string) string

// Rule fires when the lowercased question contains any of its keywords.
type Rule struct {
	Name     string
	Keywords []string
	Respond  Responder
}

func (r Rule) Matches(lowered string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

func static(sentence string) Responder {
	return func(context.Context, StoreLookup, string) string {
		return sentence
	}
}

// DefaultRules returns the keyword table in evaluation order. The
// products-available phrases must precede "product", which contains them.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleHours, Keywords: []string{"hours", "opening hours"}, Respond: static(HoursResponse)},
		{Name: RuleLocation, Keywords: []string{"location", "address"}, Respond: static(LocationResponse)},
		{
			Name:     RuleProductsAvailable,
			Keywords: []string{"products available", "what products do you have available"},
			Respond: func(ctx context.Context, lookup StoreLookup, _ string) string {
				return renderProductNames(lookup.ListProductNames(ctx))
			},
		},
		{
			Name:     RuleProduct,
			Keywords: []string{"price", "cost", "product"},
			Respond: func(ctx context.Context, lookup StoreLookup, question string) string {
				return renderProduct(lookup.FindProduct(ctx, LastToken(question)))
			},
		},
		{
			Name:     RuleEmployee,
			Keywords: []string{"employee", "employees"},
			Respond: func(ctx context.Context, lookup StoreLookup, question string) string {
				return renderEmployee(lookup.FindEmployee(ctx, LastToken(question)))
			},
		},
		{
			Name:     RuleOrders,
			Keywords: []string{"order", "orders"},
			Respond: func(ctx context.Context, lookup StoreLookup, question string) string {
				return renderOrders(lookup.FindOrdersForCustomer(ctx, LastToken(question)))
			},
		},
		{Name: RuleServices, Keywords: []string{"services"}, Respond: static(ServicesResponse)},
		{Name: RuleContact, Keywords: []string{"contact", "phone", "email"}, Respond: static(ContactResponse)},
		{Name: RuleCareers, Keywords: []string{"career", "job"}, Respond: static(CareersResponse)},
		{Name: RuleFAQ, Keywords: []string{"faq"}, Respond: static(FAQResponse)},
	}
}

// LastToken returns the final whitespace-delimited word of question with
// surrounding punctuation removed.
func LastToken(question string) string {
	fields := strings.Fields(question)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimFunc(fields[len(fields)-1], func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}
