// internal/conversation/resolve-intent/models.go
package resolveintent

import "storebot/internal/models"

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	Response string          `json:"response"`
	Rule     string          `json:"rule"`
	Entities []models.Entity `json:"entities"`
}

// Rule names reported in Output.Rule and as metric labels.
const (
	RuleOrganization      = "entity_organization"
	RuleLocationEntity    = "entity_location"
	RulePerson            = "entity_person"
	RuleHours             = "hours"
	RuleLocation          = "location"
	RuleProductsAvailable = "products_available"
	RuleProduct           = "product"
	RuleEmployee          = "employee"
	RuleOrders            = "orders"
	RuleServices          = "services"
	RuleContact           = "contact"
	RuleCareers           = "careers"
	RuleFAQ               = "faq"
	RuleFallback          = "fallback"
)
