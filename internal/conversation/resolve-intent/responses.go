package resolveintent

import (
	"errors"
	"fmt"
	"strings"

	apperrors "storebot/internal/common/errors"
	"storebot/internal/models"
)

const (
	HoursResponse    = "Our business hours are Monday to Friday, 9am to 5pm. We're closed on weekends and holidays."
	LocationResponse = "We are located at 123 Business Street, Cityville. You can find us easily using GPS or public transportation."
	ServicesResponse = "We offer a variety of services including consulting, development, and support. Let us know how we can assist you."
	ContactResponse  = "You can reach us by phone at 555-1234 or via email at info@example.com. We're always happy to help."
	CareersResponse  = "We're always looking for talented individuals to join our team. Check our careers page for current openings."
	FAQResponse      = "Please visit our FAQs page for answers to frequently asked questions. If you can't find what you're looking for, feel free to ask us directly."
	FallbackResponse = "I'm sorry, I didn't understand your question. Could you please rephrase or provide more details?"

	UnavailableResponse = "I'm having trouble accessing that information right now. Please try again later."

	ProductNotFoundResponse  = "Sorry, I couldn't find any product with that name."
	EmployeeNotFoundResponse = "Sorry, I couldn't find any employee with that name."
	OrdersNotFoundResponse   = "Sorry, I couldn't find any orders for that customer."
	NoProductsResponse       = "We don't have any products listed right now."

	orderDateLayout = "2006-01-02"
)

func organizationResponse(text string) string {
	return fmt.Sprintf("You mentioned '%s'. How can I assist you with this organization?", text)
}

func locationEntityResponse(text string) string {
	return fmt.Sprintf("You mentioned '%s'. Are you asking about a location?", text)
}

// isNotFound reports whether err means "nothing to show" rather than a failure.
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidFragment)
}

func renderProduct(p *models.Product, err error) string {
	switch {
	case err == nil && p != nil:
		return fmt.Sprintf("The %s costs $%.2f. %s. We currently have %d in stock.",
			p.Name, p.Price, strings.TrimSuffix(p.Description, "."), p.StockQuantity)
	case err == nil || isNotFound(err):
		return ProductNotFoundResponse
	default:
		return UnavailableResponse
	}
}

func renderEmployee(e *models.Employee, err error) string {
	switch {
	case err == nil && e != nil:
		return fmt.Sprintf("%s is our %s. You can reach them at %s.", e.Name, e.Position, e.Email)
	case err == nil || isNotFound(err):
		return EmployeeNotFoundResponse
	default:
		return UnavailableResponse
	}
}

func renderOrders(orders []models.Order, err error) string {
	if err != nil {
		if isNotFound(err) {
			return OrdersNotFoundResponse
		}
		return UnavailableResponse
	}
	if len(orders) == 0 {
		return OrdersNotFoundResponse
	}

	lines := make([]string, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, fmt.Sprintf("Customer: %s, Order ID: %d, Date: %s, Total: $%.2f",
			o.CustomerName, o.OrderID, o.OrderDate.Format(orderDateLayout), o.Total))
	}
	return strings.Join(lines, "\n")
}

func renderProductNames(names []string, err error) string {
	if err != nil {
		if isNotFound(err) {
			return NoProductsResponse
		}
		return UnavailableResponse
	}
	if len(names) == 0 {
		return NoProductsResponse
	}
	return strings.Join(names, ", ")
}
