// internal/pkg/email/types.go
package email

// EmailType categorizes outgoing messages
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderStatusUpdate EmailType = "order_status_update"
)

// Email represents an outgoing email message
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
	Type        EmailType
}

// OrderConfirmationData feeds the order confirmation template
type OrderConfirmationData struct {
	SiteName    string
	UserName    string
	OrderNumber string
	OrderTotal  string
}

// OrderStatusUpdateData feeds the status update template
type OrderStatusUpdateData struct {
	SiteName    string
	UserName    string
	OrderNumber string
	Status      string
}
