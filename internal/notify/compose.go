// Package notify renders the client document checklist and hands it to the
// configured messaging transport.
package notify

import (
	"strings"

	"casedocs/internal/domain"
)

// Bullet prefixes every document line of a composed message.
const Bullet = "• "

// Compose renders the client message. It never fails: an empty document list
// yields an empty bullet section and the caller decides whether that is
// sendable.
func Compose(clientName string, documents []string, appt domain.Appointment) string {
	var sb strings.Builder

	sb.WriteString("Hello " + clientName + "!\n\n")
	sb.WriteString("Please bring the following documents while meeting your lawyer:\n")
	for i, doc := range documents {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(Bullet + doc)
	}
	sb.WriteString("\n\n")

	sb.WriteString("Appointment Details:\n")
	sb.WriteString("Date: " + appt.Date + "\n")
	sb.WriteString("Time: " + appt.Time + "\n")
	sb.WriteString("Location: " + appt.Location + "\n\n")

	sb.WriteString("Please make sure to bring these documents safely.\n\n")
	sb.WriteString("Thank you!")
	return sb.String()
}
