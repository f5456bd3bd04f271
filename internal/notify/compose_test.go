package notify

import (
	"strings"
	"testing"

	"casedocs/internal/domain"
)

func TestCompose_ContainsAllFields(t *testing.T) {
	body := Compose("Asha", []string{"ID proof"}, domain.Appointment{
		Date:     "2024-05-01",
		Time:     "10:00",
		Location: "Room 4",
	})
	for _, want := range []string{"Asha", "ID proof", "2024-05-01", "10:00", "Room 4"} {
		if !strings.Contains(body, want) {
			t.Errorf("message missing %q:\n%s", want, body)
		}
	}
}

func TestCompose_ExactTemplate(t *testing.T) {
	body := Compose("Ravi", []string{"Lease agreement", "Rent receipts"}, domain.Appointment{
		Date:     "2024-06-12",
		Time:     "14:30",
		Location: "Court 2",
	})
	want := "Hello Ravi!\n\n" +
		"Please bring the following documents while meeting your lawyer:\n" +
		"• Lease agreement\n" +
		"• Rent receipts\n\n" +
		"Appointment Details:\n" +
		"Date: 2024-06-12\n" +
		"Time: 14:30\n" +
		"Location: Court 2\n\n" +
		"Please make sure to bring these documents safely.\n\n" +
		"Thank you!"
	if body != want {
		t.Fatalf("unexpected body:\n%q\nwant:\n%q", body, want)
	}
}

func TestCompose_EmptyDocuments(t *testing.T) {
	body := Compose("Asha", nil, domain.Appointment{})
	if strings.Contains(body, Bullet) {
		t.Errorf("expected no bullets, got:\n%s", body)
	}
	if !strings.Contains(body, "lawyer:\n\n\nAppointment Details:") {
		t.Errorf("expected empty bullet section, got:\n%q", body)
	}
}

func TestCompose_OneLinePerDocument(t *testing.T) {
	docs := []string{"A", "B", "C"}
	body := Compose("X", docs, domain.Appointment{})
	if n := strings.Count(body, "\n"+Bullet); n != len(docs) {
		t.Fatalf("expected %d bullet lines, got %d", len(docs), n)
	}
}
