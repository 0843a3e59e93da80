package services

import (
	"testing"
	"time"

	"agence-backend/models"
)

func pay(amount float64, statut string) models.Payment {
	return models.Payment{Montant: amount, Statut: statut}
}

func TestComputeSettlement_PaidOnlyCountsReceived(t *testing.T) {
	cases := []struct {
		name     string
		total    float64
		payments []models.Payment
		paid     float64
	}{
		{"empty", 100000, nil, 0},
		{"received only", 100000, []models.Payment{pay(40000, "received")}, 40000},
		{"legacy empty statut counts", 100000, []models.Payment{pay(40000, "")}, 40000},
		{"pending excluded", 100000, []models.Payment{pay(40000, "received"), pay(20000, "pending")}, 40000},
		{"cancelled excluded", 100000, []models.Payment{pay(40000, "cancelled"), pay(10000, "received")}, 10000},
		{"mixed", 100000, []models.Payment{pay(10000, "received"), pay(5000, ""), pay(99999, "pending")}, 15000},
	}
	for _, tc := range cases {
		view := ComputeSettlement(tc.total, tc.payments)
		if view.Paid != tc.paid {
			t.Fatalf("%s: expected paid %v, got %v", tc.name, tc.paid, view.Paid)
		}
	}
}

func TestComputeSettlement_ScenarioPartial(t *testing.T) {
	view := ComputeSettlement(100000, []models.Payment{
		{Montant: 40000, Statut: models.PaymentStatusReceived},
		{Montant: 20000, Statut: models.PaymentStatusPending},
	})

	if view.Total != 100000 {
		t.Fatalf("expected total 100000, got %v", view.Total)
	}
	if view.Paid != 40000 {
		t.Fatalf("expected paid 40000, got %v", view.Paid)
	}
	if view.Remaining != 60000 {
		t.Fatalf("expected remaining 60000, got %v", view.Remaining)
	}
	if view.Percent != 40 {
		t.Fatalf("expected percent 40, got %d", view.Percent)
	}
	if view.Status != models.SettlementPartial {
		t.Fatalf("expected status partial, got %s", view.Status)
	}
}

func TestComputeSettlement_StatusBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		total   float64
		paid    float64
		status  string
		percent int
	}{
		{"unpaid at zero", 50000, 0, models.SettlementUnpaid, 0},
		{"partial low", 50000, 1, models.SettlementPartial, 0},
		{"partial high", 50000, 49999, models.SettlementPartial, 100},
		{"paid exact", 50000, 50000, models.SettlementPaid, 100},
		{"overpaid clamps", 50000, 80000, models.SettlementPaid, 100},
	}
	for _, tc := range cases {
		view := ComputeSettlement(tc.total, []models.Payment{pay(tc.paid, "received")})
		if view.Status != tc.status {
			t.Fatalf("%s: expected status %s, got %s", tc.name, tc.status, view.Status)
		}
		if view.Percent != tc.percent {
			t.Fatalf("%s: expected percent %d, got %d", tc.name, tc.percent, view.Percent)
		}
	}
}

func TestComputeSettlement_NonPositiveTotal(t *testing.T) {
	view := ComputeSettlement(0, []models.Payment{pay(10000, "received")})
	if view.Percent != 0 {
		t.Fatalf("expected percent 0 on zero total, got %d", view.Percent)
	}
	if view.Status != models.SettlementUnpaid {
		// paid > 0 but total == 0: not "paid" because total must be positive
		t.Fatalf("expected unpaid-or-partial, got %s", view.Status)
	}

	neg := ComputeSettlement(-5000, nil)
	if neg.Total != -5000 {
		t.Fatalf("negative total must be preserved for display, got %v", neg.Total)
	}
	if neg.Percent != 0 {
		t.Fatalf("expected percent 0 on negative total, got %d", neg.Percent)
	}
}

func TestComputeSettlement_RemainingNeverNegative(t *testing.T) {
	view := ComputeSettlement(30000, []models.Payment{pay(50000, "received")})
	if view.Remaining != 0 {
		t.Fatalf("expected remaining 0 on overpayment, got %v", view.Remaining)
	}
}

func TestLatestInvoice(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	if got := LatestInvoice(nil); got != nil {
		t.Fatalf("expected nil for empty list, got %+v", got)
	}

	invoices := []models.Invoice{
		{ID: 1, CreatedAt: day(1), DateFacture: day(1)},
		{ID: 2, CreatedAt: day(3), DateFacture: day(2)},
		{ID: 3, CreatedAt: day(2), DateFacture: day(9)},
	}
	if got := LatestInvoice(invoices); got.ID != 2 {
		t.Fatalf("expected latest created_at to win (id 2), got id %d", got.ID)
	}

	// created_at ties (or missing): latest date_facture breaks the tie.
	tied := []models.Invoice{
		{ID: 4, DateFacture: day(5)},
		{ID: 5, DateFacture: day(7)},
		{ID: 6, DateFacture: day(6)},
	}
	if got := LatestInvoice(tied); got.ID != 5 {
		t.Fatalf("expected date_facture tie-break (id 5), got id %d", got.ID)
	}
}

func TestSettleReservation_UsesLatestInvoiceOnly(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC) }

	r := models.Reservation{
		Factures: []models.Invoice{
			{ID: 1, CreatedAt: day(1), MontantTotal: 100000, Paiements: []models.Payment{pay(100000, "received")}},
			{ID: 2, CreatedAt: day(2), MontantTotal: 150000, Paiements: []models.Payment{pay(50000, "received")}},
		},
	}

	view := SettleReservation(&r)
	if view == nil {
		t.Fatal("expected a settlement view")
	}
	// Never aggregated: only facture 2 counts.
	if view.Total != 150000 || view.Paid != 50000 {
		t.Fatalf("expected latest facture only (150000/50000), got %v/%v", view.Total, view.Paid)
	}
	if r.Factures[1].Settlement == nil {
		t.Fatal("expected the view attached to the latest facture")
	}

	empty := models.Reservation{}
	if got := SettleReservation(&empty); got != nil {
		t.Fatalf("expected nil view without factures, got %+v", got)
	}
}
