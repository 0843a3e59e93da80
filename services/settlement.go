package services

import (
	"math"

	"agence-backend/models"
)

// ComputeSettlement derives the paid/remaining view of a facture from its
// payment list. Pure function: every screen that shows settlement state calls
// this, nothing else is allowed to re-derive it.
//
// Only payments with statut "received" (or empty, legacy rows) count.
// A non-positive total yields percent 0 but the total is preserved for
// display.
func ComputeSettlement(total float64, payments []models.Payment) models.SettlementView {
	paid := 0.0
	for _, p := range payments {
		if p.Counts() {
			paid += p.Montant
		}
	}

	remaining := total - paid
	if remaining < 0 {
		remaining = 0
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(paid / total * 100))
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	status := models.SettlementPartial
	switch {
	case paid <= 0:
		status = models.SettlementUnpaid
	case total > 0 && paid >= total:
		status = models.SettlementPaid
	}

	return models.SettlementView{
		Total:     total,
		Paid:      paid,
		Remaining: remaining,
		Percent:   percent,
		Status:    status,
	}
}

// LatestInvoice picks the facture the settlement view is computed from when a
// reservation has several: most recently created wins, falling back to the
// latest date_facture when creation times tie or are missing. Factures are
// never aggregated.
func LatestInvoice(invoices []models.Invoice) *models.Invoice {
	if len(invoices) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(invoices); i++ {
		cur, b := invoices[i], invoices[best]
		switch {
		case cur.CreatedAt.After(b.CreatedAt):
			best = i
		case cur.CreatedAt.Equal(b.CreatedAt) && cur.DateFacture.After(b.DateFacture):
			best = i
		}
	}
	return &invoices[best]
}

// SettleReservation attaches the derived settlement view to the most recent
// facture of a reservation and returns it. Nil when there is no facture yet.
func SettleReservation(r *models.Reservation) *models.SettlementView {
	inv := LatestInvoice(r.Factures)
	if inv == nil {
		return nil
	}
	view := ComputeSettlement(inv.MontantTotal, inv.Paiements)
	inv.Settlement = &view
	return &view
}
