package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"agence-backend/models"

	"gorm.io/datatypes"
)

// PaymentRequest is what gets registered against a facture.
type PaymentRequest struct {
	Amount    float64 `json:"montant"`
	Method    string  `json:"methode"`
	Reference string  `json:"reference,omitempty"`
	Status    string  `json:"statut"`
}

// ReservationBackend is the persistence collaborator the wizard core talks
// to. The gorm services implement it in-process; tests substitute fakes.
type ReservationBackend interface {
	CreateReservation(ctx context.Context, payload map[string]any) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id uint, payload map[string]any) (*models.Reservation, error)
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)

	CreateInvoiceForReservation(ctx context.Context, reservationID uint, date time.Time) (*models.Invoice, error)
	IssueInvoice(ctx context.Context, invoiceID uint) error
	RegisterPayment(ctx context.Context, invoiceID uint, req PaymentRequest) (*models.Payment, error)
}

//
// ---------------------------------------------------------------------------
// Payload application: the receiving half of the wire contract.
// ---------------------------------------------------------------------------
//

// ApplyPayloadToReservation writes a reservation payload (as produced by
// BuildPayload or posted directly to the REST API) onto a model. Pure
// transform, duck-typed on purpose: values may arrive as native Go types
// (in-process wizard) or as JSON-decoded ones (HTTP).
//
// The inline "client" block is NOT handled here; the reservation service
// resolves it to a client_id before calling.
func ApplyPayloadToReservation(r *models.Reservation, payload map[string]any, isEdit bool) {
	if t := stringFrom(payload, "type"); t != "" {
		r.Type = t
	}
	if id, ok := uintFrom(payload, "client_id"); ok {
		r.ClientID = id
	}
	if n, ok := intFrom(payload, "nombre_personnes"); ok {
		r.NombrePersonnes = n
	}
	if r.NombrePersonnes < 1 {
		r.NombrePersonnes = 1
	}
	if r.Type == models.TypeCar {
		r.NombrePersonnes = 1
	}
	if ref := stringFrom(payload, "reference"); ref != "" {
		r.Reference = ref
	}
	if _, present := payload["notes"]; present {
		r.Notes = stringFrom(payload, "notes")
	}

	policy := PolicyFor(r.Type)

	switch policy.RequiresLinkedEntity {
	case LinkedProduct:
		if id, ok := uintFrom(payload, "produit_id"); ok {
			r.ProduitID = &id
		}
		r.ForfaitID = nil
	case LinkedForfait:
		if id, ok := uintFrom(payload, "forfait_id"); ok {
			r.ForfaitID = &id
		}
		r.ProduitID = nil
	default:
		r.ProduitID = nil
		r.ForfaitID = nil
	}

	if policy.RequiresParticipants {
		if raw, present := payload["participants"]; present {
			if buf, err := json.Marshal(raw); err == nil {
				r.Participants = datatypes.JSON(buf)
			}
		}
	} else {
		r.Participants = nil
	}

	applyAmounts(r, payload, policy)
	applyFlightFields(r, payload, isEdit)
	r.HydrateNested()
}

func applyAmounts(r *models.Reservation, payload map[string]any, policy TypePolicy) {
	if policy.AmountShape == AmountSubtotalPlusTaxes {
		sub, _ := floatFrom(payload, "montant_sous_total")
		taxes, _ := floatFrom(payload, "montant_taxes")
		r.MontantSousTotal = &sub
		r.MontantTaxes = &taxes
		// Authoritative recomputation, whatever total the client sent.
		r.MontantTotal = sub + taxes
		return
	}
	if total, ok := floatFrom(payload, "montant_total"); ok {
		r.MontantTotal = total
	}
	r.MontantSousTotal = nil
	r.MontantTaxes = nil
}

func applyFlightFields(r *models.Reservation, payload map[string]any, isEdit bool) {
	if r.Type != models.TypeFlightTicket {
		r.VilleDepart, r.VilleArrivee = "", ""
		r.DateDepart, r.DateRetour = nil, nil
		r.Compagnie, r.PNR, r.Classe = "", "", ""
		r.BeneficiaireEstClient = nil
		r.PassagerNom, r.PassagerPrenom = "", ""
		return
	}

	// Create sends a nested details_vol block, update sends the same fields
	// flat. Read whichever is present, nested first.
	fields := payload
	if nested, ok := payload["details_vol"].(map[string]any); ok {
		fields = nested
	}

	if v := stringFrom(fields, "ville_depart"); v != "" || hasKey(fields, "ville_depart") {
		r.VilleDepart = v
	}
	if v := stringFrom(fields, "ville_arrivee"); v != "" || hasKey(fields, "ville_arrivee") {
		r.VilleArrivee = v
	}
	if hasKey(fields, "date_depart") {
		r.DateDepart = parseDate(stringFrom(fields, "date_depart"))
	}
	if hasKey(fields, "date_retour") {
		r.DateRetour = parseDate(stringFrom(fields, "date_retour"))
	}
	if hasKey(fields, "compagnie") {
		r.Compagnie = stringFrom(fields, "compagnie")
	}
	if hasKey(fields, "pnr") {
		r.PNR = stringFrom(fields, "pnr")
	}
	if hasKey(fields, "classe") {
		r.Classe = stringFrom(fields, "classe")
	}

	// Beneficiary/passenger only exist on create; update never touches them.
	if isEdit {
		return
	}
	if v, ok := payload["beneficiary_is_client"].(bool); ok {
		r.BeneficiaireEstClient = &v
	}
	if p, ok := payload["passenger"].(map[string]any); ok {
		r.PassagerNom = stringFrom(p, "name")
		r.PassagerPrenom = stringFrom(p, "first_name")
	}
}

//
// ---------------------------------------------------------------------------
// Duck-typed readers. The payload may come from JSON (float64 numbers) or
// straight from the in-process builder (uint/int/float64).
// ---------------------------------------------------------------------------
//

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func stringFrom(m map[string]any, key string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok2 := v.(string); ok2 {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func floatFrom(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func intFrom(m map[string]any, key string) (int, bool) {
	f, ok := floatFrom(m, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func uintFrom(m map[string]any, key string) (uint, bool) {
	f, ok := floatFrom(m, key)
	if !ok || f < 0 {
		return 0, false
	}
	return uint(f), true
}

// parseDate is tolerant: "2006-01-02" or RFC3339, anything else is nil.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}
