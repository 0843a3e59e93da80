package services

import (
	"strings"

	"agence-backend/models"
)

// BuildPayload shapes a valid draft into what the backend expects. Field
// presence depends on both the reservation type and the operation:
//
//   - flight_ticket create: nested details_vol + beneficiary flag (+ inline
//     passenger when the traveller is not the client).
//   - flight_ticket update: the same flight fields flattened at the top
//     level, and no beneficiary/passenger at all. The passenger is not
//     mutable through update; that asymmetry is the backend's contract,
//     keep it as is.
//
// The deposit is never part of this payload; it goes through ApplyDeposit
// after the reservation exists.
func BuildPayload(d ReservationDraft, isEdit bool) map[string]any {
	policy := PolicyFor(d.Type)

	payload := map[string]any{
		"type":             d.Type,
		"nombre_personnes": normalizedHeadCount(d),
	}

	// Client: exactly one of client_id / client survives.
	if d.ClientMode == ClientModeNew && d.ClientInline != nil {
		payload["client"] = map[string]any{
			"nom":       strings.TrimSpace(d.ClientInline.Nom),
			"telephone": strings.TrimSpace(d.ClientInline.Telephone),
			"email":     strings.TrimSpace(d.ClientInline.Email),
		}
	} else if d.ClientID != nil {
		payload["client_id"] = *d.ClientID
	}

	if ref := strings.TrimSpace(d.Reference); ref != "" {
		payload["reference"] = ref
	}
	if notes := strings.TrimSpace(d.Notes); notes != "" {
		payload["notes"] = notes
	}

	switch policy.RequiresLinkedEntity {
	case LinkedProduct:
		if d.LinkedProductID != nil {
			payload["produit_id"] = *d.LinkedProductID
		}
	case LinkedForfait:
		if d.LinkedForfaitID != nil {
			payload["forfait_id"] = *d.LinkedForfaitID
		}
	}

	if policy.RequiresParticipants {
		payload["participants"] = filterParticipants(d.Participants)
	}

	if policy.AmountShape == AmountSubtotalPlusTaxes {
		payload["montant_sous_total"] = d.PurchaseSubtotal
		payload["montant_taxes"] = d.Surcharge
		// Informational: the backend recomputes the authoritative total.
		payload["montant_total"] = d.PurchaseSubtotal + d.Surcharge
	} else {
		payload["montant_total"] = d.Total
	}

	if d.Type == models.TypeFlightTicket && d.Flight != nil {
		buildFlightFields(payload, d.Flight, isEdit)
	}

	return payload
}

func normalizedHeadCount(d ReservationDraft) int {
	if d.Type == models.TypeCar {
		return 1
	}
	if d.HeadCount < 1 {
		return 1
	}
	return d.HeadCount
}

// filterParticipants keeps only entries with a non-blank name.
func filterParticipants(in []models.Participant) []models.Participant {
	out := make([]models.Participant, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.Nom) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func buildFlightFields(payload map[string]any, f *FlightDraft, isEdit bool) {
	if isEdit {
		// Update contract: flight fields flattened at the top level, and no
		// passenger or beneficiary key in any mode.
		payload["ville_depart"] = strings.TrimSpace(f.DepartureCity)
		payload["ville_arrivee"] = strings.TrimSpace(f.ArrivalCity)
		payload["date_depart"] = strings.TrimSpace(f.DepartureDate)
		payload["date_retour"] = nullableString(f.ArrivalDate)
		payload["compagnie"] = nullableString(f.Airline)
		payload["pnr"] = strings.TrimSpace(f.RecordLocator)
		payload["classe"] = strings.TrimSpace(f.CabinClass)
		return
	}

	payload["details_vol"] = map[string]any{
		"ville_depart":  strings.TrimSpace(f.DepartureCity),
		"ville_arrivee": strings.TrimSpace(f.ArrivalCity),
		"date_depart":   strings.TrimSpace(f.DepartureDate),
		"date_retour":   nullableString(f.ArrivalDate),
		"compagnie":     nullableString(f.Airline),
		"pnr":           strings.TrimSpace(f.RecordLocator),
		"classe":        strings.TrimSpace(f.CabinClass),
	}
	payload["beneficiary_is_client"] = f.Beneficiary != BeneficiaryOther
	if f.Beneficiary == BeneficiaryOther {
		payload["passenger"] = map[string]any{
			"name":       strings.TrimSpace(f.PassengerName),
			"first_name": strings.TrimSpace(f.PassengerFirstName),
		}
	}
}

func nullableString(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}
