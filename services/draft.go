package services

import (
	"strings"

	"agence-backend/models"
)

// Client selection mode of a draft.
const (
	ClientModeExisting = "existing"
	ClientModeNew      = "new"
)

// Beneficiary of a flight ticket.
const (
	BeneficiaryClient = "client"
	BeneficiaryOther  = "other"
)

// InlineClient is a client being created together with the reservation.
type InlineClient struct {
	Nom       string `json:"nom"`
	Telephone string `json:"telephone,omitempty"`
	Email     string `json:"email,omitempty"`
}

// FlightDraft holds flight-specific fields while composing. Dates stay
// strings ("2006-01-02") until submit; malformed backend dates degrade to
// empty and surface as validation errors, not load failures.
type FlightDraft struct {
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	DepartureDate string `json:"departureDate"`
	ArrivalDate   string `json:"arrivalDate,omitempty"`
	Airline       string `json:"airline,omitempty"`
	RecordLocator string `json:"recordLocator,omitempty"`
	CabinClass    string `json:"cabinClass,omitempty"`

	Beneficiary        string `json:"beneficiary"`
	PassengerName      string `json:"passengerName,omitempty"`
	PassengerFirstName string `json:"passengerFirstName,omitempty"`
}

// DepositDraft is the optional acompte recorded right after the reservation
// is saved. It never travels inside the reservation payload.
type DepositDraft struct {
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	Reference string  `json:"reference,omitempty"`
}

// ReservationDraft is the canonical in-memory shape of a reservation being
// composed or edited. Everything downstream of NormalizeDraft operates on
// this and only this.
type ReservationDraft struct {
	ID *uint `json:"id,omitempty"`

	ClientMode   string        `json:"clientMode"`
	ClientID     *uint         `json:"clientId,omitempty"`
	ClientInline *InlineClient `json:"clientInline,omitempty"`

	Type      string `json:"type"`
	HeadCount int    `json:"headCount"`

	Flight          *FlightDraft `json:"flight,omitempty"`
	LinkedProductID *uint        `json:"linkedProductId,omitempty"`
	LinkedForfaitID *uint        `json:"linkedForfaitId,omitempty"`

	Participants []models.Participant `json:"participants,omitempty"`

	// Amount fields. Flight tickets use subtotal+surcharge, everything else
	// the single total. PolicyFor(Type).AmountShape decides which applies.
	PurchaseSubtotal float64 `json:"purchaseSubtotal,omitempty"`
	Surcharge        float64 `json:"surcharge,omitempty"`
	Total            float64 `json:"total,omitempty"`

	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`

	Deposit *DepositDraft `json:"deposit,omitempty"`
}

// DisplayTotal is what the UI shows as the amount of the draft. The server
// stays authoritative for the persisted montant_total.
func (d *ReservationDraft) DisplayTotal() float64 {
	if PolicyFor(d.Type).AmountShape == AmountSubtotalPlusTaxes {
		return d.PurchaseSubtotal + d.Surcharge
	}
	return d.Total
}

// SetType switches the reservation type and clears every sub-structure the
// new type cannot carry: stale cross-type data must never survive a switch.
func (d *ReservationDraft) SetType(t string) {
	if d.Type == t {
		d.EnforceTypeInvariants()
		return
	}
	d.Type = t
	d.Flight = nil
	d.LinkedProductID = nil
	d.LinkedForfaitID = nil
	d.Participants = nil
	d.PurchaseSubtotal = 0
	d.Surcharge = 0
	d.Total = 0
	d.EnforceTypeInvariants()
}

// EnforceTypeInvariants drops whatever the current type disallows and applies
// the hard head-count rule for car rentals.
func (d *ReservationDraft) EnforceTypeInvariants() {
	policy := PolicyFor(d.Type)

	if d.Type != models.TypeFlightTicket {
		d.Flight = nil
		d.PurchaseSubtotal = 0
		d.Surcharge = 0
	} else {
		d.Total = 0
	}
	if policy.RequiresLinkedEntity != LinkedProduct {
		d.LinkedProductID = nil
	}
	if policy.RequiresLinkedEntity != LinkedForfait {
		d.LinkedForfaitID = nil
	}
	if !policy.RequiresParticipants {
		d.Participants = nil
	}

	if d.Type == models.TypeCar {
		d.HeadCount = 1
	} else if d.HeadCount < 1 {
		d.HeadCount = 1
	}
}

// NormalizeDraft turns a backend reservation (or nil, for a fresh wizard)
// into the canonical draft. This is the single place allowed to deal with
// shape ambiguity: nested details_vol wins over the flat columns, field by
// field; an explicit beneficiary flag wins over passenger presence.
func NormalizeDraft(raw *models.Reservation) ReservationDraft {
	if raw == nil {
		return ReservationDraft{
			ClientMode: ClientModeExisting,
			Type:       models.TypeFlightTicket,
			HeadCount:  1,
		}
	}

	d := ReservationDraft{
		ClientMode: ClientModeExisting,
		Type:       raw.Type,
		HeadCount:  raw.NombrePersonnes,
		Reference:  strings.TrimSpace(raw.Reference),
		Notes:      raw.Notes,
	}
	if raw.ID != 0 {
		id := raw.ID
		d.ID = &id
	}
	if raw.ClientID != 0 {
		cid := raw.ClientID
		d.ClientID = &cid
	}
	if !IsKnownType(d.Type) {
		d.Type = models.TypeFlightTicket
	}

	if d.Type == models.TypeFlightTicket {
		d.Flight = normalizeFlight(raw)
		if raw.MontantSousTotal != nil {
			d.PurchaseSubtotal = *raw.MontantSousTotal
		}
		if raw.MontantTaxes != nil {
			d.Surcharge = *raw.MontantTaxes
		}
	} else {
		d.Total = raw.MontantTotal
	}

	policy := PolicyFor(d.Type)
	switch policy.RequiresLinkedEntity {
	case LinkedProduct:
		d.LinkedProductID = raw.ProduitID
	case LinkedForfait:
		d.LinkedForfaitID = raw.ForfaitID
	}
	if policy.RequiresParticipants {
		if list := raw.ParticipantList(); len(list) > 0 {
			d.Participants = list
		}
	}

	d.EnforceTypeInvariants()
	return d
}

func normalizeFlight(raw *models.Reservation) *FlightDraft {
	f := &FlightDraft{}

	// Nested block preferred, flat columns as field-by-field fallback.
	nested := raw.DetailsVol
	if nested != nil {
		f.DepartureCity = nested.VilleDepart
		f.ArrivalCity = nested.VilleArrivee
		f.DepartureDate = nested.DateDepart
		f.ArrivalDate = nested.DateRetour
		f.Airline = nested.Compagnie
		f.RecordLocator = nested.PNR
		f.CabinClass = nested.Classe
	}
	if f.DepartureCity == "" {
		f.DepartureCity = raw.VilleDepart
	}
	if f.ArrivalCity == "" {
		f.ArrivalCity = raw.VilleArrivee
	}
	if f.DepartureDate == "" && raw.DateDepart != nil {
		f.DepartureDate = raw.DateDepart.Format("2006-01-02")
	}
	if f.ArrivalDate == "" && raw.DateRetour != nil {
		f.ArrivalDate = raw.DateRetour.Format("2006-01-02")
	}
	if f.Airline == "" {
		f.Airline = raw.Compagnie
	}
	if f.RecordLocator == "" {
		f.RecordLocator = raw.PNR
	}
	if f.CabinClass == "" {
		f.CabinClass = raw.Classe
	}

	// Beneficiary: explicit flag honored first, then passenger presence.
	switch {
	case raw.BeneficiaireEstClient != nil && *raw.BeneficiaireEstClient:
		f.Beneficiary = BeneficiaryClient
	case raw.BeneficiaireEstClient != nil:
		f.Beneficiary = BeneficiaryOther
	case raw.Passager != nil && strings.TrimSpace(raw.Passager.Name) != "":
		f.Beneficiary = BeneficiaryOther
	case strings.TrimSpace(raw.PassagerNom) != "":
		f.Beneficiary = BeneficiaryOther
	default:
		f.Beneficiary = BeneficiaryClient
	}
	if f.Beneficiary == BeneficiaryOther {
		if raw.Passager != nil {
			f.PassengerName = raw.Passager.Name
			f.PassengerFirstName = raw.Passager.FirstName
		}
		if f.PassengerName == "" {
			f.PassengerName = raw.PassagerNom
		}
		if f.PassengerFirstName == "" {
			f.PassengerFirstName = raw.PassagerPrenom
		}
	}

	return f
}
