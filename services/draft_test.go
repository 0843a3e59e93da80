package services

import (
	"reflect"
	"testing"
	"time"

	"gorm.io/datatypes"

	"agence-backend/models"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestNormalizeDraft_NilYieldsDefaults(t *testing.T) {
	d := NormalizeDraft(nil)

	if d.Type != models.TypeFlightTicket {
		t.Fatalf("expected default type flight_ticket, got %s", d.Type)
	}
	if d.ClientMode != ClientModeExisting {
		t.Fatalf("expected existing client mode, got %s", d.ClientMode)
	}
	if d.HeadCount != 1 {
		t.Fatalf("expected head count 1, got %d", d.HeadCount)
	}
	if d.ID != nil || d.ClientID != nil {
		t.Fatal("fresh draft must not carry ids")
	}
}

func TestNormalizeDraft_UnknownTypeFallsBack(t *testing.T) {
	d := NormalizeDraft(&models.Reservation{Type: "croisiere", NombrePersonnes: 2})
	if d.Type != models.TypeFlightTicket {
		t.Fatalf("unknown type must fall back to flight_ticket, got %s", d.Type)
	}
}

func TestNormalizeDraft_NestedFlightWinsOverFlat(t *testing.T) {
	dep := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	raw := &models.Reservation{
		ID:       12,
		ClientID: 3,
		Type:     models.TypeFlightTicket,

		VilleDepart: "Constantine",
		DateDepart:  &dep,
		Compagnie:   "Tassili",

		DetailsVol: &models.FlightDetails{
			VilleDepart:  "Alger",
			VilleArrivee: "Istanbul",
			DateDepart:   "2026-06-15",
		},
	}

	d := NormalizeDraft(raw)
	if d.Flight == nil {
		t.Fatal("expected a flight block")
	}
	if d.Flight.DepartureCity != "Alger" {
		t.Fatalf("nested ville_depart must win, got %s", d.Flight.DepartureCity)
	}
	if d.Flight.DepartureDate != "2026-06-15" {
		t.Fatalf("nested date must win, got %s", d.Flight.DepartureDate)
	}
	// Field-by-field: nested block missing compagnie falls back to the column.
	if d.Flight.Airline != "Tassili" {
		t.Fatalf("flat compagnie must fill the gap, got %s", d.Flight.Airline)
	}
	if d.ID == nil || *d.ID != 12 {
		t.Fatalf("expected draft id 12, got %v", d.ID)
	}
	if d.ClientID == nil || *d.ClientID != 3 {
		t.Fatalf("expected client id 3, got %v", d.ClientID)
	}
}

func TestNormalizeDraft_FlatFlightFallback(t *testing.T) {
	dep := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)
	raw := &models.Reservation{
		Type:         models.TypeFlightTicket,
		VilleDepart:  "Oran",
		VilleArrivee: "Marseille",
		DateDepart:   &dep,
		DateRetour:   &ret,
		PNR:          "XY9Q2K",
	}

	d := NormalizeDraft(raw)
	if d.Flight.DepartureCity != "Oran" || d.Flight.ArrivalCity != "Marseille" {
		t.Fatalf("unexpected cities: %s / %s", d.Flight.DepartureCity, d.Flight.ArrivalCity)
	}
	if d.Flight.DepartureDate != "2026-05-01" || d.Flight.ArrivalDate != "2026-05-09" {
		t.Fatalf("flat dates must format to 2006-01-02, got %s / %s", d.Flight.DepartureDate, d.Flight.ArrivalDate)
	}
	if d.Flight.RecordLocator != "XY9Q2K" {
		t.Fatalf("expected pnr carried over, got %s", d.Flight.RecordLocator)
	}
}

func TestNormalizeDraft_BeneficiaryInference(t *testing.T) {
	cases := []struct {
		name string
		raw  models.Reservation
		want string
	}{
		{
			"explicit flag true wins over passenger presence",
			models.Reservation{Type: models.TypeFlightTicket, BeneficiaireEstClient: boolPtr(true), PassagerNom: "Benali"},
			BeneficiaryClient,
		},
		{
			"explicit flag false",
			models.Reservation{Type: models.TypeFlightTicket, BeneficiaireEstClient: boolPtr(false)},
			BeneficiaryOther,
		},
		{
			"passenger presence implies other",
			models.Reservation{Type: models.TypeFlightTicket, PassagerNom: "Benali", PassagerPrenom: "Yacine"},
			BeneficiaryOther,
		},
		{
			"nothing implies client",
			models.Reservation{Type: models.TypeFlightTicket},
			BeneficiaryClient,
		},
	}
	for _, tc := range cases {
		d := NormalizeDraft(&tc.raw)
		if d.Flight.Beneficiary != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, d.Flight.Beneficiary)
		}
	}

	d := NormalizeDraft(&models.Reservation{
		Type:           models.TypeFlightTicket,
		PassagerNom:    "Benali",
		PassagerPrenom: "Yacine",
	})
	if d.Flight.PassengerName != "Benali" || d.Flight.PassengerFirstName != "Yacine" {
		t.Fatalf("passenger identity must be retained, got %s %s", d.Flight.PassengerName, d.Flight.PassengerFirstName)
	}
}

func TestNormalizeDraft_FlightAmounts(t *testing.T) {
	raw := &models.Reservation{
		Type:             models.TypeFlightTicket,
		MontantTotal:     850000,
		MontantSousTotal: floatPtr(700000),
		MontantTaxes:     floatPtr(150000),
	}
	d := NormalizeDraft(raw)
	if d.PurchaseSubtotal != 700000 || d.Surcharge != 150000 {
		t.Fatalf("expected 700000/150000, got %v/%v", d.PurchaseSubtotal, d.Surcharge)
	}
	if d.Total != 0 {
		t.Fatalf("flight drafts must not carry the single total, got %v", d.Total)
	}
}

func TestNormalizeDraft_PackageParticipants(t *testing.T) {
	raw := &models.Reservation{
		Type:            models.TypePackage,
		NombrePersonnes: 2,
		ForfaitID:       uintPtr(5),
		MontantTotal:    300000,
		Participants:    datatypes.JSON(`[{"nom":"Hadj","prenom":"Karim"},{"nom":"Saidi"}]`),
	}

	d := NormalizeDraft(raw)
	if d.LinkedForfaitID == nil || *d.LinkedForfaitID != 5 {
		t.Fatalf("expected forfait 5, got %v", d.LinkedForfaitID)
	}
	if len(d.Participants) != 2 || d.Participants[0].Nom != "Hadj" {
		t.Fatalf("unexpected participants: %+v", d.Participants)
	}
	if d.Total != 300000 {
		t.Fatalf("expected total 300000, got %v", d.Total)
	}
	if d.Flight != nil {
		t.Fatal("non-flight draft must not carry a flight block")
	}
}

func TestNormalizeDraft_Idempotent(t *testing.T) {
	raw := &models.Reservation{
		ID:              8,
		ClientID:        2,
		Type:            models.TypeHotel,
		ProduitID:       uintPtr(3),
		MontantTotal:    150000,
		NombrePersonnes: 2,
		Reference:       "RES-20260901-7KP4QX",
	}

	first := NormalizeDraft(raw)
	second := first
	second.EnforceTypeInvariants()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization must be stable:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSetType_ClearsCrossTypeState(t *testing.T) {
	d := NormalizeDraft(nil)
	d.Flight = &FlightDraft{DepartureCity: "Alger", ArrivalCity: "Paris", DepartureDate: "2026-10-01"}
	d.PurchaseSubtotal = 700000
	d.Surcharge = 150000

	d.SetType(models.TypeHotel)

	if d.Flight != nil {
		t.Fatal("switching away from flight must drop the flight block")
	}
	if d.PurchaseSubtotal != 0 || d.Surcharge != 0 {
		t.Fatal("switching away from flight must drop subtotal and surcharge")
	}
	if d.Type != models.TypeHotel {
		t.Fatalf("expected hotel, got %s", d.Type)
	}

	d.LinkedProductID = uintPtr(3)
	d.Total = 150000
	d.SetType(models.TypePackage)
	if d.LinkedProductID != nil {
		t.Fatal("packages link forfaits, the produit id must be cleared")
	}
	if d.Total != 0 {
		t.Fatal("amounts must reset on a type switch")
	}
}

func TestSetType_SameTypeKeepsState(t *testing.T) {
	d := NormalizeDraft(nil)
	d.Flight = &FlightDraft{DepartureCity: "Alger"}
	d.PurchaseSubtotal = 500

	d.SetType(models.TypeFlightTicket)
	if d.Flight == nil || d.PurchaseSubtotal != 500 {
		t.Fatal("re-selecting the current type must not wipe the draft")
	}
}

func TestEnforceTypeInvariants_CarHeadCount(t *testing.T) {
	d := ReservationDraft{Type: models.TypeCar, HeadCount: 4}
	d.EnforceTypeInvariants()
	if d.HeadCount != 1 {
		t.Fatalf("car rentals are pinned to one person, got %d", d.HeadCount)
	}

	d = ReservationDraft{Type: models.TypeHotel, HeadCount: 0}
	d.EnforceTypeInvariants()
	if d.HeadCount != 1 {
		t.Fatalf("head count floor is 1, got %d", d.HeadCount)
	}
}

func TestDisplayTotal(t *testing.T) {
	flight := ReservationDraft{Type: models.TypeFlightTicket, PurchaseSubtotal: 700000, Surcharge: 150000}
	if got := flight.DisplayTotal(); got != 850000 {
		t.Fatalf("expected 850000, got %v", got)
	}
	hotel := ReservationDraft{Type: models.TypeHotel, Total: 150000}
	if got := hotel.DisplayTotal(); got != 150000 {
		t.Fatalf("expected 150000, got %v", got)
	}
}
