package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Reservation type discriminators. Every type-dependent rule in the system
// keys off these values.
const (
	TypeFlightTicket = "flight_ticket"
	TypeHotel        = "hotel"
	TypeCar          = "car"
	TypeEvent        = "event"
	TypePackage      = "package"
)

// FlightDetails is the nested shape of flight-specific fields. Responses
// carry it under "details_vol"; the same fields also exist flattened as
// columns because the update contract writes them at the top level.
type FlightDetails struct {
	VilleDepart  string `json:"ville_depart"`
	VilleArrivee string `json:"ville_arrivee"`
	DateDepart   string `json:"date_depart"`
	DateRetour   string `json:"date_retour,omitempty"`
	Compagnie    string `json:"compagnie,omitempty"`
	PNR          string `json:"pnr,omitempty"`
	Classe       string `json:"classe,omitempty"`
}

// FlightPassenger is the inline beneficiary block when the traveller is not
// the client who booked.
type FlightPassenger struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name,omitempty"`
}

// Participant is one traveller attached to an event or forfait reservation.
type Participant struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom,omitempty"`
	Passeport string `json:"passeport,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Remarques string `json:"remarques,omitempty"`
}

type Reservation struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference string `gorm:"column:reference;size:64;index" json:"reference"`
	Type      string `gorm:"column:type;size:32;index" json:"type"`
	Statut    string `gorm:"column:statut;size:32;default:confirmee" json:"statut"`

	ClientID uint   `gorm:"index;column:client_id" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	ProduitID *uint         `gorm:"column:produit_id;index" json:"produit_id,omitempty"`
	Produit   Product       `gorm:"foreignKey:ProduitID" json:"produit,omitempty"`
	ForfaitID *uint         `gorm:"column:forfait_id;index" json:"forfait_id,omitempty"`
	Forfait   TravelPackage `gorm:"foreignKey:ForfaitID" json:"forfait,omitempty"`

	NombrePersonnes int `gorm:"column:nombre_personnes;default:1" json:"nombre_personnes"`

	// Amounts. Flight tickets carry sous-total + taxes; every other type only
	// montant_total. The server recomputes montant_total for flights.
	MontantTotal     float64  `gorm:"column:montant_total" json:"montant_total"`
	MontantSousTotal *float64 `gorm:"column:montant_sous_total" json:"montant_sous_total,omitempty"`
	MontantTaxes     *float64 `gorm:"column:montant_taxes" json:"montant_taxes,omitempty"`

	// Flight fields, stored flat. Legacy rows predate the nested details_vol
	// block, so both shapes stay readable.
	VilleDepart  string     `gorm:"column:ville_depart;size:128" json:"ville_depart,omitempty"`
	VilleArrivee string     `gorm:"column:ville_arrivee;size:128" json:"ville_arrivee,omitempty"`
	DateDepart   *time.Time `gorm:"column:date_depart" json:"date_depart,omitempty"`
	DateRetour   *time.Time `gorm:"column:date_retour" json:"date_retour,omitempty"`
	Compagnie    string     `gorm:"column:compagnie;size:128" json:"compagnie,omitempty"`
	PNR          string     `gorm:"column:pnr;size:32" json:"pnr,omitempty"`
	Classe       string     `gorm:"column:classe;size:32" json:"classe,omitempty"`

	BeneficiaireEstClient *bool  `gorm:"column:beneficiaire_est_client" json:"beneficiary_is_client,omitempty"`
	PassagerNom           string `gorm:"column:passager_nom;size:255" json:"-"`
	PassagerPrenom        string `gorm:"column:passager_prenom;size:255" json:"-"`

	Participants datatypes.JSON `gorm:"column:participants" json:"participants,omitempty"`

	Notes string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	// Computed blocks, not persisted: the preferred nested response shape.
	DetailsVol *FlightDetails   `gorm:"-" json:"details_vol,omitempty"`
	Passager   *FlightPassenger `gorm:"-" json:"passenger,omitempty"`

	Factures []Invoice `gorm:"foreignKey:ReservationID" json:"factures,omitempty"`
}

// AfterFind populates the nested details_vol / passenger blocks from the flat
// columns so API consumers always get the nested shape.
func (r *Reservation) AfterFind(tx *gorm.DB) error {
	r.HydrateNested()
	return nil
}

// HydrateNested rebuilds DetailsVol and Passager from the flat columns.
func (r *Reservation) HydrateNested() {
	if r.Type != TypeFlightTicket {
		r.DetailsVol = nil
		r.Passager = nil
		return
	}
	fd := FlightDetails{
		VilleDepart:  r.VilleDepart,
		VilleArrivee: r.VilleArrivee,
		Compagnie:    r.Compagnie,
		PNR:          r.PNR,
		Classe:       r.Classe,
	}
	if r.DateDepart != nil {
		fd.DateDepart = r.DateDepart.Format("2006-01-02")
	}
	if r.DateRetour != nil {
		fd.DateRetour = r.DateRetour.Format("2006-01-02")
	}
	r.DetailsVol = &fd

	if r.PassagerNom != "" {
		r.Passager = &FlightPassenger{Name: r.PassagerNom, FirstName: r.PassagerPrenom}
	} else {
		r.Passager = nil
	}
}

// ParticipantList decodes the participants JSON column; malformed or empty
// data yields an empty list, never an error.
func (r *Reservation) ParticipantList() []Participant {
	if len(r.Participants) == 0 {
		return []Participant{}
	}
	var out []Participant
	if err := json.Unmarshal(r.Participants, &out); err != nil {
		return []Participant{}
	}
	return out
}
