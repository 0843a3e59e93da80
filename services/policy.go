package services

import (
	"agence-backend/models"
)

// LinkedEntity says which catalog entity a reservation type must reference.
type LinkedEntity string

const (
	LinkedNone    LinkedEntity = ""
	LinkedProduct LinkedEntity = "product"
	LinkedForfait LinkedEntity = "package"
)

// AmountShape says how the amount of a reservation is composed.
type AmountShape string

const (
	AmountSingle            AmountShape = "single"
	AmountSubtotalPlusTaxes AmountShape = "subtotalPlusSurcharge"
)

// TypePolicy is the per-type rule set consulted by the wizard validators and
// the payload builder. Nothing else may duplicate these rules.
type TypePolicy struct {
	RequiresDetail       bool
	RequiresParticipants bool
	RequiresLinkedEntity LinkedEntity
	AmountShape          AmountShape
}

var typePolicies = map[string]TypePolicy{
	models.TypeFlightTicket: {
		RequiresDetail:       true,
		RequiresParticipants: false,
		RequiresLinkedEntity: LinkedNone,
		AmountShape:          AmountSubtotalPlusTaxes,
	},
	models.TypeHotel: {
		RequiresDetail:       true,
		RequiresParticipants: false,
		RequiresLinkedEntity: LinkedProduct,
		AmountShape:          AmountSingle,
	},
	models.TypeCar: {
		RequiresDetail:       true,
		RequiresParticipants: false,
		RequiresLinkedEntity: LinkedProduct,
		AmountShape:          AmountSingle,
	},
	models.TypeEvent: {
		RequiresDetail:       true,
		RequiresParticipants: true,
		RequiresLinkedEntity: LinkedProduct,
		AmountShape:          AmountSingle,
	},
	models.TypePackage: {
		RequiresDetail:       false,
		RequiresParticipants: true,
		RequiresLinkedEntity: LinkedForfait,
		AmountShape:          AmountSingle,
	},
}

// PolicyFor returns the rule set for a reservation type. Unknown types get
// the flight policy's zero-risk cousin: everything off, single amount.
func PolicyFor(reservationType string) TypePolicy {
	if p, ok := typePolicies[reservationType]; ok {
		return p
	}
	return TypePolicy{AmountShape: AmountSingle}
}

// KnownTypes lists the valid reservation type discriminators.
func KnownTypes() []string {
	return []string{
		models.TypeFlightTicket,
		models.TypeHotel,
		models.TypeCar,
		models.TypeEvent,
		models.TypePackage,
	}
}

// IsKnownType reports whether t is a valid reservation type.
func IsKnownType(t string) bool {
	_, ok := typePolicies[t]
	return ok
}
