// Package domain holds the value types and pure rules of roadside service
// requests: service types and prices, statuses, and the geometry used to
// simulate an employee driving to the user.
package domain

import "fmt"

// ServiceType identifies the kind of roadside help requested.
type ServiceType string

const (
	ServiceFlatTyre         ServiceType = "flat-tyre"
	ServiceOutOfFuel        ServiceType = "out-of-fuel"
	ServiceCarBattery       ServiceType = "car-battery"
	ServiceTowTruck         ServiceType = "tow-truck"
	ServiceOtherCarProblems ServiceType = "other-car-problems"
	ServiceEmergency        ServiceType = "emergency"
	ServiceSupport          ServiceType = "support"
)

// Cents is an amount of money in stotinki (1/100 BGN).
type Cents int64

// BGN converts whole leva to Cents.
func BGN(leva int64) Cents { return Cents(leva * 100) }

// Leva returns the whole-leva part of c.
func (c Cents) Leva() int64 { return int64(c) / 100 }

// String renders c as "35.00 BGN".
func (c Cents) String() string {
	return fmt.Sprintf("%d.%02d BGN", int64(c)/100, int64(c)%100)
}

const (
	// ServiceFee is added on top of the accepted price in the user's history.
	ServiceFee = Cents(500)
	// MinimumRevisedQuote is the floor for a revised quote.
	MinimumRevisedQuote = Cents(1000)
	// DefaultBasePrice applies to service types without a listed price.
	DefaultBasePrice = Cents(3000)
)

type serviceInfo struct {
	basePrice      Cents
	defaultMessage string
}

var catalog = map[ServiceType]serviceInfo{
	ServiceFlatTyre:         {BGN(35), "I have a flat tyre and need help changing it."},
	ServiceOutOfFuel:        {BGN(25), "I ran out of fuel and need a refill."},
	ServiceCarBattery:       {BGN(40), "My car battery is dead and needs a jump start."},
	ServiceTowTruck:         {BGN(60), "My car needs to be towed."},
	ServiceOtherCarProblems: {BGN(45), "My car has a problem and I need a mechanic."},
	ServiceEmergency:        {BGN(80), "Emergency! I need immediate assistance."},
	ServiceSupport:          {BGN(20), "I need support with my vehicle."},
}

// ServiceTypes lists every supported service type in display order.
func ServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceFlatTyre,
		ServiceOutOfFuel,
		ServiceCarBattery,
		ServiceTowTruck,
		ServiceOtherCarProblems,
		ServiceEmergency,
		ServiceSupport,
	}
}

// Valid reports whether t is a supported service type.
func (t ServiceType) Valid() bool {
	_, ok := catalog[t]
	return ok
}

// BasePrice is the initial quote for t.
func (t ServiceType) BasePrice() Cents {
	if info, ok := catalog[t]; ok {
		return info.basePrice
	}
	return DefaultBasePrice
}

// DefaultMessage is used when the user submits a request without a message.
func (t ServiceType) DefaultMessage() string {
	if info, ok := catalog[t]; ok {
		return info.defaultMessage
	}
	return "I need roadside assistance."
}

// RevisedQuote computes the employee's second offer after a first decline:
// 80% of the quote rounded down to whole leva, never below 10 BGN.
func RevisedQuote(quote Cents) Cents {
	revised := BGN(quote.Leva() * 8 / 10)
	if revised < MinimumRevisedQuote {
		return MinimumRevisedQuote
	}
	return revised
}
