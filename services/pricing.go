package services

import (
	"math"
	"time"
)

// TaxRate is applied to the subtotal and rounded to a whole unit.
const TaxRate = 0.10

type Quote struct {
	Nights        int     `json:"nights"`
	PricePerNight float64 `json:"price_per_night"`
	Subtotal      float64 `json:"subtotal"`
	Tax           float64 `json:"tax"`
	Total         float64 `json:"total"`
}

// Nights counts started 24h periods between the dates, 0 when either date
// is unset or check-out is not after check-in.
func Nights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0
	}
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// QuoteStay prices a stay. A stay of zero nights quotes zero throughout.
func QuoteStay(pricePerNight float64, checkIn, checkOut time.Time) Quote {
	q := Quote{PricePerNight: pricePerNight, Nights: Nights(checkIn, checkOut)}
	if q.Nights == 0 {
		return q
	}
	q.Subtotal = pricePerNight * float64(q.Nights)
	q.Tax = math.Round(q.Subtotal * TaxRate)
	q.Total = q.Subtotal + q.Tax
	return q
}
