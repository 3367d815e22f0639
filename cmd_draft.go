package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"roomify-client/models"
	"roomify-client/services"
	"roomify-client/utils"
)

func (a *app) cmdDraft(args []string) error {
	subcmd := "show"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "show":
		return a.cmdDraftShow()
	case "filter":
		return a.cmdDraftFilter(args)
	case "dates":
		return a.cmdDraftDates(args)
	case "clear":
		a.draft.Clear()
		color.New(color.FgGreen).Println("✓ Draft cleared")
		return nil
	default:
		return fmt.Errorf("unknown draft subcommand: %s (use show, filter, dates, clear)", subcmd)
	}
}

func (a *app) cmdDraftShow() error {
	d := a.draft.Snapshot()
	cyan := color.New(color.FgCyan)

	fmt.Println()
	cyan.Println("  Booking draft")
	cyan.Println("  -------------")
	if d.SelectedRoom != nil {
		fmt.Printf("  Room:       #%d %s (%s) %s, up to %d guests\n",
			d.SelectedRoom.ID, d.SelectedRoom.Name, d.SelectedRoom.Type, money(d.SelectedRoom.Price), d.SelectedRoom.MaxGuests)
	} else {
		fmt.Println("  Room:       (none)")
	}

	bd := d.BookingDetails
	fmt.Printf("  Dates:      %s -> %s\n", orDash(utils.FormatDate(bd.CheckIn)), orDash(utils.FormatDate(bd.CheckOut)))
	fmt.Printf("  Guests:     %d in %d room(s)\n", bd.Guests, bd.Rooms)
	if d.SelectedRoom != nil && bd.HasDates() {
		q := services.QuoteStay(d.SelectedRoom.Price, bd.CheckIn, bd.CheckOut)
		fmt.Printf("  Quote:      %d night(s), %s\n", q.Nights, money(q.Total))
	}
	if bd.BookingID != 0 {
		fmt.Printf("  Last:       booking #%d, %s, %s\n", bd.BookingID, bd.RoomName, money(bd.TotalPrice))
	}

	f := d.SearchFilters
	fmt.Printf("  Filters:    type=%s price=%d..%d", f.RoomType, f.PriceRange[0], f.PriceRange[1])
	if len(f.Facilities) > 0 {
		fmt.Printf(" facilities=%s", strings.Join(f.Facilities, ","))
	}
	fmt.Println()
	if !f.Valid() {
		color.Yellow("  warning: price range is inverted, no room will match\n")
	}
	fmt.Println()
	return nil
}

func (a *app) cmdDraftFilter(args []string) error {
	fs := flag.NewFlagSet("draft filter", flag.ContinueOnError)
	roomType := fs.String("type", "", `room type, or "all"`)
	minPrice := fs.Int("min", 0, "minimum price per night")
	maxPrice := fs.Int("max", 0, "maximum price per night")
	facilities := fs.String("facilities", "", "comma separated; empty clears")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cur := a.draft.Snapshot().SearchFilters
	patch := models.SearchFiltersPatch{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "type":
			patch.RoomType = roomType
		case "min", "max":
			if patch.PriceRange == nil {
				r := cur.PriceRange
				patch.PriceRange = &r
			}
			if f.Name == "min" {
				patch.PriceRange[0] = *minPrice
			} else {
				patch.PriceRange[1] = *maxPrice
			}
		case "facilities":
			patch.Facilities = splitList(*facilities)
		}
	})

	a.draft.SetSearchFilters(patch)
	return a.cmdDraftShow()
}

func (a *app) cmdDraftDates(args []string) error {
	fs := flag.NewFlagSet("draft dates", flag.ContinueOnError)
	checkIn := fs.String("check-in", "", "YYYY-MM-DD")
	checkOut := fs.String("check-out", "", "YYYY-MM-DD")
	guests := fs.Int("guests", 0, "number of guests")
	rooms := fs.Int("rooms", 0, "number of rooms")
	if err := fs.Parse(args); err != nil {
		return err
	}

	patch := models.BookingDetailsPatch{}
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "check-in":
			t, err := utils.ParseDate(*checkIn)
			if err != nil {
				parseErr = fmt.Errorf("check-in: %w", err)
				return
			}
			patch.CheckIn = &t
		case "check-out":
			t, err := utils.ParseDate(*checkOut)
			if err != nil {
				parseErr = fmt.Errorf("check-out: %w", err)
				return
			}
			patch.CheckOut = &t
		case "guests":
			patch.Guests = guests
		case "rooms":
			patch.Rooms = rooms
		}
	})
	if parseErr != nil {
		return parseErr
	}

	a.draft.SetBookingDetails(patch)
	return a.cmdDraftShow()
}

// splitList splits a comma separated flag; "" yields an empty, non-nil list.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
