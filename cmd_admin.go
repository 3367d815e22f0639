package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"

	"roomify-client/models"
)

func (a *app) cmdAdmin(ctx context.Context, args []string) error {
	subcmd := "stats"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}

	switch subcmd {
	case "login":
		return a.cmdAdminLogin(ctx, args)
	case "logout":
		a.admin.Logout()
		color.New(color.FgGreen).Println("✓ Admin logged out")
		return nil
	}

	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	switch subcmd {
	case "stats":
		return a.cmdAdminStats(ctx)
	case "rooms":
		return a.cmdAdminRooms(ctx)
	case "room-create":
		return a.cmdAdminRoomSave(ctx, 0, args)
	case "room-update":
		if len(args) < 1 {
			return fmt.Errorf("usage: admin room-update <room-id> [flags]")
		}
		id, err := parseID(args[0], "room")
		if err != nil {
			return err
		}
		return a.cmdAdminRoomSave(ctx, id, args[1:])
	case "room-delete":
		return a.cmdAdminRoomDelete(ctx, args)
	case "bookings":
		return a.cmdAdminBookings(ctx)
	case "users":
		return a.cmdAdminUsers(ctx)
	case "set-status":
		return a.cmdAdminSetStatus(ctx, args)
	default:
		return fmt.Errorf("unknown admin subcommand: %s", subcmd)
	}
}

func (a *app) cmdAdminLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin login", flag.ContinueOnError)
	creds := models.Credentials{}
	fs.StringVar(&creds.Email, "email", "", "admin email")
	fs.StringVar(&creds.Password, "password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if creds.Email == "" || creds.Password == "" {
		return fmt.Errorf("usage: admin login --email <email> --password <password>")
	}

	if !a.admin.Login(ctx, creds) {
		return a.admin.LastError()
	}
	if !a.admin.IsAdmin() {
		a.admin.Logout()
		return fmt.Errorf("account %s is not an admin", creds.Email)
	}
	color.New(color.FgGreen).Printf("✓ Admin logged in as %s\n", a.admin.Profile().Email)
	return nil
}

func (a *app) cmdAdminStats(ctx context.Context) error {
	stats, err := a.dash.Stats(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Dashboard")
	cyan.Println("  ---------")
	fmt.Printf("  Visitors: %d\n", stats.Stats.TotalVisitors)
	fmt.Printf("  Bookings: %d\n", stats.Stats.TotalBookings)
	fmt.Printf("  Revenue:  %s\n", money(stats.Stats.TotalRevenue))
	fmt.Printf("  Rooms:    %d\n", stats.Stats.TotalRooms)

	if len(stats.RecentBookings) > 0 {
		fmt.Println()
		cyan.Println("  Recent bookings")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tUSER\tROOM\tCHECK-IN\tTOTAL\tSTATUS")
		fmt.Fprintln(w, "  --\t----\t----\t--------\t-----\t------")
		for _, b := range stats.RecentBookings {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.User, b.Room, b.CheckInDate, money(b.TotalPrice), b.Status)
		}
		w.Flush()
	}

	if len(stats.RoomStats) > 0 {
		fmt.Println()
		cyan.Println("  Rooms")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tNAME\tTYPE\tSTATUS\tBOOKINGS\tREVENUE")
		fmt.Fprintln(w, "  --\t----\t----\t------\t--------\t-------")
		for _, r := range stats.RoomStats {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Type, r.Status, r.Bookings, money(r.Revenue))
		}
		w.Flush()
	}
	fmt.Println()
	return nil
}

func (a *app) cmdAdminRooms(ctx context.Context) error {
	rooms, err := a.dash.Rooms(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Rooms")
	cyan.Println("  -----")
	if len(rooms) == 0 {
		fmt.Println("  (no rooms)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tTYPE\tPRICE/NIGHT\tCAPACITY\tAVAILABLE\tBOOKINGS")
	fmt.Fprintln(w, "  --\t----\t----\t-----------\t--------\t---------\t--------")
	for _, r := range rooms {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%t\t%d\n",
			r.ID, r.Name, r.RoomType, money(r.PricePerNight), r.MaxGuests(), r.IsAvailable, r.BookingCount)
	}
	w.Flush()
	fmt.Println()
	return nil
}

// cmdAdminRoomSave creates a room when id is 0 and updates it otherwise.
func (a *app) cmdAdminRoomSave(ctx context.Context, id uint, args []string) error {
	fs := flag.NewFlagSet("admin room", flag.ContinueOnError)
	in := models.RoomInput{}
	fs.StringVar(&in.Name, "name", "", "room name")
	fs.StringVar(&in.Description, "description", "", "description")
	fs.Float64Var(&in.PricePerNight, "price", 0, "price per night")
	fs.IntVar(&in.Capacity, "capacity", 0, "max guests")
	fs.StringVar(&in.RoomType, "type", "", "room type")
	fs.StringVar(&in.ImageURL, "image", "", "image URL")
	fs.StringVar(&in.Amenities, "amenities", "", `amenities JSON, e.g. ["wifi"]`)
	available := fs.Bool("available", true, "open for booking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "available" {
			in.IsAvailable = available
		}
	})

	var (
		room *models.Room
		err  error
	)
	if id == 0 {
		room, err = a.dash.CreateRoom(ctx, in)
	} else {
		room, err = a.dash.UpdateRoom(ctx, id, in)
	}
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	if id == 0 {
		green.Printf("✓ Created room: %d\n", room.ID)
	} else {
		green.Printf("✓ Updated room: %d\n", room.ID)
	}
	fmt.Printf("  Name:   %s\n", room.Name)
	fmt.Printf("  Type:   %s\n", room.RoomType)
	fmt.Printf("  Price:  %s\n", money(room.PricePerNight))
	return nil
}

func (a *app) cmdAdminRoomDelete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: admin room-delete <room-id>")
	}
	id, err := parseID(args[0], "room")
	if err != nil {
		return err
	}

	msg, err := a.dash.DeleteRoom(ctx, id)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Printf("✓ %s\n", msg)
	return nil
}

func (a *app) cmdAdminBookings(ctx context.Context) error {
	bookings, err := a.dash.Bookings(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Bookings")
	cyan.Println("  --------")
	if len(bookings) == 0 {
		fmt.Println("  (no bookings)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tGUEST\tROOM\tCHECK-IN\tCHECK-OUT\tTOTAL\tSTATUS\tNEXT")
	fmt.Fprintln(w, "  --\t-----\t----\t--------\t---------\t-----\t------\t----")
	for _, b := range bookings {
		next := "-"
		if !b.Status.Terminal() {
			next = fmt.Sprint(b.Status.NextStatuses())
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.ID, b.UserName, b.RoomName, b.CheckInDate, b.CheckOutDate, money(b.TotalPrice), b.Status, next)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (a *app) cmdAdminUsers(ctx context.Context) error {
	users, err := a.dash.Users(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  Users")
	cyan.Println("  -----")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tUSERNAME\tNAME\tEMAIL\tADMIN")
	fmt.Fprintln(w, "  --\t--------\t----\t-----\t-----")
	for _, u := range users {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.FullName, u.Email, u.IsAdmin)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (a *app) cmdAdminSetStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: admin set-status <booking-id> <paid|completed|cancelled>")
	}
	id, err := parseID(args[0], "booking")
	if err != nil {
		return err
	}
	next := models.BookingStatus(args[1])
	if !next.Valid() {
		return fmt.Errorf("unknown status %q", args[1])
	}

	bookings, err := a.dash.Bookings(ctx)
	if err != nil {
		return err
	}
	var current *models.Booking
	for i := range bookings {
		if bookings[i].ID == id {
			current = &bookings[i]
			break
		}
	}
	if current == nil {
		return fmt.Errorf("booking %d not found", id)
	}

	updated, err := a.dash.SetBookingStatus(ctx, *current, next)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Printf("✓ Booking #%d: %s -> %s\n", updated.ID, current.Status, updated.Status)
	return nil
}
