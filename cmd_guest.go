package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"roomify-client/api"
	"roomify-client/models"
	"roomify-client/services"
	"roomify-client/utils"
)

// ----------------------------------------------------
// Catalog
// ----------------------------------------------------

func (a *app) cmdRooms(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rooms", flag.ContinueOnError)
	query := fs.String("q", "", "match name or type")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rooms, err := a.catalog.SearchRooms(ctx, *query)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	filters := a.draft.Snapshot().SearchFilters
	fmt.Println()
	cyan.Println("  Rooms")
	cyan.Println("  -----")
	fmt.Printf("  type=%s price=%d..%d\n\n", filters.RoomType, filters.PriceRange[0], filters.PriceRange[1])

	if len(rooms) == 0 {
		fmt.Println("  (no rooms match)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tNAME\tTYPE\tPRICE/NIGHT\tGUESTS\tAVAILABLE")
	fmt.Fprintln(w, "  --\t----\t----\t-----------\t------\t---------")
	for _, r := range rooms {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%t\n", r.ID, r.Name, r.RoomType, money(r.PricePerNight), r.MaxGuests(), r.IsAvailable)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (a *app) cmdRoom(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: room <id> [--select]")
	}
	id, err := parseID(args[0], "room")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("room", flag.ContinueOnError)
	sel := fs.Bool("select", false, "make this the draft's room")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	room, err := a.catalog.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("\n  %s\n", room.Name)
	fmt.Printf("  Type:      %s\n", room.RoomType)
	fmt.Printf("  Price:     %s / night\n", money(room.PricePerNight))
	fmt.Printf("  Guests:    up to %d\n", room.MaxGuests())
	fmt.Printf("  Available: %t\n", room.IsAvailable)
	if room.ImageURL != "" {
		fmt.Printf("  Image:     %s\n", a.client.AssetURL(room.ImageURL))
	}
	if room.Description != "" {
		fmt.Printf("\n  %s\n", room.Description)
	}

	details := a.draft.Snapshot().BookingDetails
	if details.HasDates() {
		q := services.QuoteStay(room.PricePerNight, details.CheckIn, details.CheckOut)
		fmt.Printf("\n  %s -> %s: %d night(s), total %s\n",
			utils.FormatDate(details.CheckIn), utils.FormatDate(details.CheckOut), q.Nights, money(q.Total))
	}
	fmt.Println()

	if *sel {
		a.catalog.SelectRoom(*room)
		color.New(color.FgGreen).Printf("✓ Selected room %d\n", room.ID)
	}
	return nil
}

// ----------------------------------------------------
// Session
// ----------------------------------------------------

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	reg := models.Registration{}
	fs.StringVar(&reg.Username, "username", "", "username (defaults to --name)")
	fs.StringVar(&reg.Name, "name", "", "display name")
	fs.StringVar(&reg.Email, "email", "", "email")
	fs.StringVar(&reg.Password, "password", "", "password")
	fs.StringVar(&reg.PhoneNumber, "phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if reg.Email == "" || reg.Password == "" || (reg.Username == "" && reg.Name == "") {
		return fmt.Errorf("usage: register --name <name> --email <email> --password <password> [--phone <phone>]")
	}

	if !a.user.Register(ctx, reg) {
		return a.user.LastError()
	}
	color.New(color.FgGreen).Printf("✓ Registered and logged in as %s\n", a.user.Profile().Email)
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	creds := models.Credentials{}
	fs.StringVar(&creds.Email, "email", "", "email or username")
	fs.StringVar(&creds.Password, "password", "", "password")
	next := fs.String("next", "", "where to go after login")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if creds.Email == "" || creds.Password == "" {
		return fmt.Errorf("usage: login --email <email> --password <password>")
	}

	if !a.user.Login(ctx, creds) {
		return a.user.LastError()
	}

	p := a.user.Profile()
	color.New(color.FgGreen).Printf("✓ Logged in as %s (%s)\n", p.DisplayName(), p.Email)
	fmt.Printf("  Continue at: %s\n", services.ConsumeRedirect(a.storage, *next))
	return nil
}

func (a *app) cmdLogout() error {
	a.user.Logout()
	color.New(color.FgGreen).Println("✓ Logged out")
	return nil
}

func (a *app) cmdWhoAmI(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	fmt.Println()
	cyan.Print("  Guest: ")
	if a.user.Hydrate(ctx) {
		p := a.user.Profile()
		fmt.Printf("%s <%s> id=%d\n", p.DisplayName(), p.Email, p.ID)
	} else {
		yellow.Println("not logged in")
	}

	cyan.Print("  Admin: ")
	if a.admin.Hydrate(ctx) && a.admin.IsAdmin() {
		p := a.admin.Profile()
		fmt.Printf("%s <%s> id=%d\n", p.DisplayName(), p.Email, p.ID)
	} else {
		yellow.Println("not logged in")
	}
	fmt.Println()
	return nil
}

// ----------------------------------------------------
// Booking wizard
// ----------------------------------------------------

func (a *app) cmdBook(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: book <room-id> [--first ..] [--last ..] [--email ..] [--phone ..] [--check-in YYYY-MM-DD] [--check-out YYYY-MM-DD] [--guests n] [--requests ..] [--yes]")
	}
	id, err := parseID(args[0], "room")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	checkIn := fs.String("check-in", "", "check-in date")
	checkOut := fs.String("check-out", "", "check-out date")
	guests := fs.Int("guests", 0, "number of guests")
	requests := fs.String("requests", "", "special requests")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	room, err := a.catalog.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	// A stale token is cleared here, so the wizard sees the real state.
	_ = a.user.Hydrate(ctx)

	navigated := make(chan string, 1)
	wizard := services.NewBookingWizard(*room, a.user.Profile(), services.WizardDeps{
		API:           a.client,
		Session:       a.user,
		Draft:         a.draft,
		Storage:       a.storage,
		RedirectDelay: a.cfg.BookingRedirectDelay,
		Navigator: services.NavigatorFunc(func(path string) {
			select {
			case navigated <- path:
			default:
			}
		}),
		Log: a.log,
	})

	if !wizard.EnsureLoggedIn() {
		return fmt.Errorf("login required; run `roomify login`, then continue at %s", services.BookingPath(room.ID))
	}

	form := wizard.Form()
	if *first != "" {
		form.FirstName = *first
	}
	if *last != "" {
		form.LastName = *last
	}
	if *email != "" {
		form.Email = *email
	}
	if *phone != "" {
		form.Phone = *phone
	}
	if *checkIn != "" {
		if form.CheckIn, err = utils.ParseDate(*checkIn); err != nil {
			return fmt.Errorf("check-in: %w", err)
		}
	}
	if *checkOut != "" {
		if form.CheckOut, err = utils.ParseDate(*checkOut); err != nil {
			return fmt.Errorf("check-out: %w", err)
		}
	}
	if *guests > 0 {
		form.Guests = *guests
	}
	if *requests != "" {
		form.SpecialRequests = *requests
	}
	wizard.SetForm(form)

	if err := wizard.Next(); err != nil {
		return err
	}

	q := wizard.Preview()
	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Booking %s\n", room.Name)
	cyan.Println("  -------")
	fmt.Printf("  Guest:     %s %s <%s> %s\n", form.FirstName, form.LastName, form.Email, form.Phone)
	fmt.Printf("  Stay:      %s -> %s (%d night(s))\n", utils.FormatDate(form.CheckIn), utils.FormatDate(form.CheckOut), q.Nights)
	fmt.Printf("  Guests:    %d\n", form.Guests)
	fmt.Printf("  Subtotal:  %s\n", money(q.Subtotal))
	fmt.Printf("  Tax (%d%%): %s\n", int(services.TaxRate*100), money(q.Tax))
	fmt.Printf("  Total:     %s\n\n", money(q.Total))

	if !*yes && !confirm("  Confirm booking? [y/N] ") {
		wizard.Back()
		fmt.Println("  Cancelled.")
		return nil
	}

	booking, err := wizard.Submit(ctx)
	if errors.Is(err, services.ErrBookingIDMissing) {
		color.Yellow("! Booking submitted, but the server did not return its id. Check `roomify bookings`.\n")
		err = nil
	}
	if err != nil {
		var subErr *services.SubmitError
		if errors.As(err, &subErr) && subErr.RequiresAuth {
			return fmt.Errorf("%s (run `roomify login`, then continue at %s)", subErr.Message, services.BookingPath(room.ID))
		}
		return err
	}

	if booking.ID != 0 {
		color.New(color.FgGreen).Printf("✓ Booking #%d created (%s)\n", booking.ID, booking.Status)
	}
	select {
	case path := <-navigated:
		fmt.Printf("  Continue at: %s\n", path)
	case <-ctx.Done():
		wizard.CancelPendingNavigation()
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// ----------------------------------------------------
// Profile
// ----------------------------------------------------

func (a *app) cmdBookings(ctx context.Context) error {
	if err := a.requireUser(ctx); err != nil {
		return err
	}
	out, err := a.profile.Bookings(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Println("  My Bookings")
	cyan.Println("  -----------")
	fmt.Printf("  total=%d completed=%d\n\n", out.Stats.TotalBookings, out.Stats.CompletedBookings)

	if len(out.Bookings) == 0 {
		fmt.Println("  (no bookings)")
		fmt.Println()
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tROOM\tCHECK-IN\tCHECK-OUT\tGUESTS\tTOTAL\tSTATUS")
	fmt.Fprintln(w, "  --\t----\t--------\t---------\t------\t-----\t------")
	for _, b := range out.Bookings {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, b.RoomName, b.CheckInDate, b.CheckOutDate, b.Guests, money(b.TotalPrice), b.Status)
	}
	w.Flush()
	fmt.Println()
	return nil
}

func (a *app) cmdNotifications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	read := fs.Uint("read", 0, "mark this notification as read")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.requireUser(ctx); err != nil {
		return err
	}

	if *read != 0 {
		unread, err := a.profile.MarkNotificationRead(ctx, *read)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Printf("✓ Marked %d as read (%d unread)\n", *read, unread)
		return nil
	}

	list, err := a.profile.Notifications(ctx)
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  Notifications (%d unread)\n", list.UnreadCount)
	cyan.Println("  -------------")
	if len(list.Notifications) == 0 {
		fmt.Println("  (none)")
		fmt.Println()
		return nil
	}
	for _, n := range list.Notifications {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Printf("  %s [%d] %s\n", mark, n.ID, n.Message)
	}
	fmt.Println()
	return nil
}

func (a *app) cmdProfile(ctx context.Context, args []string) error {
	subcmd := "show"
	if len(args) > 0 {
		subcmd = args[0]
		args = args[1:]
	}
	if err := a.requireUser(ctx); err != nil {
		return err
	}

	switch subcmd {
	case "show":
		return a.cmdProfileShow()
	case "update":
		return a.cmdProfileUpdate(ctx, args)
	case "extras":
		return a.cmdProfileExtras(args)
	default:
		return fmt.Errorf("unknown profile subcommand: %s (use show, update, extras)", subcmd)
	}
}

func (a *app) cmdProfileShow() error {
	p := a.user.Profile()
	extras, err := a.profile.LoadExtras()
	if err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	fmt.Println()
	cyan.Printf("  %s\n", p.DisplayName())
	fmt.Printf("  Email:    %s\n", p.Email)
	fmt.Printf("  Phone:    %s\n", p.PhoneNumber)
	for _, key := range []string{models.ExtraAddress, models.ExtraCity, models.ExtraZipCode, models.ExtraDateOfBirth, models.ExtraGender} {
		if v := models.ExtraString(extras, key); v != "" {
			fmt.Printf("  %-9s %s\n", key+":", v)
		}
	}
	fmt.Println()
	return nil
}

func (a *app) cmdProfileUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("profile update", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update := models.ProfileUpdate{}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			update.FullName = name
		case "email":
			update.Email = email
		case "phone":
			update.PhoneNumber = phone
		}
	})
	if update.FullName == nil && update.Email == nil && update.PhoneNumber == nil {
		return fmt.Errorf("usage: profile update [--name ..] [--email ..] [--phone ..]")
	}

	p, err := a.profile.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Printf("✓ Profile updated: %s <%s>\n", p.DisplayName(), p.Email)
	return nil
}

func (a *app) cmdProfileExtras(args []string) error {
	extras, err := a.profile.LoadExtras()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("profile extras", flag.ContinueOnError)
	values := map[string]*string{}
	for _, key := range []string{models.ExtraAddress, models.ExtraCity, models.ExtraZipCode, models.ExtraDateOfBirth, models.ExtraGender} {
		values[key] = fs.String(key, models.ExtraString(extras, key), key)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	for key, v := range values {
		if *v == "" {
			delete(extras, key)
			continue
		}
		extras[key] = *v
	}
	if err := a.profile.SaveExtras(extras); err != nil {
		return err
	}
	color.New(color.FgGreen).Println("✓ Profile extras saved")
	return nil
}

func (a *app) cmdUpload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: upload <file>")
	}
	if err := a.requireUser(ctx); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	img, err := a.profile.UploadImage(ctx, filepath.Base(args[0]), f)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.RequiresAuth {
			a.user.Logout()
		}
		return err
	}
	color.New(color.FgGreen).Printf("✓ Uploaded: %s\n", img.ImageURL)
	return nil
}
