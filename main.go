package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"roomify-client/config"
	"roomify-client/utils"
)

const banner = `
 ____                       _  __
|  _ \ ___   ___  _ __ ___ (_)/ _|_   _
| |_) / _ \ / _ \| '_ ' _ \| | |_| | | |
|  _ < (_) | (_) | | | | | | |  _| |_| |
|_| \_\___/ \___/|_| |_| |_|_|_|  \__, |
                                  |___/
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]
	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load(os.Getenv("ROOMIFY_CONFIG"))
	if err != nil {
		color.Red("❌ Config: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		color.Red("❌ Logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cmd == "mock-api" {
		err = cmdMockAPI(ctx, cfg, logger, args)
	} else {
		err = runClientCommand(ctx, cfg, logger, cmd, args)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func runClientCommand(ctx context.Context, cfg *config.Config, logger *zap.Logger, cmd string, args []string) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	switch cmd {
	case "rooms":
		return a.cmdRooms(ctx, args)
	case "room":
		return a.cmdRoom(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoAmI(ctx)
	case "book":
		return a.cmdBook(ctx, args)
	case "bookings":
		return a.cmdBookings(ctx)
	case "notifications":
		return a.cmdNotifications(ctx, args)
	case "profile":
		return a.cmdProfile(ctx, args)
	case "upload":
		return a.cmdUpload(ctx, args)
	case "admin":
		return a.cmdAdmin(ctx, args)
	case "draft":
		return a.cmdDraft(args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: roomify <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  mock-api [--addr :6543]          Run the in-memory Roomify API")
	fmt.Println("  rooms [-q text]                  Search rooms with the draft's filters")
	fmt.Println("  room <id> [--select]             Show a room, optionally select it")
	fmt.Println("  register --email --password ...  Create an account and log in")
	fmt.Println("  login --email --password         Log in as a guest")
	fmt.Println("  logout                           Log out the guest session")
	fmt.Println("  whoami                           Show the guest and admin sessions")
	fmt.Println("  book <room-id> [flags]           Run the booking wizard")
	fmt.Println("  bookings                         List your bookings")
	fmt.Println("  notifications [--read <id>]      List or mark notifications")
	fmt.Println("  profile update|extras [flags]    Edit your profile")
	fmt.Println("  upload <file>                    Upload an image")
	fmt.Println("  admin login|logout|stats|rooms|room-create|room-update|room-delete|bookings|users|set-status")
	fmt.Println("  draft show|filter|dates|clear    Inspect or edit the booking draft")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  API_BASE_URL        API base (default: http://localhost:6543/api)")
	fmt.Println("  STORAGE_DRIVER      sqlite | mysql | memory (default: sqlite)")
	fmt.Println("  STORAGE_PATH        sqlite file (default: roomify.db)")
	fmt.Println("  ROOMIFY_CONFIG      Optional YAML config file")
	fmt.Println()
	yellow.Println("Examples:")
	fmt.Println("  roomify mock-api &")
	fmt.Println("  roomify login --email admin@roomify.local --password admin123")
	fmt.Println("  roomify draft dates --check-in 2030-01-01 --check-out 2030-01-04 --guests 2")
	fmt.Println("  roomify book 1 --first Ada --last Lovelace --phone 0812 --yes")
	fmt.Println()
}
