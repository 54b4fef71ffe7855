package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/hapsoo-labs/brewgate/auth"
	"github.com/hapsoo-labs/brewgate/brewery"
	"github.com/hapsoo-labs/brewgate/dashboard"
	"github.com/hapsoo-labs/brewgate/gateway"
	"github.com/hapsoo-labs/brewgate/internal/config"
	"github.com/hapsoo-labs/brewgate/order"
	"github.com/hapsoo-labs/brewgate/session"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.New()

	store, err := session.NewFileStore(cfg.GetStateDir())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	gw, err := gateway.New(cfg, store, gateway.WithSessionExpiredFunc(func(err error) {
		fmt.Fprintln(os.Stderr, auth.UserMessage(err))
	}))
	if err != nil {
		return fmt.Errorf("build gateway: %w", err)
	}

	authService, err := auth.NewService(gw, store)
	if err != nil {
		return fmt.Errorf("build auth service: %w", err)
	}

	app := &application{
		cfg:       cfg,
		store:     store,
		auth:      authService,
		brewery:   brewery.New(gw),
		dashboard: dashboard.New(gw),
		orders:    order.New(gw),
	}

	flag.Usage = usage
	flag.Parse()
	return app.dispatch(context.Background(), flag.Args())
}

type application struct {
	cfg       config.Config
	store     session.Store
	auth      *auth.Service
	brewery   *brewery.Client
	dashboard *dashboard.Client
	orders    *order.Client
}

func (app *application) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage()
		return errors.New("missing command")
	}

	switch args[0] {
	case "login":
		return app.login(ctx, args[1:])
	case "logout":
		return app.logout(ctx)
	case "whoami":
		return app.whoami(ctx)
	case "dashboard":
		return app.showDashboard(ctx)
	case "orders":
		return app.listOrders(ctx, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (app *application) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Seller account email")
	password := fs.String("password", "", "Seller account password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	displayAppname(app.cfg.GetAppName())
	profile, err := app.auth.Login(ctx, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, auth.UserMessage(err))
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", profile.Nickname, profile.Role)
	return nil
}

func (app *application) logout(ctx context.Context) error {
	if err := app.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func (app *application) whoami(ctx context.Context) error {
	if !app.store.IsAuthenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	info, err := app.brewery.Me(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, auth.UserMessage(err))
		return err
	}
	fmt.Printf("%s <%s> role=%s\n", info.Nickname, info.Email, info.RoleName)
	if info.Brewery != nil {
		fmt.Printf("Brewery: %s, %s %s\n", info.Brewery.Name, info.Brewery.Address, info.Brewery.AddressDetail)
	}
	return nil
}

func (app *application) showDashboard(ctx context.Context) error {
	data, err := app.dashboard.Fetch(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, auth.UserMessage(err))
		return err
	}
	fmt.Printf("Today: revenue %d, orders %d, reservations %d\n",
		data.Stats.TodayRevenue, data.Stats.TodayOrderCount, data.Stats.TodayJoyReservationCount)
	for _, slot := range data.TodaySchedule {
		fmt.Printf("  %s  %s x%d  %s (%s)  [%s]\n",
			slot.ReservationTime, slot.JoyName, slot.ParticipantCount, slot.PayerName, slot.PayerPhone, slot.Status)
	}
	return nil
}

func (app *application) listOrders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	page := fs.Int("page", 0, "Zero-based page number")
	_ = fs.Parse(args)

	result, err := app.orders.HistoryByPage(ctx, *page, order.DefaultPageSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, auth.UserMessage(err))
		return err
	}
	if result.Empty {
		fmt.Println("No orders yet.")
		return nil
	}
	for _, item := range result.Content {
		fmt.Printf("#%d  %s x%d  %d  %s / %s\n",
			item.OrderItemID, item.ProductName, item.Quantity, item.Amount,
			item.FulfillmentStatus.Text(), item.RefundStatus.Text())
	}
	fmt.Printf("page %d/%d (%d orders)\n", result.Number+1, result.TotalPages, result.TotalElements)
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: brewctl <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands: login, logout, whoami, dashboard, orders")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
