package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/swapsafe/swapsafe-backend/internal/session"
	"github.com/swapsafe/swapsafe-backend/pkg/env"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

const usage = `usage: swapsafe [flags] <command> [args]

commands:
  login -email <email> -password <password>
  logout
  status
  open <route>
  location [set -lat <lat> -lng <lng> [-city c] [-state s] [-country c] [-address a] | clear]
  products [-search text] [-category c] [-sort key] [-direction asc|desc] [-max-distance miles] [-page n]
  transactions [-tab all|active|completed|disputed|cancelled] [-search text]
  notifications [-unread]

flags:
`

type app struct {
	api   *apiClient
	guard *session.Guard
	store session.Storage
	logg  *logger.Logger
	out   io.Writer
}

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("swapsafe", flag.ExitOnError)
	apiURL := fs.String("api", env.Get("SWAPSAFE_API_URL", "http://localhost:8080"), "API base URL")
	sessionPath := fs.String("session", defaultSessionPath(), "session file")
	logLevel := fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	logg := logger.New(logger.Options{ServiceName: "swapsafe-cli", Level: logger.ParseLevel(*logLevel), Output: os.Stderr})
	store := session.NewFileStorage(*sessionPath)
	guard, err := session.NewGuard(session.GuardParams{Storage: store, Logger: logg})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{api: newAPIClient(*apiURL), guard: guard, store: store, logg: logg, out: os.Stdout}
	if err := a.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	a.guard.CheckAuthStatus(ctx)

	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.logout(ctx)
	case "status":
		return a.status(ctx)
	case "open":
		if len(args) != 1 {
			return errors.New("open takes exactly one route")
		}
		nav := a.guard.Navigate(args[0])
		a.printNavigation(nav)
		return nil
	case "location":
		return a.location(args)
	case "products":
		return a.products(ctx, args)
	case "transactions":
		return a.transactions(ctx, args)
	case "notifications":
		return a.notifications(ctx, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.api.login(ctx, *email, *password)
	if err != nil {
		return err
	}
	nav, err := a.guard.Login(ctx, sess.Token, sess.User)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", sess.User.FullName, sess.User.UserType)
	a.printNavigation(nav)
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if token := a.guard.Token(); token != "" {
		// the local session is cleared even when the API is unreachable
		if err := a.api.withToken(token).logout(ctx); err != nil {
			a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "remote logout failed")
		}
	}
	a.printNavigation(a.guard.Logout(ctx))
	return nil
}

func (a *app) status(ctx context.Context) error {
	if !a.guard.Authenticated() {
		fmt.Fprintln(a.out, "not signed in")
		return nil
	}
	summary, err := a.api.withToken(a.guard.Token()).dashboard(ctx)
	switch {
	case err == nil && summary.User != nil:
		if err := a.guard.UpdateUser(summary.User); err != nil {
			return err
		}
	case err != nil:
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Code == "UNAUTHORIZED" {
			return a.handleAPIError(ctx, err)
		}
		a.logg.Warn(a.logg.WithField(ctx, "error", err.Error()), "profile refresh failed, showing cached user")
	}
	u := a.guard.User()
	fmt.Fprintf(a.out, "signed in as %s <%s>\ntype: %s\ntrust score: %d\n", u.FullName, u.Email, u.UserType, u.TrustScore)
	return nil
}

func (a *app) location(args []string) error {
	if len(args) == 0 {
		loc, err := session.LoadLocation(a.store)
		if err != nil {
			return err
		}
		if loc == nil {
			fmt.Fprintln(a.out, "no location cached")
			return nil
		}
		fmt.Fprintf(a.out, "%s (%.4f, %.4f)\n", loc.DisplayName, loc.Latitude, loc.Longitude)
		return nil
	}

	switch args[0] {
	case "clear":
		if err := session.ClearLocation(a.store); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "location cleared")
		return nil
	case "set":
	default:
		return fmt.Errorf("unknown location command %q", args[0])
	}

	fs := flag.NewFlagSet("location set", flag.ContinueOnError)
	lat := fs.String("lat", "", "latitude")
	lng := fs.String("lng", "", "longitude")
	city := fs.String("city", "", "city")
	state := fs.String("state", "", "state")
	country := fs.String("country", "", "country")
	address := fs.String("address", "", "street address")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	loc := session.Location{City: *city, State: *state, Country: *country, Address: *address}
	var err error
	if loc.Latitude, err = parseCoordinate(*lat, "lat", 90); err != nil {
		return err
	}
	if loc.Longitude, err = parseCoordinate(*lng, "lng", 180); err != nil {
		return err
	}
	loc.DisplayName = displayName(loc)
	if err := session.SaveLocation(a.store, loc); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "location set to %s\n", loc.DisplayName)
	return nil
}

func (a *app) products(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	search := fs.String("search", "", "search text")
	category := fs.String("category", "", "category")
	sortKey := fs.String("sort", "", "sort key")
	direction := fs.String("direction", "", "asc or desc")
	maxDistance := fs.Float64("max-distance", 0, "only listings within this many miles")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := a.authorized(session.RouteMarketplace)
	if err != nil {
		return err
	}

	query := url.Values{}
	for key, value := range map[string]string{"search": *search, "category": *category, "sort": *sortKey, "direction": *direction} {
		if value != "" {
			query.Set(key, value)
		}
	}
	if *page > 1 {
		query.Set("page", strconv.Itoa(*page))
	}

	loc, err := session.LoadLocation(a.store)
	if err != nil {
		return err
	}
	if loc != nil {
		query.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
		query.Set("lng", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	} else if *maxDistance > 0 || *sortKey == "distance" {
		return errors.New("distance needs a location, run: swapsafe location set -lat <lat> -lng <lng>")
	}
	if *maxDistance > 0 {
		query.Set("maxDistance", strconv.FormatFloat(*maxDistance, 'f', -1, 64))
	}

	res, err := client.products(ctx, query)
	if err != nil {
		return a.handleAPIError(ctx, err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tPRICE\tCONDITION\tDISTANCE\tSELLER\tSHIELD")
	for _, p := range res.Items {
		distance := "-"
		if p.Distance != nil {
			distance = strconv.FormatFloat(*p.Distance, 'f', 1, 64) + " mi"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Title, p.Price.StringFixed(2), p.Condition, distance, p.Seller.Name, p.ScamShield)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "page %d, %d of %d listings\n", res.Page, len(res.Items), res.Total)
	if loc != nil {
		fmt.Fprintf(a.out, "distances from %s\n", loc.DisplayName)
	}
	return nil
}

func (a *app) transactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("transactions", flag.ContinueOnError)
	tab := fs.String("tab", "", "status tab")
	search := fs.String("search", "", "search text")
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := a.authorized(session.RouteTransactions)
	if err != nil {
		return err
	}

	query := url.Values{}
	if *tab != "" {
		query.Set("tab", *tab)
	}
	if *search != "" {
		query.Set("search", *search)
	}
	res, err := client.transactions(ctx, query)
	if err != nil {
		return a.handleAPIError(ctx, err)
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRODUCT\tROLE\tSTATUS\tESCROW\tAMOUNT\tRISK")
	for _, t := range res.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Product.Name, t.UserRole, t.Status, t.EscrowStatus, t.Amount.StringFixed(2), t.AIScamRisk)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d of %d transactions\n", len(res.Items), res.Total)
	return nil
}

func (a *app) notifications(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	unread := fs.Bool("unread", false, "only unread notifications")
	if err := fs.Parse(args); err != nil {
		return err
	}
	client, err := a.authorized(session.RouteDashboard)
	if err != nil {
		return err
	}

	res, err := client.notifications(ctx, *unread)
	if err != nil {
		return a.handleAPIError(ctx, err)
	}
	for _, n := range res.Items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s [%s/%s] %s: %s\n", marker, n.Timestamp.Local().Format("Jan 02 15:04"), n.Type, n.Priority, n.Title, n.Message)
	}
	fmt.Fprintf(a.out, "%d unread\n", res.UnreadCount)
	return nil
}

// authorized applies the route policy before calling a protected endpoint.
func (a *app) authorized(route string) (*apiClient, error) {
	nav := a.guard.Navigate(route)
	if nav.Redirect && nav.Path == session.RouteLogin {
		return nil, errors.New("not signed in, run: swapsafe login -email <email> -password <password>")
	}
	return a.api.withToken(a.guard.Token()), nil
}

// handleAPIError drops the local session when the API rejects the token.
func (a *app) handleAPIError(ctx context.Context, err error) error {
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Code == "UNAUTHORIZED" {
		a.guard.Logout(ctx)
		return errors.New("session rejected by the server, sign in again")
	}
	return err
}

func (a *app) printNavigation(nav session.Navigation) {
	if nav.Redirect {
		fmt.Fprintf(a.out, "-> %s\n", nav.Path)
		return
	}
	fmt.Fprintf(a.out, "%s\n", nav.Path)
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".swapsafe-session.json"
	}
	return filepath.Join(dir, "swapsafe", "session.json")
}

func parseCoordinate(raw, name string, bound float64) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing -%s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid -%s %q", name, raw)
	}
	if v < -bound || v > bound {
		return 0, fmt.Errorf("-%s must be within ±%g", name, bound)
	}
	return v, nil
}

func displayName(loc session.Location) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{loc.City, loc.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%.4f, %.4f", loc.Latitude, loc.Longitude)
	}
	return strings.Join(parts, ", ")
}
