// hrctl is a terminal front end for the HR attendance and leave backend.
// Each subcommand plays the role of one of the product's screens: it fetches
// through the authenticated client, validates locally, renders, and holds no
// durable state beyond the session vault.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"hrclient/internal/api"
	"hrclient/internal/checkin"
	"hrclient/internal/device"
	"hrclient/internal/domain/employee"
	"hrclient/internal/platform/config"
	"hrclient/internal/platform/securestore"
	"hrclient/internal/session"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", api.Message(err, err.Error()))
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	vault := securestore.NewFileVault(cfg.VaultPath, cfg.VaultPassphrase)
	store := session.NewStore(vault, logger)
	if err := store.Load(); err != nil {
		return err
	}

	client := api.New(cfg.APIBaseURL, store, &http.Client{Timeout: cfg.RequestTimeout}, logger)
	client.OnSessionExpired(func() {
		fmt.Fprintln(out, "Session expired. Run `hrctl login` to sign in again.")
	})

	a := &app{cfg: cfg, client: client, store: store, out: out, log: logger}

	if len(args) == 0 {
		return a.usage()
	}

	ctx := context.Background()
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.login(ctx, rest)
	case "logout":
		return a.logout()
	case "whoami":
		return a.whoami(ctx)
	case "attendance":
		return a.attendance(ctx)
	case "checkin":
		return a.checkIn(ctx, rest)
	case "checkout":
		return a.checkOut(ctx)
	case "leave":
		return a.leave(ctx, rest)
	case "employees":
		return a.employees(ctx, rest)
	case "departments":
		return a.departments(ctx, rest)
	case "companies":
		return a.companies(ctx)
	case "profile":
		return a.profile(ctx, rest)
	case "help", "-h", "--help":
		return a.usage()
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n", cmd)
		return a.usage()
	}
}

type app struct {
	cfg    config.Config
	client *api.Client
	store  *session.Store
	out    io.Writer
	log    *slog.Logger
}

func (a *app) usage() error {
	fmt.Fprint(a.out, `Usage: hrctl <command> [options]

Commands:
  login -u <username> -p <password>   sign in
  logout                              sign out and erase stored tokens
  whoami                              show the signed-in user
  attendance                          today's status and recent history
  checkin office|field                record today's check-in
  checkout                            record today's check-out
  leave apply|list|balance|upcoming|approve|reject
  employees list|show|filter          directory (HR)
  departments -company <id>           departments of a company
  companies                           company list
  profile show|update                 view or edit your profile
`)
	return nil
}

// self resolves the signed-in user's employee profile.
func (a *app) self(ctx context.Context) (employee.Employee, error) {
	state := a.store.Current()
	if !state.Authenticated() || state.Claims == nil {
		return employee.Employee{}, fmt.Errorf("not signed in; run `hrctl login`")
	}
	return a.client.EmployeeByUser(ctx, state.Claims.UserID)
}

// flow builds the check-in flow for the signed-in employee with the
// configured device backends.
func (a *app) flow(emp employee.Employee) *checkin.Flow {
	return checkin.NewFlow(a.client, a.camera(), a.location(), checkin.Options{
		EmployeeID:  emp.ID,
		HistoryDays: a.cfg.HistoryDays,
		Quality:     a.cfg.PhotoQuality,
		MaxEdge:     a.cfg.PhotoMaxEdge,
		Logger:      a.log,
	})
}

func (a *app) camera() checkin.CameraSource {
	if a.cfg.CaptureCommand != "" {
		return &device.ExecCamera{Command: strings.Fields(a.cfg.CaptureCommand)}
	}
	return &device.FileCamera{Path: a.cfg.SnapshotPath}
}

func (a *app) location() checkin.LocationSource {
	if a.cfg.LocationCommand != "" {
		return &device.ExecLocation{Command: strings.Fields(a.cfg.LocationCommand)}
	}
	return &device.StaticLocation{
		Position:   checkin.Position{Longitude: a.cfg.StaticLongitude, Latitude: a.cfg.StaticLatitude},
		Configured: a.cfg.StaticLocation,
	}
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}
