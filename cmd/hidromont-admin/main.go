// Command hidromont-admin runs admin panel actions from the terminal.
//
//	hidromont-admin [flags] login
//	hidromont-admin [flags] projects
//	hidromont-admin [flags] orders
//	hidromont-admin [flags] set-order-status <id> <status>
//	hidromont-admin [flags] upload-hero <project-id> <file>
//
// Credentials come from -email/-password or HIDROMONT_ADMIN_EMAIL and
// HIDROMONT_ADMIN_PASSWORD. Every command logs in first.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hidromont/site-backend/adminclient"
	"github.com/hidromont/site-backend/config"
)

func main() {
	_ = godotenv.Load()
	c := config.New()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	fs := flag.NewFlagSet("hidromont-admin", flag.ExitOnError)
	apiURL := fs.String("api", config.GetString(c, "HIDROMONT_API_URL", "http://localhost:8080"), "base URL of the API")
	email := fs.String("email", config.GetString(c, "HIDROMONT_ADMIN_EMAIL", ""), "admin email")
	password := fs.String("password", config.GetString(c, "HIDROMONT_ADMIN_PASSWORD", ""), "admin password")
	timeout := fs.Duration("timeout", 2*time.Minute, "overall timeout")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: hidromont-admin [flags] login|projects|orders|set-order-status <id> <status>|upload-hero <project-id> <file>")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	client, err := adminclient.New(*apiURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid API URL")
	}
	panel := adminclient.NewPanel(client)

	if err := run(ctx, panel, *email, *password, args); err != nil {
		if panel.Message != "" {
			fmt.Fprintln(os.Stderr, panel.Message)
		}
		log.Error().Err(err).Str("command", args[0]).Msg("command failed")
		os.Exit(1)
	}
	if panel.Message != "" {
		fmt.Println(panel.Message)
	}
}

func run(ctx context.Context, panel *adminclient.Panel, email, password string, args []string) error {
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}
	if err := panel.Login(ctx, email, password); err != nil {
		return err
	}

	switch args[0] {
	case "login":
		fmt.Printf("Logged in as %s\n", email)
		return nil
	case "projects":
		printProjects(panel)
		return nil
	case "orders":
		if err := panel.RefreshOrders(ctx); err != nil {
			return err
		}
		printOrders(panel)
		return nil
	case "set-order-status":
		if len(args) != 3 {
			return fmt.Errorf("usage: set-order-status <id> <status>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := panel.RefreshOrders(ctx); err != nil {
			return err
		}
		if err := panel.SetOrderStatus(ctx, id, args[2]); err != nil {
			return err
		}
		printOrders(panel)
		return nil
	case "upload-hero":
		if len(args) != 3 {
			return fmt.Errorf("usage: upload-hero <project-id> <file>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()
		return panel.UploadHero(ctx, id, adminclient.Upload{Name: filepath.Base(args[2]), Content: f})
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func printProjects(panel *adminclient.Panel) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPHASE\tGALLERY\tTITLE")
	for _, project := range panel.Projects {
		gallery := "-"
		if detail, ok := panel.Details[project.ID]; ok {
			gallery = strconv.Itoa(len(detail.Gallery))
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", project.ID, project.Status, project.Phase, gallery, project.Title)
	}
	_ = w.Flush()
}

func printOrders(panel *adminclient.Panel) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tCREATED\tNAME\tEMAIL\tSUBJECT")
	for _, order := range panel.Orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			order.ID, order.Status, order.CreatedAt.Format("2006-01-02 15:04"), order.Name, order.Email, order.Subject)
	}
	_ = w.Flush()
}
