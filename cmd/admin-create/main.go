// admin-create provisions a dashboard user in the Postgres database named by
// DATABASE_URL. The password is read from the terminal without echo, or from
// the first line of stdin with --password-stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/carlot/dealer-admin/internal/config"
	"github.com/carlot/dealer-admin/internal/infra"
	"github.com/carlot/dealer-admin/internal/users"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

type options struct {
	email         string
	name          string
	phone         string
	role          string
	passwordStdin bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}

	password, err := promptPassword(opts, stdin, stdout)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.RunMigrations {
		if err := infra.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
			return err
		}
	}
	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return createUser(ctx, users.NewPostgresRepository(db), opts, password, stdout)
}

func parseFlags(args []string, stdout io.Writer) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("admin-create", pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVarP(&opts.email, "email", "e", "", "login email (required)")
	flagSet.StringVarP(&opts.name, "name", "n", "", "display name")
	flagSet.StringVar(&opts.phone, "phone", "", "contact phone number")
	flagSet.StringVarP(&opts.role, "role", "r", string(users.DefaultRole), "role: admin or sales")
	flagSet.BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")

	if err := flagSet.Parse(args); err != nil {
		return options{}, err
	}
	if strings.TrimSpace(opts.email) == "" {
		return options{}, errors.New("--email is required")
	}
	if !users.Role(strings.ToLower(opts.role)).Valid() {
		return options{}, fmt.Errorf("unknown role %q", opts.role)
	}
	return opts, nil
}

func promptPassword(opts options, stdin io.Reader, stdout io.Writer) (string, error) {
	if opts.passwordStdin {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(stdout, "Password: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(stdout, "Repeat password: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(stdout)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func createUser(ctx context.Context, repo users.Repository, opts options, password string, stdout io.Writer) error {
	role := users.ParseRole(strings.ToLower(opts.role))
	user, err := users.NewService(repo).Register(ctx, users.Registration{
		Email:    opts.email,
		Name:     opts.name,
		Phone:    opts.phone,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(stdout, "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
