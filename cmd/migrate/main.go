// Command migrate manages the database schema and provisions accounts that
// cannot be created over HTTP.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"fishmart-be/internal/access"
	"fishmart-be/internal/auth"
	"fishmart-be/internal/config"
	"fishmart-be/internal/db"
	"fishmart-be/internal/user"

	"github.com/urfave/cli/v2"
)

// openDB is swapped in tests.
var openDB = func() (*sql.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.NewDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return database, cfg, nil
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "migrate",
		Usage:     "schema migrations and account provisioning",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "./migrations",
				Usage:   "directory holding the .sql migration files",
				EnvVars: []string{"MIGRATIONS_DIR"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "apply all pending migrations",
				Action: migrateAction(out, (*migrator).Up),
			},
			{
				Name:   "down",
				Usage:  "roll back the last applied migration",
				Action: migrateAction(out, (*migrator).Down),
			},
			{
				Name:  "seed-user",
				Usage: "create an account (admins and partners cannot self-register)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
					&cli.StringFlag{Name: "role", Value: string(access.RoleCustomer)},
					&cli.StringFlag{Name: "phone"},
					&cli.StringFlag{Name: "address"},
				},
				Action: func(c *cli.Context) error {
					return withDB(func(database *sql.DB, _ *config.Config) error {
						in := user.NewUser{
							Name:     c.String("name"),
							Email:    c.String("email"),
							Password: c.String("password"),
							Phone:    c.String("phone"),
							Address:  c.String("address"),
						}
						return seedUser(c.Context, out, user.NewService(user.NewRepository(database)), in, c.String("role"))
					})
				},
			},
			{
				Name:  "token",
				Usage: "mint an access token for an existing account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withDB(func(database *sql.DB, cfg *config.Config) error {
						tokens := auth.NewTokenManager(cfg.JWTSecret, auth.DefaultTokenTTL)
						return mintToken(c.Context, out, user.NewRepository(database), tokens,
							c.String("email"), c.String("password"))
					})
				},
			},
		},
	}
}

func withDB(fn func(*sql.DB, *config.Config) error) error {
	database, cfg, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database, cfg)
}

func migrateAction(out io.Writer, step func(*migrator, context.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		return withDB(func(database *sql.DB, _ *config.Config) error {
			m := &migrator{db: database, dir: c.String("dir"), out: out}
			return step(m, c.Context)
		})
	}
}

type userCreator interface {
	Create(ctx context.Context, in user.NewUser) (user.User, error)
}

func seedUser(ctx context.Context, out io.Writer, users userCreator, in user.NewUser, role string) error {
	r, err := access.ParseRole(strings.ToLower(role))
	if err != nil {
		return err
	}
	in.Role = r

	u, err := users.Create(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}

type userFinder interface {
	FindByEmail(ctx context.Context, email string) (user.User, error)
}

var errInvalidCredentials = errors.New("invalid email or password")

func mintToken(ctx context.Context, out io.Writer, users userFinder, tokens *auth.TokenManager, email, password string) error {
	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !auth.CheckPasswordHash(password, u.PasswordHash) {
		return errInvalidCredentials
	}

	token, err := tokens.Generate(u.ID, string(u.Role))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, token)
	return nil
}
