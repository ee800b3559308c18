// Command menuctl runs maintenance tasks against the menu database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/franciscosanchezn/gin-menu-api/internal/config"
	"github.com/franciscosanchezn/gin-menu-api/internal/database"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cmd := &cli.Command{
		Name:  "menuctl",
		Usage: "Maintenance commands for the menu API",
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openDatabase()
					if err != nil {
						return err
					}
					if err := database.Migrate(db); err != nil {
						return err
					}
					log.Info("Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Create a demo organization with a catalog and one menu",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Value: "demo@menu.local", Usage: "organization email"},
					&cli.StringFlag{Name: "password", Value: "demo-password", Usage: "organization password"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openMigratedDatabase()
					if err != nil {
						return err
					}
					result, err := seedDemo(ctx, db, c.String("email"), c.String("password"))
					if err != nil {
						return err
					}
					log.WithFields(log.Fields{
						"organization_id": result.OrganizationID,
						"menu_id":         result.MenuID,
					}).Info("Demo data seeded")
					return nil
				},
			},
			{
				Name:  "create-client",
				Usage: "Register an OAuth2 client for an organization and print its credentials",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true, Usage: "owning organization email"},
					&cli.StringFlag{Name: "name", Value: "Development client", Usage: "client display name"},
					&cli.StringFlag{Name: "scopes", Value: "read write", Usage: "space separated scopes"},
					&cli.StringFlag{Name: "grant-types", Value: "client_credentials", Usage: "allowed grant types"},
					&cli.StringFlag{Name: "redirect-uri", Usage: "redirect URI for the authorization code grant"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := openMigratedDatabase()
					if err != nil {
						return err
					}
					creds, err := createClient(ctx, db, clientOptions{
						Email:       c.String("email"),
						Name:        c.String("name"),
						Scopes:      c.String("scopes"),
						GrantTypes:  c.String("grant-types"),
						RedirectURI: c.String("redirect-uri"),
					})
					if err != nil {
						return err
					}

					fmt.Printf("Client ID: %s\n", creds.ID)
					fmt.Printf("Client Secret: %s\n", creds.Secret)
					fmt.Println("\nUse these credentials for testing:")
					fmt.Printf("curl -X POST http://localhost:8080/oauth/token \\\n")
					fmt.Printf("  -d 'grant_type=client_credentials' \\\n")
					fmt.Printf("  -d 'client_id=%s' \\\n", creds.ID)
					fmt.Printf("  -d 'client_secret=%s'\n", creds.Secret)
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase() (*gorm.DB, error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.InitDatabase(database.FromConfig(conf))
}

func openMigratedDatabase() (*gorm.DB, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
