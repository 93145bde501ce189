package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_finder/internal/adapters/listings"
	"hotel_finder/internal/app"
	"hotel_finder/internal/auth"
	"hotel_finder/internal/shared"
	mysqlrepo "hotel_finder/internal/storage/mysql"
	"hotel_finder/internal/validation"
)

func openRepo(ctx context.Context, cfg shared.Config) (*mysqlrepo.Repo, func(), error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return mysqlrepo.New(db), func() { _ = db.Close() }, nil
}

func importCmd(cfg shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the allow-listed cities' hotels with the reference dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			if file == "" {
				file = cfg.ReferenceCSV
			}
			repo, closeDB, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			st, err := app.NewReferenceImporter(repo, file).Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("imported=%d skipped=%d ignored=%d\n", st.Imported, st.Skipped, st.Ignored)
			return nil
		},
	}
	cmd.Flags().String("file", "", "CSV file to import (default: REFERENCE_CSV or the embedded dataset)")
	return cmd
}

func warmCmd(cfg shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm [cities...]",
		Short: "Resolve a list of cities to pre-populate the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			cities := args
			if len(cities) == 0 {
				cities = cfg.WarmCities
			}
			repo, closeDB, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			client, err := listings.New(listings.Options{
				URLTemplate:   cfg.ListingURL,
				Timeout:       cfg.ListingTimeout,
				RPS:           cfg.ListingRPS,
				PreDelay:      listings.Delay{Min: cfg.PreDelayMin, Max: cfg.PreDelayMax},
				ItemDelay:     listings.Delay{Min: cfg.ItemDelayMin, Max: cfg.ItemDelayMax},
				MaxCandidates: cfg.MaxCandidates,
			})
			if err != nil {
				return err
			}
			r := app.NewResolver(repo, client, app.NewReferenceImporter(repo, cfg.ReferenceCSV), cfg.LocalThreshold)

			log.Info().Int("cities", len(cities)).Int("workers", workers).Msg("warm-up starting")
			counts := app.Warm(cmd.Context(), r, cities, workers)

			names := make([]string, 0, len(counts))
			for c := range counts {
				names = append(names, c)
			}
			sort.Strings(names)
			for _, c := range names {
				fmt.Printf("%-12s %d\n", c, counts[c])
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", cfg.Workers, "cities resolved concurrently")
	return cmd
}

func addUserCmd(cfg shared.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			admin, _ := cmd.Flags().GetBool("admin")
			if password == "" {
				password = os.Getenv("HOTELCTL_PASSWORD")
			}

			repo, closeDB, err := openRepo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			tokens, err := auth.NewTokenService(cfg.SessionKey, cfg.SessionTTL)
			if err != nil {
				return err
			}
			u, err := app.NewAccounts(repo, tokens, validation.New()).Signup(cmd.Context(), app.SignupInput{
				Name: name, Email: email, Password: password, IsAdmin: admin,
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("created user %d <%s> admin=%t\n", u.ID, u.Email, u.IsAdmin)
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "login email")
	cmd.Flags().String("password", "", "password (default: $HOTELCTL_PASSWORD)")
	cmd.Flags().Bool("admin", false, "grant content administration")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
