package cli

import (
	"fmt"

	"chirper/internal/middleware"
	"chirper/internal/seed"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var (
		opts     seed.Options
		fixtures string
		clean    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		Long:  "Populate the database with generated demo data, or with the contents of a YAML fixtures file when --fixtures is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lc, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = lc.Close() }()

			if clean {
				if cfg.IsProduction() {
					return fmt.Errorf("refusing to clean a %s database", cfg.Env)
				}
				if err := lc.Reset(cmd.Context()); err != nil {
					return err
				}
			}

			s := seed.NewSeeder(lc.DB(), middleware.Logger)
			var sum seed.Summary
			if fixtures != "" {
				fx, err := seed.LoadFixturesFile(fixtures)
				if err != nil {
					return err
				}
				sum, err = s.ApplyFixtures(cmd.Context(), fx)
				if err != nil {
					return err
				}
			} else {
				sum, err = s.Generate(cmd.Context(), opts)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seeded %d users, %d tweets, %d comments\n", sum.Users, sum.Tweets, sum.Comments)
			if fixtures == "" && sum.Users > 0 {
				fmt.Fprintf(out, "generated users share the password %q\n", seed.DefaultPassword)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 20, "number of users to generate")
	cmd.Flags().IntVar(&opts.TweetsPerUser, "tweets", 5, "tweets per generated user")
	cmd.Flags().IntVar(&opts.CommentsPerTweet, "comments", 3, "comments per generated tweet")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "YAML fixtures file to load instead of generated data")
	cmd.Flags().BoolVar(&clean, "clean", false, "delete existing rows first")
	return cmd
}

