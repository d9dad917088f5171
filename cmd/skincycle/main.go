package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/awaistahir/skincycle/internal/app"
	"github.com/awaistahir/skincycle/internal/config"
	"github.com/awaistahir/skincycle/internal/engine"
	"github.com/awaistahir/skincycle/internal/logging"
	"github.com/awaistahir/skincycle/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "skincycle",
		Short: "SkinCycle - track an 11-day skincare routine with product cooldowns",
		Long: `SkinCycle tells you which products to use today based on a repeating
11-day routine and how long each product has to rest after it was used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.skincycle/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "database path (default is $HOME/.skincycle/skincycle.db)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error; default warn)")

	rootCmd.AddCommand(todayCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(themeCmd())
	rootCmd.AddCommand(routineCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(importCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command) error {
	v := config.New(cfgFile)
	// the CLI only reports problems unless asked otherwise
	v.SetDefault("log.level", "warn")
	v.BindPFlag("db", cmd.Flags().Lookup("db"))
	v.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))

	var err error
	cfg, err = config.Load(v)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDir(); err != nil {
		return err
	}

	logger, err = logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	return nil
}

// openTracker opens the store and loads state. The returned func closes the store.
func openTracker() (*app.Tracker, func(), error) {
	st, err := store.NewStore(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	tracker, err := app.Open(st, app.WithLogger(logger))
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return tracker, func() { st.Close() }, nil
}

func todayCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's routine step and the products you can use",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			day := tracker.Today()
			if date != "" {
				d, err := engine.ParseDate(strings.TrimSpace(date))
				if err != nil {
					return err
				}
				day = tracker.DayAt(d)
			}

			newRenderer(tracker.Settings().IsDarkTheme).day(os.Stdout, day)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Show another day (YYYY-MM-DD)")

	return cmd
}

func logCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <product>...",
		Short: "Log the products used in this routine (ids or names)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			ids, err := resolveProducts(tracker.Snapshot().Products, args)
			if err != nil {
				return err
			}

			entry, err := tracker.LogRoutine(ids)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Logged %d product(s) on %s at %s\n", len(entry.ProductsUsedIDs), entry.Date, entry.Time)
			return nil
		},
	}
}

// resolveProducts maps each argument to a product id, by exact id or by name
// (case-insensitive). Names must be unambiguous.
func resolveProducts(products []engine.Product, args []string) ([]string, error) {
	ids := []string{}
	for _, arg := range args {
		id, err := resolveProduct(products, arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func resolveProduct(products []engine.Product, arg string) (string, error) {
	for _, p := range products {
		if p.ID == arg {
			return p.ID, nil
		}
	}

	matches := []string{}
	for _, p := range products {
		if strings.EqualFold(p.Name, arg) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", app.ErrProductNotFound, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d products, use the id", arg, len(matches))
	}
}

func productCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product shelf",
	}

	cmd.AddCommand(productAddCmd())
	cmd.AddCommand(productListCmd())
	cmd.AddCommand(productDeleteCmd())

	return cmd
}

func productAddCmd() *cobra.Command {
	var name string
	var productType string
	var cooldown string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			p, err := tracker.AddProduct(name, productType, cooldown)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Added product: %s\n", p.Name)
			fmt.Printf("  ID: %s\n", p.ID)
			fmt.Printf("  Type: %s\n", p.Type)
			fmt.Printf("  Cooldown: %d day(s)\n", p.CooldownDays)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Product name (required)")
	cmd.Flags().StringVarP(&productType, "type", "t", string(engine.TypeRecovery), "Type: cleanser, recovery, retinol, acid, peeling, other")
	cmd.Flags().StringVarP(&cooldown, "cooldown", "c", "0", "Rest days after each use")

	cmd.MarkFlagRequired("name")

	return cmd
}

func productListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products with their cooldown status",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			shelf := tracker.Shelf()
			if len(shelf) == 0 {
				fmt.Println("The shelf is empty")
				return nil
			}

			newRenderer(tracker.Settings().IsDarkTheme).shelf(os.Stdout, shelf)
			return nil
		},
	}
}

func productDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product>",
		Short: "Delete a product (history is kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := resolveProduct(tracker.Snapshot().Products, args[0])
			if err != nil {
				return err
			}
			if err := tracker.DeleteProduct(id); err != nil {
				return err
			}

			fmt.Printf("✓ Deleted product %s\n", id)
			return nil
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the usage log",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyClearCmd())

	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List logged routines, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			items := tracker.History()
			if len(items) == 0 {
				fmt.Println("History is empty")
				return nil
			}

			newRenderer(tracker.Settings().IsDarkTheme).history(os.Stdout, items)
			return nil
		},
	}
}

func historyClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the whole history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm("Delete all history permanently? [y/N] ") {
				fmt.Println("Aborted")
				return nil
			}

			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := tracker.ClearHistory(); err != nil {
				return err
			}

			fmt.Println("✓ History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func themeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the colour theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			dark := tracker.Settings().IsDarkTheme
			if len(args) == 1 {
				switch args[0] {
				case "dark":
					dark, err = true, tracker.SetDarkTheme(true)
				case "light":
					dark, err = false, tracker.SetDarkTheme(false)
				case "toggle":
					dark, err = tracker.ToggleTheme()
				default:
					return fmt.Errorf("unknown theme %q (use dark, light or toggle)", args[0])
				}
				if err != nil {
					return err
				}
			}

			if dark {
				fmt.Println("Theme: dark")
			} else {
				fmt.Println("Theme: light")
			}
			return nil
		},
	}
}

func routineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routine",
		Short: "Show the 11-day routine cycle",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			newRenderer(tracker.Settings().IsDarkTheme).routine(os.Stdout, tracker.Today())
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write products, history and settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			if out == "" || out == "-" {
				return tracker.Export(os.Stdout)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()

			if err := tracker.Export(f); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "✓ Exported to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace products and history from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			tracker, closeFn, err := openTracker()
			if err != nil {
				return err
			}
			defer closeFn()

			products, entries, err := tracker.Import(f)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Imported %d product(s) and %d history entries\n", products, entries)
			return nil
		},
	}
}
