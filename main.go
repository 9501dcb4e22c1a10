package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nwsclient/aggregator"
	"nwsclient/config"
	"nwsclient/logging"
	"nwsclient/models"
	"nwsclient/providers"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	client *providers.Client
)

func main() {
	var rootCmd = &cobra.Command{
		Use:           "nws",
		Short:         "Client for the National Weather Service API",
		Long:          "Lists observation stations and fetches station details from api.weather.gov",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	var stationsCmd = &cobra.Command{
		Use:   "stations",
		Short: "Observation stations",
	}

	var listCmd = &cobra.Command{
		Use:   "list",
		Short: "List observation stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetBool("raw")
			all, _ := cmd.Flags().GetBool("all")
			output, _ := cmd.Flags().GetString("output")

			ctx, cancel := signalContext()
			defer cancel()

			switch {
			case raw:
				return listRaw(ctx, opts)
			case all:
				return listAll(ctx, opts, output)
			default:
				return listPage(ctx, opts, output)
			}
		},
	}
	addListFlags(listCmd)
	listCmd.Flags().Bool("raw", false, "Print the geo-JSON response body as received")
	listCmd.Flags().Bool("all", false, "Follow pagination cursors until the listing is exhausted")

	var getCmd = &cobra.Command{
		Use:   "get [station]",
		Short: "Show the detail of one station",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			ctx, cancel := signalContext()
			defer cancel()

			st, err := client.StationDetail(ctx, strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			return printStations(output, []*models.Station{st}, "")
		},
	}
	getCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")

	var detailsCmd = &cobra.Command{
		Use:   "details",
		Short: "List one page of stations and fetch every station's detail",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			workers, _ := cmd.Flags().GetInt("workers")
			if workers <= 0 {
				workers = cfg.DetailWorkers
			}

			ctx, cancel := signalContext()
			defer cancel()

			page, err := client.ListStations(ctx, opts)
			if err != nil {
				return err
			}

			agg := aggregator.NewAggregator(client, workers)
			popErr := agg.Populate(ctx, page.Stations)
			counts := aggregator.Summary(page.Stations)
			logger.Info("station details fetched",
				"stations", len(page.Stations),
				"full", counts[models.StateFull],
				"workers", agg.Workers(),
			)

			if err := printStations(output, page.Stations, page.NextCursor); err != nil {
				return err
			}
			return popErr
		},
	}
	addListFlags(detailsCmd)
	detailsCmd.Flags().Int("workers", 0, "Parallel detail requests (default DETAIL_WORKERS)")

	var serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Run the HTTP JSON front-end",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer()
		},
	}

	stationsCmd.AddCommand(listCmd, getCmd, detailsCmd)
	rootCmd.AddCommand(stationsCmd, serverCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.New(cfg, os.Stderr, "nws")

	client, err = providers.NewClient(providers.Config{
		ClientName:   cfg.ClientName,
		ContactEmail: cfg.ContactEmail,
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
	}, providers.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Debug("client configured", "user_agent", client.UserAgent(), "base_url", cfg.BaseURL)
	return nil
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("state", "s", nil, "State or marine region codes (repeatable or comma separated)")
	cmd.Flags().String("cursor", "", "Pagination cursor from a previous listing")
	cmd.Flags().IntP("limit", "l", providers.DefaultLimit, "Maximum stations per page")
	cmd.Flags().StringP("output", "o", "text", "Output format (text, json)")
}

func listOptions(cmd *cobra.Command) (providers.ListOptions, error) {
	states, _ := cmd.Flags().GetStringSlice("state")
	cursor, _ := cmd.Flags().GetString("cursor")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return providers.ListOptions{}, fmt.Errorf("--limit must be positive, got %d", limit)
	}

	for i, s := range states {
		states[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return providers.ListOptions{States: states, Cursor: cursor, Limit: limit}, nil
}

func listRaw(ctx context.Context, opts providers.ListOptions) error {
	body, err := client.ListStationsRaw(ctx, opts)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(body)
	return err
}

func listPage(ctx context.Context, opts providers.ListOptions, output string) error {
	page, err := client.ListStations(ctx, opts)
	if err != nil {
		return err
	}
	return printStations(output, page.Stations, page.NextCursor)
}

func listAll(ctx context.Context, opts providers.ListOptions, output string) error {
	var all []*models.Station
	err := client.WalkStations(ctx, opts, func(st *models.Station) error {
		all = append(all, st)
		if len(all)%opts.Limit == 0 {
			logger.Debug("walking stations", "seen", len(all))
		}
		return nil
	})
	if err != nil {
		return err
	}
	return printStations(output, all, "")
}

func printStations(output string, stations []*models.Station, nextCursor string) error {
	if output == "json" {
		data, err := json.MarshalIndent(models.StationList{Stations: stations, NextCursor: nextCursor}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	for _, st := range stations {
		printStation(st)
	}
	if nextCursor != "" {
		fmt.Printf("\nNext cursor: %s\n", nextCursor)
	}
	return nil
}

func printStation(st *models.Station) {
	fmt.Printf("%s  %s\n", st.ID(), valueOr(st.Name, "(unnamed)"))
	if st.State() != models.StateFull {
		return
	}

	fmt.Println(strings.Repeat("-", 40))
	if st.Geometry != nil {
		fmt.Printf("Location:   %.4f, %.4f\n", st.Geometry.Latitude(), st.Geometry.Longitude())
	}
	if st.Elevation != nil {
		fmt.Printf("Elevation:  %s\n", st.Elevation)
	}
	fmt.Printf("Time zone:  %s\n", valueOr(st.TimeZone, "-"))
	fmt.Printf("Forecast:   %s\n", valueOr(st.Forecast, "-"))
	fmt.Printf("County:     %s\n", valueOr(st.County, "-"))
	fmt.Printf("Fire zone:  %s\n", valueOr(st.FireWeatherZone, "-"))
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
