package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	notifications := &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Run:   runNotifications,
	}
	notifications.Flags().Int("limit", 20, "Maximum notifications to show")
	notifications.Flags().String("read", "", "Mark a notification ID as read instead of listing")

	market := &cobra.Command{
		Use:   "market",
		Short: "Market prices and trends",
	}
	prices := &cobra.Command{
		Use:   "prices",
		Short: "Current mandi prices",
		Run:   runMarketPrices,
	}
	prices.Flags().String("crops", "Rice,Wheat", "Comma-separated crops")
	prices.Flags().String("location", "", "Market location filter")
	trends := &cobra.Command{
		Use:   "trends",
		Short: "Price trends over recent days",
		Run:   runMarketTrends,
	}
	trends.Flags().String("crops", "Rice,Wheat", "Comma-separated crops")
	trends.Flags().Int("days", 30, "History window in days")
	market.AddCommand(prices, trends)

	schemes := &cobra.Command{
		Use:   "schemes",
		Short: "Government schemes you may be eligible for",
		Run:   runSchemes,
	}

	sensors := &cobra.Command{
		Use:   "sensors [farm-id]",
		Short: "Latest sensor readings for a farm",
		Args:  cobra.ExactArgs(1),
		Run:   runSensors,
	}
	sensors.Flags().String("types", "", "Comma-separated sensor types")

	status := &cobra.Command{
		Use:   "status",
		Short: "Backend service status",
		Run:   runStatus,
	}

	RootCmd.AddCommand(notifications, market, schemes, sensors, status)
}

func runNotifications(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	readID, _ := cmd.Flags().GetString("read")

	a := newApp()
	if readID != "" {
		if err := a.data.MarkNotificationRead(cmd.Context(), readID); err != nil {
			exitErr("mark read", err)
		}
		fmt.Println("marked as read")
		return
	}

	items, err := a.data.Notifications(cmd.Context(), limit)
	if err != nil {
		exitErr("notifications", err)
	}
	if len(items) == 0 {
		fmt.Println("no notifications")
		return
	}
	for _, n := range items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s [%s] %s: %s\n", marker, n.Type, n.Title, n.Message)
	}
}

func runMarketPrices(cmd *cobra.Command, args []string) {
	cropsFlag, _ := cmd.Flags().GetString("crops")
	location, _ := cmd.Flags().GetString("location")

	a := newApp()
	prices, err := a.data.MarketPrices(cmd.Context(), splitCrops(cropsFlag), location)
	if err != nil {
		exitErr("market prices", err)
	}
	for _, p := range prices {
		fmt.Printf("%-12s %-20s %8.2f %s/kg  (%s)\n", p.Crop, p.Market, p.PricePerKg, p.Currency, p.Date)
	}
}

func runMarketTrends(cmd *cobra.Command, args []string) {
	cropsFlag, _ := cmd.Flags().GetString("crops")
	days, _ := cmd.Flags().GetInt("days")

	a := newApp()
	trends, err := a.data.PriceTrends(cmd.Context(), splitCrops(cropsFlag), days)
	if err != nil {
		exitErr("market trends", err)
	}
	for _, t := range trends {
		fmt.Printf("%-12s %d days: %s\n", t.Crop, t.Days, t.Trend)
	}
}

func runSchemes(cmd *cobra.Command, args []string) {
	a := newApp()
	schemes, err := a.data.Schemes(cmd.Context())
	if err != nil {
		exitErr("schemes", err)
	}
	for _, s := range schemes {
		fmt.Printf("%s (%s) by %s\n", s.Name, s.EligibilityStatus, s.ImplementingAgency)
		if s.Description != "" {
			fmt.Printf("    %s\n", s.Description)
		}
	}
}

func runSensors(cmd *cobra.Command, args []string) {
	typesFlag, _ := cmd.Flags().GetString("types")

	a := newApp()
	readings, err := a.data.SensorData(cmd.Context(), args[0], splitCrops(typesFlag))
	if err != nil {
		exitErr("sensors", err)
	}
	for _, r := range readings {
		fmt.Printf("%-16s %8.2f %-6s %s\n", r.SensorType, r.Value, r.Unit, r.Timestamp.Format("15:04:05"))
	}
}

func runStatus(cmd *cobra.Command, args []string) {
	a := newApp()
	st, err := a.data.Status(cmd.Context())
	if err != nil {
		exitErr("status", err)
	}
	fmt.Printf("status: %s (version %s)\n", st.Status, st.Version)
	for name, state := range st.Services {
		fmt.Printf("  %-20s %s\n", name, state)
	}
}

func splitCrops(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
