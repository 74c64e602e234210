package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"krishimitra/internal/model"
)

func init() {
	ctx := &cobra.Command{
		Use:   "context",
		Short: "View or update your farming context",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Show the stored farming context",
		Run:   runContextGet,
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Create or update the farming context",
		Run:   runContextSet,
	}
	set.Flags().String("location", "", "Farm location (district, state)")
	set.Flags().String("crops", "", "Comma-separated primary crops")
	set.Flags().Float64("farm-size", 0, "Farm size in acres")
	set.Flags().String("soil", "", "Soil type")
	set.Flags().String("irrigation", "", "Irrigation method")
	set.Flags().String("experience", "", "Farming experience level")

	ctx.AddCommand(get, set)
	RootCmd.AddCommand(ctx)
}

func runContextGet(cmd *cobra.Command, args []string) {
	a := newApp()
	fc, err := a.data.FarmingContext(cmd.Context())
	if err != nil {
		exitErr("get context", err)
	}
	fmt.Printf("location:    %s\n", fc.Location)
	fmt.Printf("crops:       %s\n", strings.Join(fc.PrimaryCrops, ", "))
	fmt.Printf("farm size:   %.1f acres\n", fc.FarmSizeAcres)
	fmt.Printf("soil:        %s\n", fc.SoilType)
	fmt.Printf("irrigation:  %s\n", fc.IrrigationMethod)
	if fc.LastIrrigation != nil {
		fmt.Printf("last watered: %s\n", fc.LastIrrigation.Format("2006-01-02"))
	}
}

func runContextSet(cmd *cobra.Command, args []string) {
	location, _ := cmd.Flags().GetString("location")
	crops, _ := cmd.Flags().GetString("crops")
	farmSize, _ := cmd.Flags().GetFloat64("farm-size")
	soil, _ := cmd.Flags().GetString("soil")
	irrigation, _ := cmd.Flags().GetString("irrigation")
	experience, _ := cmd.Flags().GetString("experience")

	fc := &model.FarmingContext{
		Location:          location,
		FarmSizeAcres:     farmSize,
		SoilType:          soil,
		IrrigationMethod:  irrigation,
		FarmingExperience: experience,
	}
	for _, c := range strings.Split(crops, ",") {
		if c = strings.TrimSpace(c); c != "" {
			fc.PrimaryCrops = append(fc.PrimaryCrops, c)
		}
	}

	a := newApp()
	if err := a.data.SaveFarmingContext(cmd.Context(), fc); err != nil {
		exitErr("set context", err)
	}
	fmt.Println("farming context saved")
}
