package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"krishimitra/internal/model"
	"krishimitra/internal/service"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the advisor one question",
		Long:  "Ask one question and print the answer. Attach a crop photo with --image for disease diagnosis; either a question or an image is required.",
		Run:   runAsk,
	}
	cmd.Flags().StringP("image", "i", "", "Path to a crop photo")
	cmd.Flags().String("sensor", "", "Sensor data as a JSON object")
	cmd.Flags().String("location", "", "Override the farm location")

	RootCmd.AddCommand(cmd)
}

func runAsk(cmd *cobra.Command, args []string) {
	imagePath, _ := cmd.Flags().GetString("image")
	sensorJSON, _ := cmd.Flags().GetString("sensor")
	location, _ := cmd.Flags().GetString("location")

	sub := model.Submission{
		Text:     strings.Join(args, " "),
		Location: location,
	}
	if imagePath != "" {
		data, err := os.ReadFile(imagePath)
		if err != nil {
			exitErr("read image", err)
		}
		sub.Image = data
		sub.ImageName = filepath.Base(imagePath)
	}
	if sensorJSON != "" {
		if err := json.Unmarshal([]byte(sensorJSON), &sub.SensorData); err != nil {
			exitErr("parse sensor data", err)
		}
	}

	a := newApp()
	advisor := a.newAdvisor()
	reply, err := advisor.Submit(cmd.Context(), sub)
	if err != nil {
		exitErr("ask", err)
	}
	printReply(reply)
}

func (a *app) newAdvisor() *service.Advisor {
	hist, err := a.history()
	if err != nil {
		// History is best-effort; the conversation still works without it.
		fmt.Fprintf(os.Stderr, "note: chat history disabled: %v\n", err)
		hist = nil
	}
	return service.NewAdvisor(a.query, hist, a.cfg.Client.Language)
}

func printReply(m *model.ChatMessage) {
	fmt.Println(m.Text)

	if len(m.Metadata.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range m.Metadata.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
	if len(m.Metadata.FollowUpSuggestions) > 0 {
		fmt.Println("\nYou could also ask:")
		for _, f := range m.Metadata.FollowUpSuggestions {
			fmt.Printf("  - %s\n", f)
		}
	}
	if m.Metadata.Confidence > 0 && !m.Metadata.IsError {
		fmt.Printf("\nconfidence %.0f%%", m.Metadata.Confidence*100)
		if len(m.Metadata.DataSources) > 0 {
			fmt.Printf(" · sources: %s", strings.Join(m.Metadata.DataSources, ", "))
		}
		fmt.Println()
	}
}
