package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	history := &cobra.Command{
		Use:   "history",
		Short: "Review past conversations",
		Run:   runHistory,
	}
	history.Flags().String("session", "", "Show one session only")
	history.Flags().Int("limit", 50, "Maximum messages")

	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "List stored conversation sessions",
		Run:   runHistorySessions,
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete stored history",
		Long:  "Delete stored history. With --session only that conversation is removed; otherwise everything is.",
		Run:   runHistoryClear,
	}
	clear.Flags().String("session", "", "Clear one session only")

	history.AddCommand(sessions, clear)
	RootCmd.AddCommand(history)
}

func runHistory(cmd *cobra.Command, args []string) {
	sessionID, _ := cmd.Flags().GetString("session")
	limit, _ := cmd.Flags().GetInt("limit")

	a := newApp()
	hist, err := a.history()
	if err != nil {
		exitErr("open history", err)
	}
	recs, err := hist.Recent(cmd.Context(), sessionID, limit)
	if err != nil {
		exitErr("history", err)
	}
	if len(recs) == 0 {
		fmt.Println("no history")
		return
	}
	for _, r := range recs {
		marker := "you"
		if r.Sender == "ai" {
			marker = " ai"
		}
		fmt.Printf("%s %s| %s\n", r.CreatedAt.Format("2006-01-02 15:04"), marker, r.Text)
	}
}

func runHistorySessions(cmd *cobra.Command, args []string) {
	a := newApp()
	hist, err := a.history()
	if err != nil {
		exitErr("open history", err)
	}
	ids, err := hist.Sessions(cmd.Context())
	if err != nil {
		exitErr("sessions", err)
	}
	if len(ids) == 0 {
		fmt.Println("no sessions")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}

func runHistoryClear(cmd *cobra.Command, args []string) {
	sessionID, _ := cmd.Flags().GetString("session")

	a := newApp()
	hist, err := a.history()
	if err != nil {
		exitErr("open history", err)
	}
	if err := hist.Clear(cmd.Context(), sessionID); err != nil {
		exitErr("clear history", err)
	}
	fmt.Println("history cleared")
}
