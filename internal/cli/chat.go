package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"krishimitra/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation with the advisor",
		Long:  "Start an interactive chat session. Commands inside the session: /image <path> stages a photo for the next question, /quit exits.",
		Run:   runChat,
	}
	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	a := newApp()
	advisor := a.newAdvisor()

	fmt.Println("KrishiMitra chat. Ask about your crops, weather, prices. /quit to exit.")

	var stagedImage []byte
	var stagedName string

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "/quit" || line == "/exit":
			return
		case strings.HasPrefix(line, "/image "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "/image "))
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("could not read image: %v\n", err)
				continue
			}
			stagedImage = data
			stagedName = filepath.Base(path)
			fmt.Printf("image staged: %s (%d bytes). It will go with your next question.\n", stagedName, len(data))
			continue
		case line == "" && stagedImage == nil:
			continue
		}

		reply, err := advisor.Submit(cmd.Context(), model.Submission{
			Text:      line,
			Image:     stagedImage,
			ImageName: stagedName,
		})
		if err != nil {
			// Validation and busy rejections are transient warnings; the
			// staged state is kept so the user can retry.
			fmt.Printf("! %v\n", err)
			continue
		}

		printReply(reply)
		if !reply.Metadata.IsError {
			stagedImage = nil
			stagedName = ""
		}
	}
}
