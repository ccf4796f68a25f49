package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"nexustab/events"
	"nexustab/llm"
	"nexustab/popup"
)

var askYes bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message to the assistant without the dashboard",
	Long: `Ask runs a single assistant turn: the reply is printed, widget
actions are applied to the store, and destructive actions prompt for
confirmation unless --yes is given.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		text := strings.Join(args, " ")

		s, err := openStore()
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}

		bus := events.NewEventBus()
		controller := popup.NewController(s, bus, llm.NewClient())

		if err := controller.Open(ctx); err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		snap := controller.Snapshot()
		if !snap.CanSubmit {
			fmt.Println("No API key configured for the active provider.")
			fmt.Println("Run: nexustab config set <provider>.api_key <key>")
			os.Exit(1)
		}

		controller.Submit(ctx, text)
		snap = controller.Snapshot()

		if snap.State == popup.StateNeedsConfirmation && snap.Pending != nil {
			if snap.Pending.Message != "" {
				fmt.Println(snap.Pending.Message)
			}
			if askYes || promptYesNo(snap.Pending.Action.Description()) {
				controller.Confirm(ctx)
				snap = controller.Snapshot()
			} else {
				controller.CancelPending()
				fmt.Println("Cancelled.")
				return
			}
		}

		if snap.Error != "" {
			fmt.Printf("Error: %s\n", snap.Error)
			os.Exit(1)
		}
		if snap.Result != "" {
			fmt.Println(snap.Result)
		}
	},
}

// promptYesNo asks for confirmation on stdin, defaulting to no
func promptYesNo(description string) bool {
	fmt.Printf("Confirm: %s? [y/N] ", description)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "Apply destructive actions without prompting")
}
