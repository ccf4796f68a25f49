package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nexustab/store"
	"nexustab/widget"
)

var layoutCmd = &cobra.Command{
	Use:   "layout [name]",
	Short: "Show or switch the active dashboard layout",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		s, err := openStore()
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			return
		}

		if len(args) == 0 {
			layout := widget.DefaultLayout
			var stored string
			if found, err := s.Get(ctx, store.KeyActiveLayout, &stored); err == nil && found && widget.ValidLayout(stored) {
				layout = stored
			}
			fmt.Printf("Active layout: %s\n", layout)
			return
		}

		name := args[0]
		if !widget.ValidLayout(name) {
			fmt.Printf("Unknown layout: %s (supported: %s)\n", name, strings.Join(widget.Layouts(), ", "))
			return
		}

		if err := s.Set(ctx, store.KeyActiveLayout, name); err != nil {
			fmt.Printf("Error saving layout: %v\n", err)
			return
		}

		fmt.Printf("Switched layout to %s\n", name)
	},
}
