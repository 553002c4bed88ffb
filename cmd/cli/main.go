package main

import (
	"fmt"
	"os"

	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/assets"
	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/auth"
	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/notifications"
	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/root"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	assets.InitAssets(rootCmd)
	notifications.InitNotifications(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
