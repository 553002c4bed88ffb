package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/config"
	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/output"
	"github.com/spf13/cobra"
)

type asset struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Tag             string     `json:"tag"`
	Description     string     `json:"description"`
	NextMaintenance *time.Time `json:"next_maintenance"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry"`
	LicenseExpiry   *time.Time `json:"license_expiry"`
	AssignedTo      *int       `json:"assigned_to"`
}

// ==========================
// Init Assets
// ==========================
func InitAssets(rootCmd *cobra.Command) {

	assetsCmd := &cobra.Command{
		Use:   "assets",
		Short: "Manage assets",
	}

	assetsCmd.AddCommand(
		listAssetsCmd(),
		createAssetCmd(),
		deleteAssetCmd(),
	)

	rootCmd.AddCommand(assetsCmd)
}

// ==========================
// LIST
// ==========================
func listAssetsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			url := config.APIURL() + "/assets"
			if search != "" {
				url += "?search=" + search
			}

			req, _ := http.NewRequest("GET", url, nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var list []asset
			if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			rows := make([][]interface{}, 0, len(list))
			for _, a := range list {
				rows = append(rows, []interface{}{
					a.ID, a.Name, a.Tag,
					formatDate(a.NextMaintenance),
					formatDate(a.WarrantyExpiry),
					formatDate(a.LicenseExpiry),
				})
			}
			output.RenderTable(
				[]string{"ID", "Name", "Tag", "Next Maintenance", "Warranty Expiry", "License Expiry"},
				rows,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by name or tag")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createAssetCmd() *cobra.Command {

	var name string
	var tag string
	var description string
	var nextMaintenance string
	var warrantyExpiry string
	var licenseExpiry string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create asset",
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			payload := map[string]interface{}{
				"name":        name,
				"tag":         tag,
				"description": description,
			}
			for flag, v := range map[string]string{
				"next_maintenance": nextMaintenance,
				"warranty_expiry":  warrantyExpiry,
				"license_expiry":   licenseExpiry,
			} {
				if v == "" {
					continue
				}
				t, err := time.Parse("2006-01-02", v)
				if err != nil {
					return fmt.Errorf("invalid %s date %q, expected YYYY-MM-DD", flag, v)
				}
				payload[flag] = t.Format(time.RFC3339)
			}

			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", config.APIURL()+"/assets", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var out any
			json.NewDecoder(resp.Body).Decode(&out)
			b, _ := json.MarshalIndent(out, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name")
	cmd.Flags().StringVar(&tag, "tag", "", "asset tag")
	cmd.Flags().StringVar(&description, "description", "", "asset description")
	cmd.Flags().StringVar(&nextMaintenance, "next-maintenance", "", "next maintenance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&warrantyExpiry, "warranty-expiry", "", "warranty expiry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&licenseExpiry, "license-expiry", "", "license expiry date (YYYY-MM-DD)")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/assets/"+args[0], nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNoContent {
				fmt.Println("Asset deleted")
			} else {
				fmt.Println("Failed to delete asset")
			}
			return nil
		},
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
