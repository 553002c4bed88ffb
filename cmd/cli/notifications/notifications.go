package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/config"
	"github.com/Ramish-fuh/Inventory-sub000/cmd/cli/output"
	"github.com/spf13/cobra"
)

type notification struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	Read        bool       `json:"read"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Recurring   bool       `json:"recurring"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ==========================
// Init Notifications
// ==========================
func InitNotifications(rootCmd *cobra.Command) {

	notificationsCmd := &cobra.Command{
		Use:   "notifications",
		Short: "View and schedule notifications",
	}

	notificationsCmd.AddCommand(
		listNotificationsCmd(),
		scheduleNotificationCmd(),
		cancelScheduleCmd(),
	)

	rootCmd.AddCommand(notificationsCmd)
}

// ==========================
// LIST
// ==========================
func listNotificationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/notifications", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			var out struct {
				Items  []notification `json:"items"`
				Unread int            `json:"unread"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}

			rows := make([][]interface{}, 0, len(out.Items))
			for _, n := range out.Items {
				read := ""
				if !n.Read {
					read = "*"
				}
				rows = append(rows, []interface{}{
					n.ID, read, n.Type, n.Message, n.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable([]string{"ID", "New", "Type", "Message", "Created"}, rows)
			fmt.Printf("%d unread\n", out.Unread)
			return nil
		},
	}
}

// ==========================
// SCHEDULE
// ==========================
func scheduleNotificationCmd() *cobra.Command {

	var userID int
	var message string
	var at string
	var recurring bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a reminder notification",
		Long: `Schedule a reminder for a user at a given time.

Example:
  inventory notifications schedule --user 3 --message "Renew SSL cert" --at 2026-09-01T09:00:00Z`,
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			when, err := time.Parse(time.RFC3339, at)
			if err != nil {
				return fmt.Errorf("invalid --at %q, expected RFC 3339 timestamp", at)
			}

			body, _ := json.Marshal(map[string]interface{}{
				"user_id":      userID,
				"message":      message,
				"scheduled_at": when.Format(time.RFC3339),
				"recurring":    recurring,
			})

			req, _ := http.NewRequest("POST", config.APIURL()+"/notifications", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			raw, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("API error: %s", string(raw))
			}

			var n notification
			if err := json.Unmarshal(raw, &n); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			fmt.Printf("Scheduled notification %d for %s\n", n.ID, when.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "recipient user ID (required)")
	cmd.Flags().StringVar(&message, "message", "", "notification message (required)")
	cmd.Flags().StringVar(&at, "at", "", "delivery time, RFC 3339 (required)")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "repeat yearly at the same date and time")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("message")
	cmd.MarkFlagRequired("at")

	return cmd
}

// ==========================
// CANCEL
// ==========================
func cancelScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [id]",
		Short: "Cancel a scheduled notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {

			token, err := config.ReadToken()
			if err != nil {
				fmt.Println("Please login first")
				return nil
			}

			req, _ := http.NewRequest("DELETE", config.APIURL()+"/notifications/"+args[0]+"/schedule", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				raw, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("API error: %s", string(raw))
			}
			fmt.Printf("Notification %s has been canceled.\n", args[0])
			return nil
		},
	}
}
