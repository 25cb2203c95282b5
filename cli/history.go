package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"erpchat/db"
	"erpchat/models"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the chat history",
	}
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var chatID string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print history entries as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if cfg.Chatbot.HistoryFileID == "" {
				return errors.New("CHATBOT_HISTORY_FILE_ID is not set")
			}
			database, err := db.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			history := database.History(cfg.Chatbot.HistoryFileID)
			var entries []models.ChatMessage
			if chatID != "" {
				entries, err = history.ForChat(cmd.Context(), chatID)
			} else {
				entries, err = history.Load(cmd.Context())
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		},
	}
	cmd.Flags().StringVar(&chatID, "chat", "", "only show entries of this conversation")
	return cmd
}
