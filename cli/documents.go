package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"erpchat/db"
)

func newDocumentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage stored documents",
	}
	cmd.AddCommand(newDocumentsImportCmd())
	return cmd
}

func newDocumentsImportCmd() *cobra.Command {
	var folder string
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Store every file in a directory as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			database, err := db.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			infos, err := database.ImportDir(cmd.Context(), args[0], folder)
			if err != nil {
				return err
			}
			for _, info := range infos {
				logger.WithFields(logrus.Fields{"id": info.ID, "name": info.Name}).Debug("document imported")
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.ID, info.Name)
			}
			logger.WithField("count", len(infos)).Info("documents imported")
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "folder to file the documents under")
	return cmd
}
