package cmds

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/atelier-studio/atelier/pkg/download"
	"github.com/atelier-studio/atelier/pkg/ui"
)

func NewStudioCmd() *cobra.Command {
	var downloadDir string

	cmd := &cobra.Command{
		Use:   "studio",
		Short: "Open the interactive design studio in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if downloadDir != "" {
				cfg.DownloadDir = downloadDir
			}
			// stdout belongs to the TUI, logs go to the file
			if err := initLogging(cfg, true); err != nil {
				return err
			}

			sess, err := buildSession(cfg)
			if err != nil {
				return err
			}

			dl := download.NewDownloader(cfg.DownloadDir, nil)
			app := ui.NewApp(sess, dl)
			p := tea.NewProgram(app, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return errors.Wrap(err, "run studio")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&downloadDir, "download-dir", "", "directory images are downloaded to (default ~/Downloads)")
	return cmd
}
