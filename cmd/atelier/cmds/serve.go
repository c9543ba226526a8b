package cmds

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/atelier-studio/atelier/pkg/webui"
)

func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the design studio as a web app",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if err := initLogging(cfg, false); err != nil {
				return err
			}

			sess, err := buildSession(cfg)
			if err != nil {
				return err
			}

			log.Info().Str("addr", cfg.Addr).Msg("starting web studio")
			srv := webui.NewServer(cfg.Addr, sess)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default :8080)")
	return cmd
}
