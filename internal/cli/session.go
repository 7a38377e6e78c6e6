package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionStatusCmd())
	cmd.AddCommand(newSessionHostCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionQuickMatchCmd())
	cmd.AddCommand(newSessionLeaveCmd())

	return cmd
}

func newSessionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get("/api/v1/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionHostCmd() *cobra.Command {
	var name, password string
	var private bool

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Create a room and start hosting",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if name != "" {
				req["name"] = name
			}
			if private {
				req["private"] = true
			}
			if password != "" {
				req["password"] = password
			}

			var result Accepted

			if err := client.Post("/api/v1/session/host", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Room creation requested; watch the event stream for the join code")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name")
	cmd.Flags().BoolVar(&private, "private", false, "Hide the room from listings")
	cmd.Flags().StringVar(&password, "password", "", "Room password")

	return cmd
}

func newSessionJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room by join code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"join_code": args[0]}
			var result Accepted

			if err := client.Post("/api/v1/session/join", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Join requested; watch the event stream for the outcome")
			return nil
		},
	}
}

func newSessionQuickMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quickmatch",
		Short: "Start a quick match session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Accepted

			if err := client.Post("/api/v1/session/quickmatch", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Quick match requested; watch the event stream for the outcome")
			return nil
		},
	}
}

func newSessionLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Accepted

			if err := client.Delete("/api/v1/session", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Session shutdown requested")
			return nil
		},
	}
}
