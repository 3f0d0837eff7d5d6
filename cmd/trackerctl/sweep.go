package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"time-tracking-bot/internal/task/delivery/job"
	"time-tracking-bot/pkg/telegram"
)

func sweepCmd(flags *rootFlags) *cobra.Command {
	var notify bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one auto-close sweep now",
		Long: `Close every active task that has run past its owner's workday end.
With --notify the owners are messaged through the bot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			var notifier job.Notifier
			if notify {
				if a.Config.Telegram.BotToken == "" {
					return fmt.Errorf("--notify needs telegram.bot_token")
				}
				notifier = a.TelegramHandler(telegram.NewBot(a.Config.Telegram.BotToken), nil)
			}

			closed := a.AutoCloseJob(notifier).RunOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Closed %d tasks\n", closed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "message owners of closed tasks")

	return cmd
}
