package cmd

import (
	"context"
	"fmt"

	"github.com/sevaagent/seva/internal/aws"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show which AWS identity the current credentials resolve to",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, _ := cmd.Flags().GetString("profile")
		if profile == "" {
			profile = viper.GetString("aws.default_profile")
		}

		ctx := context.Background()
		client, err := aws.NewClientWithProfile(ctx, profile, viper.GetBool("debug"))
		if err != nil {
			return err
		}

		identity, err := client.WhoAmI(ctx)
		if err != nil {
			return err
		}

		fmt.Println("Account: " + identity.Account)
		fmt.Println("Arn:     " + identity.Arn)
		fmt.Println("UserId:  " + identity.UserID)
		return nil
	},
}

func init() {
	whoamiCmd.Flags().String("profile", "", "AWS profile to use")
	rootCmd.AddCommand(whoamiCmd)
}
