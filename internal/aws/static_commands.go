package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var titler = cases.Title(language.English)

// CreateAWSCommands creates the aws command tree for static, no-AI queries.
func CreateAWSCommands() *cobra.Command {
	awsCmd := &cobra.Command{
		Use:   "aws",
		Short: "Query AWS resources directly",
		Long:  "Query AWS resources through the SDK without natural-language interpretation. Useful for getting raw data.",
	}

	listCmd := &cobra.Command{
		Use:   "list [resource]",
		Short: "List AWS resources",
		Long: `List AWS resources of a specific type.

Supported resources:
  buckets, s3            - S3 buckets
  instances, ec2         - EC2 instances
  functions, lambda      - Lambda functions
  users                  - IAM users
  roles                  - IAM roles
  databases, rds         - RDS database instances`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource := args[0]
			profile, _ := cmd.Flags().GetString("profile")
			format, _ := cmd.Flags().GetString("output")
			if profile == "" {
				profile = viper.GetString("aws.default_profile")
			}

			ctx := context.Background()
			client, err := NewClientWithProfile(ctx, profile, viper.GetBool("debug"))
			if err != nil {
				return err
			}
			return listResource(ctx, client, resource, format)
		},
	}
	listCmd.Flags().String("profile", "", "AWS profile to use")
	listCmd.Flags().StringP("output", "o", "text", "Output format (text, json, or yaml)")

	awsCmd.AddCommand(listCmd)
	return awsCmd
}

func listResource(ctx context.Context, client *Client, resource, format string) error {
	switch resource {
	case "buckets", "s3":
		items, err := client.ListBuckets(ctx)
		if err != nil {
			return err
		}
		return printListing("buckets", items, format, func(b Bucket) string {
			return fmt.Sprintf("%s\t%s", b.Name, b.Created)
		})
	case "instances", "ec2":
		items, err := client.ListInstances(ctx)
		if err != nil {
			return err
		}
		return printListing("instances", items, format, func(i Instance) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s", i.ID, i.State, i.Type, i.Zone)
		})
	case "functions", "lambda", "lambdas":
		items, err := client.ListFunctions(ctx)
		if err != nil {
			return err
		}
		return printListing("functions", items, format, func(f Function) string {
			return fmt.Sprintf("%s\t%s\t%s", f.Name, f.Runtime, f.LastModified)
		})
	case "users":
		items, err := client.ListUsers(ctx)
		if err != nil {
			return err
		}
		return printListing("users", items, format, func(u User) string {
			return fmt.Sprintf("%s\t%s", u.Name, u.Created)
		})
	case "roles":
		items, err := client.ListRoles(ctx)
		if err != nil {
			return err
		}
		return printListing("roles", items, format, func(r Role) string {
			return fmt.Sprintf("%s\t%s", r.Name, r.Created)
		})
	case "databases", "rds":
		items, err := client.ListDatabases(ctx)
		if err != nil {
			return err
		}
		return printListing("databases", items, format, func(d DBInstance) string {
			return fmt.Sprintf("%s\t%s\t%s\t%s", d.ID, d.Status, d.Engine, d.Class)
		})
	default:
		return fmt.Errorf("unknown resource type %q (try: buckets, instances, functions, users, roles, databases)", resource)
	}
}

func printListing[T any](resource string, items []T, format string, line func(T) string) error {
	switch format {
	case "json":
		payload, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
	case "yaml":
		payload, err := yaml.Marshal(items)
		if err != nil {
			return err
		}
		fmt.Print(string(payload))
	default:
		if len(items) == 0 {
			fmt.Printf("No %s found.\n", resource)
			return nil
		}
		fmt.Printf("%s (%d):\n", titler.String(resource), len(items))
		for _, item := range items {
			fmt.Println("  " + line(item))
		}
	}
	return nil
}
