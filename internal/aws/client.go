// Package aws holds the AWS collaborators around the classification core:
// an SDK client bundle for direct resource listing and the CLI executor that
// runs validated commands.
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Client bundles the service clients for the resource types the intent
// taxonomy knows about.
type Client struct {
	cfg     aws.Config
	profile string
	debug   bool
	sts     *sts.Client
	s3      *s3.Client
	ec2     *ec2.Client
	lambda  *lambda.Client
	iam     *iam.Client
	rds     *rds.Client
}

// NewClient builds a client from the default credential chain.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newClientFromConfig(cfg, ""), nil
}

// awsCredentialsFromCLI is the process-format credential payload the AWS CLI
// emits for a profile.
type awsCredentialsFromCLI struct {
	Version         int    `json:"Version"`
	AccessKeyId     string `json:"AccessKeyId"`
	SecretAccessKey string `json:"SecretAccessKey"`
	SessionToken    string `json:"SessionToken"`
	Expiration      string `json:"Expiration"`
}

// getCredentialsFromCLI asks the AWS CLI for fresh credentials; this path
// handles SSO profiles the SDK's shared config loader chokes on.
func getCredentialsFromCLI(ctx context.Context, profile string) (*awsCredentialsFromCLI, error) {
	cmd := exec.CommandContext(ctx, "aws", "configure", "export-credentials", "--profile", profile, "--format", "process")
	cmd.Env = append(os.Environ(), fmt.Sprintf("AWS_PROFILE=%s", profile))

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials from AWS CLI: %w", err)
	}

	var creds awsCredentialsFromCLI
	if err := json.Unmarshal(output, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse AWS CLI credentials response: %w", err)
	}
	return &creds, nil
}

// NewClientWithProfile prefers AWS CLI export-credentials for the profile
// and falls back to the SDK's shared config loading.
func NewClientWithProfile(ctx context.Context, profile string, debug bool) (*Client, error) {
	if profile == "" || profile == "default" {
		client, err := NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client.debug = debug
		return client, nil
	}

	creds, err := getCredentialsFromCLI(ctx, profile)
	if err != nil {
		if debug {
			fmt.Printf("CLI credentials unavailable for %s (%v), falling back to shared config\n", profile, err)
		}
		cfg, cfgErr := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
		if cfgErr != nil {
			return nil, fmt.Errorf("unable to load SDK config for profile %s: %w", profile, cfgErr)
		}
		client := newClientFromConfig(cfg, profile)
		client.debug = debug
		return client, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			creds.AccessKeyId, creds.SecretAccessKey, creds.SessionToken)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config with CLI credentials: %w", err)
	}
	client := newClientFromConfig(cfg, profile)
	client.debug = debug
	return client, nil
}

func newClientFromConfig(cfg aws.Config, profile string) *Client {
	return &Client{
		cfg:     cfg,
		profile: profile,
		sts:     sts.NewFromConfig(cfg),
		s3:      s3.NewFromConfig(cfg),
		ec2:     ec2.NewFromConfig(cfg),
		lambda:  lambda.NewFromConfig(cfg),
		iam:     iam.NewFromConfig(cfg),
		rds:     rds.NewFromConfig(cfg),
	}
}

// Identity describes the caller the credentials resolve to.
type Identity struct {
	Account string `json:"account" yaml:"account"`
	Arn     string `json:"arn" yaml:"arn"`
	UserID  string `json:"user_id" yaml:"user_id"`
}

// WhoAmI resolves the current credentials via STS.
func (c *Client) WhoAmI(ctx context.Context) (Identity, error) {
	out, err := c.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	return Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}, nil
}

// Bucket summarizes an S3 bucket.
type Bucket struct {
	Name    string `json:"name" yaml:"name"`
	Created string `json:"created" yaml:"created"`
}

func (c *Client) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}
	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, Bucket{
			Name:    aws.ToString(b.Name),
			Created: formatTime(b.CreationDate),
		})
	}
	return buckets, nil
}

// Instance summarizes an EC2 instance.
type Instance struct {
	ID    string `json:"id" yaml:"id"`
	State string `json:"state" yaml:"state"`
	Type  string `json:"type" yaml:"type"`
	Zone  string `json:"zone" yaml:"zone"`
}

func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	var instances []Instance
	paginator := ec2.NewDescribeInstancesPaginator(c.ec2, &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				summary := Instance{
					ID:   aws.ToString(inst.InstanceId),
					Type: string(inst.InstanceType),
				}
				if inst.State != nil {
					summary.State = string(inst.State.Name)
				}
				if inst.Placement != nil {
					summary.Zone = aws.ToString(inst.Placement.AvailabilityZone)
				}
				instances = append(instances, summary)
			}
		}
	}
	return instances, nil
}

// Function summarizes a Lambda function.
type Function struct {
	Name         string `json:"name" yaml:"name"`
	Runtime      string `json:"runtime" yaml:"runtime"`
	LastModified string `json:"last_modified" yaml:"last_modified"`
}

func (c *Client) ListFunctions(ctx context.Context) ([]Function, error) {
	var functions []Function
	paginator := lambda.NewListFunctionsPaginator(c.lambda, &lambda.ListFunctionsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list functions: %w", err)
		}
		for _, fn := range page.Functions {
			functions = append(functions, Function{
				Name:         aws.ToString(fn.FunctionName),
				Runtime:      string(fn.Runtime),
				LastModified: aws.ToString(fn.LastModified),
			})
		}
	}
	return functions, nil
}

// User summarizes an IAM user.
type User struct {
	Name    string `json:"name" yaml:"name"`
	Created string `json:"created" yaml:"created"`
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	paginator := iam.NewListUsersPaginator(c.iam, &iam.ListUsersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, u := range page.Users {
			users = append(users, User{
				Name:    aws.ToString(u.UserName),
				Created: formatTime(u.CreateDate),
			})
		}
	}
	return users, nil
}

// Role summarizes an IAM role.
type Role struct {
	Name    string `json:"name" yaml:"name"`
	Created string `json:"created" yaml:"created"`
}

func (c *Client) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	paginator := iam.NewListRolesPaginator(c.iam, &iam.ListRolesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list roles: %w", err)
		}
		for _, role := range page.Roles {
			roles = append(roles, Role{
				Name:    aws.ToString(role.RoleName),
				Created: formatTime(role.CreateDate),
			})
		}
	}
	return roles, nil
}

// DBInstance summarizes an RDS database instance.
type DBInstance struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`
	Engine string `json:"engine" yaml:"engine"`
	Class  string `json:"class" yaml:"class"`
}

func (c *Client) ListDatabases(ctx context.Context) ([]DBInstance, error) {
	var databases []DBInstance
	paginator := rds.NewDescribeDBInstancesPaginator(c.rds, &rds.DescribeDBInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe db instances: %w", err)
		}
		for _, db := range page.DBInstances {
			databases = append(databases, DBInstance{
				ID:     aws.ToString(db.DBInstanceIdentifier),
				Status: aws.ToString(db.DBInstanceStatus),
				Engine: aws.ToString(db.Engine),
				Class:  aws.ToString(db.DBInstanceClass),
			})
		}
	}
	return databases, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
