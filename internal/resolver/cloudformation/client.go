// Package cloudformation adapts the CloudFormation DescribeStacks API to the
// resolver's outputs port.
package cloudformation

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscfn "github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// DescribeStacksAPI is the slice of the CloudFormation client the adapter needs.
type DescribeStacksAPI interface {
	DescribeStacks(ctx context.Context, params *awscfn.DescribeStacksInput, optFns ...func(*awscfn.Options)) (*awscfn.DescribeStacksOutput, error)
}

// Client reads stack outputs through CloudFormation.
type Client struct {
	api DescribeStacksAPI
}

// New builds a Client using the default AWS credential chain.
func New(ctx context.Context) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewFromAPI(awscfn.NewFromConfig(awsCfg)), nil
}

// NewFromAPI builds a Client around an existing API implementation.
func NewFromAPI(api DescribeStacksAPI) *Client {
	return &Client{api: api}
}

// StackOutput returns the value of the named stack output, or an empty
// string when the stack carries no output under that key.
func (c *Client) StackOutput(ctx context.Context, region, stackName, key string) (string, error) {
	out, err := c.api.DescribeStacks(ctx,
		&awscfn.DescribeStacksInput{StackName: aws.String(stackName)},
		func(o *awscfn.Options) {
			if region != "" {
				o.Region = region
			}
		})
	if err != nil {
		return "", err
	}

	if len(out.Stacks) == 0 {
		return "", fmt.Errorf("stack %q not found", stackName)
	}

	for _, output := range out.Stacks[0].Outputs {
		if aws.ToString(output.OutputKey) == key {
			return aws.ToString(output.OutputValue), nil
		}
	}

	return "", nil
}
