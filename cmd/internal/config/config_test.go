package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("COGNITO_USER_POOL_ID", "us-east-2_pool")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client")
	t.Setenv("S3_BUCKET_NAME", "omigec-docs")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"PORT", "DATABASE_PATH", "AWS_REGION", "AWS_COGNITO_REGION", "AWS_S3_REGION",
		"REDIS_ADDR", "REDIS_DB", "SNOWFLAKE_NODE", "DIRECTORY_CACHE_TTL", "SWEEP_INTERVAL", "BODY_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "omigec.db", cfg.DatabasePath)
	assert.Equal(t, "30M", cfg.BodyLimit)
	assert.Equal(t, "us-east-2", cfg.CognitoRegion)
	assert.Equal(t, "us-east-2", cfg.S3Region)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, int64(1), cfg.SnowflakeNode)
	assert.Equal(t, 5*time.Minute, cfg.DirectoryCacheTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("AWS_REGION", "eu-west-3")
	t.Setenv("AWS_S3_REGION", "eu-west-1")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("SNOWFLAKE_NODE", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "eu-west-3", cfg.CognitoRegion)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.Equal(t, int64(7), cfg.SnowflakeNode)
}

func TestLoad_ReportsEveryProblem(t *testing.T) {
	t.Setenv("COGNITO_USER_POOL_ID", "")
	t.Setenv("COGNITO_APP_CLIENT_ID", "client")
	t.Setenv("S3_BUCKET_NAME", "")
	t.Setenv("SWEEP_INTERVAL", "-1s")
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"COGNITO_USER_POOL_ID", "S3_BUCKET_NAME", "SWEEP_INTERVAL", "REDIS_DB"} {
		assert.Contains(t, err.Error(), want)
	}
}

type fakeSSM struct {
	pages []*ssm.GetParametersByPathOutput
	calls int
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestLoadSSM_FollowsPages(t *testing.T) {
	t.Setenv("OMIGEC_TEST_A", "")
	t.Setenv("OMIGEC_TEST_B", "")

	client := &fakeSSM{pages: []*ssm.GetParametersByPathOutput{
		{
			Parameters: []types.Parameter{{Name: aws.String(EnvVarsPrefix + "OMIGEC_TEST_A"), Value: aws.String("a")}},
			NextToken:  aws.String("next"),
		},
		{
			Parameters: []types.Parameter{{Name: aws.String(EnvVarsPrefix + "OMIGEC_TEST_B"), Value: aws.String("b")}},
		},
	}}

	require.NoError(t, LoadSSM(t.Context(), client, EnvVarsPrefix))
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "a", os.Getenv("OMIGEC_TEST_A"))
	assert.Equal(t, "b", os.Getenv("OMIGEC_TEST_B"))
}
