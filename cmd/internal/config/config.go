package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// EnvVarsPrefix is the SSM path holding the production environment.
const EnvVarsPrefix = "/omigec/prod/"

type Config struct {
	Port         string
	DatabasePath string
	BodyLimit    string

	AWSRegion     string
	CognitoRegion string
	UserPoolID    string
	AppClientID   string
	S3Region      string
	S3Bucket      string

	// RedisAddr is optional, the directory is served uncached without it.
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	DirectoryCacheTTL time.Duration

	SweepInterval time.Duration
	SnowflakeNode int64
}

// LoadEnv exports the environment: from SSM Parameter Store when GO_ENV is
// production, from .env otherwise. A missing .env is fine, the variables
// may already be set.
func LoadEnv(ctx context.Context) error {
	if os.Getenv("GO_ENV") == "production" {
		region := getenv("AWS_REGION", "us-east-2")
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return fmt.Errorf("unable to load SDK config: %w", err)
		}
		return LoadSSM(ctx, ssm.NewFromConfig(cfg), EnvVarsPrefix)
	}

	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("no .env file found, using the process environment")
		return nil
	}
	return err
}

// LoadSSM exports every parameter under 'prefix', following pagination.
// The variable name is the parameter name without the prefix.
func LoadSSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	count := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range page.Parameters {
			name := aws.ToString(param.Name)
			if len(name) <= len(prefix) {
				continue
			}

			if err := os.Setenv(name[len(prefix):], aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable: %w", err)
			}
			count++
		}
	}
	log.Debugf("loaded %d prod environment variables", count)
	return nil
}

// Load reads the exported environment. Only the AWS identifiers are
// mandatory.
func Load() (*Config, error) {
	region := getenv("AWS_REGION", "us-east-2")
	cfg := &Config{
		Port:          getenv("PORT", "7070"),
		DatabasePath:  getenv("DATABASE_PATH", "omigec.db"),
		BodyLimit:     getenv("BODY_LIMIT", "30M"),
		AWSRegion:     region,
		CognitoRegion: getenv("AWS_COGNITO_REGION", region),
		UserPoolID:    os.Getenv("COGNITO_USER_POOL_ID"),
		AppClientID:   os.Getenv("COGNITO_APP_CLIENT_ID"),
		S3Region:      getenv("AWS_S3_REGION", region),
		S3Bucket:      os.Getenv("S3_BUCKET_NAME"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	var errs []error
	require := func(name, value string) {
		if value == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	require("COGNITO_USER_POOL_ID", cfg.UserPoolID)
	require("COGNITO_APP_CLIENT_ID", cfg.AppClientID)
	require("S3_BUCKET_NAME", cfg.S3Bucket)

	var err error
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}

	if cfg.SnowflakeNode, err = int64Env("SNOWFLAKE_NODE", 1); err != nil {
		errs = append(errs, err)
	}

	if cfg.DirectoryCacheTTL, err = durationEnv("DIRECTORY_CACHE_TTL", 5*time.Minute); err != nil {
		errs = append(errs, err)
	}

	if cfg.SweepInterval, err = durationEnv("SWEEP_INTERVAL", time.Hour); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
