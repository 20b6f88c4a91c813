package cmd

import (
	"context"
	"fmt"

	"learnhub/backend/config"
	"learnhub/backend/payments"
	"learnhub/backend/store"
	"learnhub/backend/uploads"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return awsCfg, nil
}

// openStore connects the backend STORE_DRIVER selects.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	switch cfg.Store {
	case config.StoreDynamoDB:
		awsCfg, err := loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
			if cfg.DynamoDBEndpoint != "" {
				o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
			}
		})
		return store.NewDynamoStore(client, store.Tables{
			Courses:               cfg.CoursesTable,
			Transactions:          cfg.TransactionsTable,
			TransactionsUserIndex: cfg.TransactionsUserIndex,
			Progress:              cfg.UserCourseProgressTable,
		}), nil
	case config.StoreSQL:
		db, err := store.OpenDB(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return store.NewSQLStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store)
	}
}

func newUploader(ctx context.Context, cfg *config.Config, log *zap.Logger) (uploads.VideoUploader, error) {
	if cfg.S3BucketName == "" {
		log.Warn("S3_BUCKET_NAME is not set, video uploads are disabled")
		return nil, nil
	}
	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	presigner := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	return uploads.NewS3VideoUploader(presigner, cfg.S3BucketName, cfg.CloudFrontDomain, cfg.UploadURLExpiry)
}

func newPaymentProvider(cfg *config.Config, log *zap.Logger) (payments.Provider, error) {
	if cfg.StripeSecretKey == "" {
		if cfg.RequirePaymentVerification {
			return nil, fmt.Errorf("STRIPE_SECRET_KEY is required while REQUIRE_PAYMENT_VERIFICATION is on")
		}
		log.Warn("STRIPE_SECRET_KEY is not set, payments are disabled")
		return nil, nil
	}
	return payments.NewStripeProvider(cfg.StripeSecretKey, log)
}
