package config

import (
	"errors"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDynamoDB = "dynamodb"
	StoreSQL      = "sql"

	EnvDevelopment = "development"

	// DefaultJWTSecret is only acceptable for local development.
	DefaultJWTSecret = "secret"
)

var ErrDefaultJWTSecret = errors.New("JWT_SECRET must be changed from its default outside development, or JWT_PUBLIC_KEY set")

type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	Env        string `env:"APP_ENV" envDefault:"development"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`

	JWTSecret    string `env:"JWT_SECRET" envDefault:"secret"`
	JWTPublicKey string `env:"JWT_PUBLIC_KEY"`

	// Store selects the persistence backend: dynamodb or sql.
	Store string `env:"STORE_DRIVER" envDefault:"dynamodb"`

	AWSRegion               string `env:"AWS_REGION" envDefault:"us-east-1"`
	DynamoDBEndpoint        string `env:"DYNAMODB_ENDPOINT"`
	CoursesTable            string `env:"COURSES_TABLE" envDefault:"Courses"`
	TransactionsTable       string `env:"TRANSACTIONS_TABLE" envDefault:"Transactions"`
	TransactionsUserIndex   string `env:"TRANSACTIONS_USER_INDEX" envDefault:"userId-index"`
	UserCourseProgressTable string `env:"USER_COURSE_PROGRESS_TABLE" envDefault:"UserCourseProgress"`

	// SQL backend: postgres DSN, or a sqlite file when DBDriver is sqlite.
	DBDriver string `env:"DB_DRIVER" envDefault:"postgres"`
	DBDSN    string `env:"DB_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=learnhub port=5432 sslmode=disable"`

	S3BucketName     string        `env:"S3_BUCKET_NAME"`
	CloudFrontDomain string        `env:"CLOUDFRONT_DOMAIN"`
	UploadURLExpiry  time.Duration `env:"UPLOAD_URL_EXPIRY" envDefault:"60s"`

	StripeSecretKey            string `env:"STRIPE_SECRET_KEY"`
	RequirePaymentVerification bool   `env:"REQUIRE_PAYMENT_VERIFICATION" envDefault:"true"`
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateAuth refuses to verify tokens with the well-known default secret
// outside development.
func (c *Config) ValidateAuth() error {
	if c.Env == EnvDevelopment || c.JWTPublicKey != "" {
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		return ErrDefaultJWTSecret
	}
	return nil
}
