package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort     string
	MetricsPort     string
	AllowedOrigin   string
	CheckoutRate    int
	CheckoutBurst   int
	IPNLogPath      string
	RedisURL        string
	DedupTTL        time.Duration
	DigistoreConfig DigistoreConfig
	ShopifyConfig   ShopifyConfig
	KafkaConfig     KafkaConfig
	MailConfig      MailConfig
	TracingConfig   TracingConfig
}

type DigistoreConfig struct {
	APIKey                string
	ProductID             string
	IPNSecret             string
	BaseURL               string
	Language              string
	Operator              string
	Currency              string
	ThankYouURL           string
	OtherAmounts          string
	FirstBillingInterval  string
	OtherBillingIntervals string
	Timeout               time.Duration
}

type ShopifyConfig struct {
	ShopName    string
	AccessToken string
	APIVersion  string
	BaseURL     string
	Timeout     time.Duration
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	To           string
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort:   getEnv("SERVICE_PORT", "8080"),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		CheckoutRate:  getEnvInt("CHECKOUT_RATE_PER_SECOND", 5),
		CheckoutBurst: getEnvInt("CHECKOUT_RATE_BURST", 10),
		IPNLogPath:    getEnv("IPN_LOG_PATH", "digistore_ipn_log.txt"),
		RedisURL:      os.Getenv("REDIS_URL"),
		DedupTTL:      time.Duration(getEnvInt("DEDUP_TTL_HOURS", 720)) * time.Hour,
		DigistoreConfig: DigistoreConfig{
			APIKey:                os.Getenv("DIGISTORE_API_KEY"),
			ProductID:             os.Getenv("DIGISTORE_PRODUCT_ID"),
			IPNSecret:             os.Getenv("DIGISTORE_IPN_SECRET"),
			BaseURL:               strings.TrimRight(getEnv("DIGISTORE_BASE_URL", "https://www.digistore24.com"), "/"),
			Language:              os.Getenv("DIGISTORE_LANGUAGE"),
			Operator:              os.Getenv("DIGISTORE_OPERATOR"),
			Currency:              getEnv("DIGISTORE_CURRENCY", "EUR"),
			ThankYouURL:           os.Getenv("DIGISTORE_THANKYOU_URL"),
			OtherAmounts:          os.Getenv("DIGISTORE_OTHER_AMOUNTS"),
			FirstBillingInterval:  os.Getenv("DIGISTORE_FIRST_BILLING_INTERVAL"),
			OtherBillingIntervals: os.Getenv("DIGISTORE_OTHER_BILLING_INTERVALS"),
			Timeout:               30 * time.Second,
		},
		ShopifyConfig: ShopifyConfig{
			ShopName:    os.Getenv("SHOPIFY_SHOP_NAME"),
			AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:  getEnv("SHOPIFY_API_VERSION", "2023-07"),
			BaseURL:     strings.TrimRight(os.Getenv("SHOPIFY_BASE_URL"), "/"),
			Timeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "commerce-reconciliation"),
		},
		MailConfig: MailConfig{
			SMTPHost:     os.Getenv("SMTP_HOST"),
			SMTPPort:     getEnvInt("SMTP_PORT", 587),
			SMTPUsername: os.Getenv("SMTP_USERNAME"),
			SMTPPassword: os.Getenv("SMTP_PASSWORD"),
			From:         getEnv("ALERT_EMAIL_FROM", os.Getenv("SMTP_USERNAME")),
			To:           os.Getenv("ALERT_EMAIL_TO"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	if conf.ShopifyConfig.BaseURL == "" && conf.ShopifyConfig.ShopName != "" {
		conf.ShopifyConfig.BaseURL = fmt.Sprintf("https://%s.myshopify.com", conf.ShopifyConfig.ShopName)
	}

	return &conf
}

// Validate reports every missing setting the handlers cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.DigistoreConfig.APIKey == "" {
		missing = append(missing, "DIGISTORE_API_KEY")
	}
	if c.DigistoreConfig.ProductID == "" {
		missing = append(missing, "DIGISTORE_PRODUCT_ID")
	}
	if c.DigistoreConfig.IPNSecret == "" {
		missing = append(missing, "DIGISTORE_IPN_SECRET")
	}
	if c.ShopifyConfig.AccessToken == "" {
		missing = append(missing, "SHOPIFY_ACCESS_TOKEN")
	}
	if c.ShopifyConfig.BaseURL == "" {
		missing = append(missing, "SHOPIFY_SHOP_NAME or SHOPIFY_BASE_URL")
	}
	if c.AllowedOrigin == "" {
		missing = append(missing, "ALLOWED_ORIGIN")
	}

	if len(missing) > 0 {
		return errors.New("missing configuration: " + strings.Join(missing, ", "))
	}

	return nil
}

func (c *Config) KafkaEnabled() bool {
	return c.KafkaConfig.BrokerAddress != ""
}

func (c *Config) MailEnabled() bool {
	return c.MailConfig.SMTPHost != "" && c.MailConfig.To != ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
