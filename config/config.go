// Package config provides configuration management for the foodcourt storefront.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"sync"
)

// Config holds all configuration for the foodcourt storefront service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug        bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	DisablePayment bool  `yaml:"disable_payment" env:"DISABLE_PAYMENT" env-default:"false"`
	LogRecords     int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Listen         struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5200"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"REDIS_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
		Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
		DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
		CartTTL  int    `yaml:"cart_ttl_hours" env:"REDIS_CART_TTL_HOURS" env-default:"72"`
	} `yaml:"redis"`
	Gateway struct {
		MerchantId string `yaml:"merchant_id" env:"GATEWAY_MERCHANT_ID" env-default:""`
		SaltKey    string `yaml:"salt_key" env:"GATEWAY_SALT_KEY" env-default:""`
		SaltIndex  string `yaml:"salt_index" env:"GATEWAY_SALT_INDEX" env-default:"1"`
		RequestUrl string `yaml:"request_url" env:"GATEWAY_REQUEST_URL" env-default:"https://api.phonepe.com/apis/hermes"`
	} `yaml:"gateway"`
	Identity struct {
		Secret string `yaml:"secret" env:"IDENTITY_SECRET" env-default:""`
	} `yaml:"identity"`
	Checkout struct {
		// PublicOrigin is used to build redirect and callback URLs when the
		// service sits behind a proxy; when empty, the origin of the incoming
		// request is used instead.
		PublicOrigin string `yaml:"public_origin" env:"PUBLIC_ORIGIN" env-default:""`
		DeliveryFee  int    `yaml:"delivery_fee" env:"DELIVERY_FEE" env-default:"40"`
	} `yaml:"checkout"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Environment variables take precedence over YAML values. See Config struct
// for the list of supported environment variables.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
		}
	})
	return instance, err
}
