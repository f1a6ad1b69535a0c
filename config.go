package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"i4.energy/across/sensorfleet/fleet"
	"i4.energy/across/sensorfleet/modem"
)

// ErrInvalidConfig is returned by the validation methods of Config.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration
type Config struct {
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// MQTTServer is the broker address the modem connects to
	MQTTServer string
	// MQTTPort is the broker port (e.g. 1883)
	MQTTPort int
	// WiFiSSID and WiFiPassword identify the access point the modem joins
	WiFiSSID     string
	WiFiPassword string
	// WiFiPasswordSet tells an open network (empty password given) from a
	// password that was never configured.
	WiFiPasswordSet bool
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// ATTimeout bounds the wait for each response line from the modem
	ATTimeout time.Duration
	// CycleInterval is the pause between two passes over the sensors
	CycleInterval time.Duration
	// MetricsAddress is where /metrics and /healthz are served. Empty disables the server.
	MetricsAddress string
	// SNTPTimezone and SNTPServers configure time sync before each report.
	// Time sync is off unless SNTPEnabled is set.
	SNTPEnabled  bool
	SNTPTimezone int
	SNTPServers  []string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.LogLevel = "info"
		c.ATTimeout = modem.DefaultATTimeout
		c.CycleInterval = fleet.DefaultInterval
		return nil
	}
}

// fileConfig mirrors config.yml. Pointers tell absent keys from zero values.
type fileConfig struct {
	Device struct {
		Config struct {
			Identifier *string `yaml:"identifier"`
			BaudRate   *int    `yaml:"baud-rate"`
		} `yaml:"config"`
	} `yaml:"device"`
	MQTT struct {
		Config struct {
			Server *string `yaml:"server"`
			Port   *int    `yaml:"port"`
		} `yaml:"config"`
	} `yaml:"mqtt"`
	WiFi struct {
		Config struct {
			SSID     *string `yaml:"ssid"`
			Password *string `yaml:"password"`
		} `yaml:"config"`
	} `yaml:"wifi"`
	SNTP *struct {
		Config struct {
			Timezone int      `yaml:"timezone"`
			Servers  []string `yaml:"servers"`
		} `yaml:"config"`
	} `yaml:"sntp"`
}

// WithFile loads configuration from a YAML file. A missing file is only
// an error when required is set.
func WithFile(path string, required bool) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !required {
				return nil
			}
			return fmt.Errorf("read config file: %w", err)
		}

		var f fileConfig
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse config file %s: %w", path, err)
		}

		setIf(&c.SerialPort, f.Device.Config.Identifier)
		setIf(&c.BaudRate, f.Device.Config.BaudRate)
		setIf(&c.MQTTServer, f.MQTT.Config.Server)
		setIf(&c.MQTTPort, f.MQTT.Config.Port)
		setIf(&c.WiFiSSID, f.WiFi.Config.SSID)
		if f.WiFi.Config.Password != nil {
			c.WiFiPassword = *f.WiFi.Config.Password
			c.WiFiPasswordSet = true
		}
		if f.SNTP != nil {
			c.SNTPEnabled = true
			c.SNTPTimezone = f.SNTP.Config.Timezone
			c.SNTPServers = f.SNTP.Config.Servers
		}

		return nil
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// WithDotEnv loads a .env file into the process environment without
// overriding variables that are already set. A missing file is ignored.
func WithDotEnv(path string) ConfigOption {
	return func(c *Config) error {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if err := envInt("BAUD_RATE", &c.BaudRate); err != nil {
			return err
		}

		if server := os.Getenv("MQTT_SERVER"); server != "" {
			c.MQTTServer = server
		}

		if err := envInt("MQTT_PORT", &c.MQTTPort); err != nil {
			return err
		}

		if ssid := os.Getenv("WIFI_SSID"); ssid != "" {
			c.WiFiSSID = ssid
		}

		if password, ok := os.LookupEnv("WIFI_PASSWORD"); ok {
			c.WiFiPassword = password
			c.WiFiPasswordSet = true
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if err := envDuration("AT_TIMEOUT", &c.ATTimeout); err != nil {
			return err
		}

		if err := envDuration("CYCLE_INTERVAL", &c.CycleInterval); err != nil {
			return err
		}

		if addr, ok := os.LookupEnv("METRICS_ADDRESS"); ok {
			c.MetricsAddress = addr
		}

		if tz := os.Getenv("SNTP_TIMEZONE"); tz != "" {
			if err := envInt("SNTP_TIMEZONE", &c.SNTPTimezone); err != nil {
				return err
			}
			c.SNTPEnabled = true
		}

		if servers := os.Getenv("SNTP_SERVERS"); servers != "" {
			c.SNTPServers = strings.Split(servers, ",")
			c.SNTPEnabled = true
		}

		return nil
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

// WithFlags loads configuration from command-line flags. Only flags that
// were set explicitly are applied.
func WithFlags(fSet *pflag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var errs []error
		fSet.Visit(func(f *pflag.Flag) {
			var err error
			switch f.Name {
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				c.BaudRate, err = fSet.GetInt(f.Name)
			case "mqtt-server":
				c.MQTTServer = f.Value.String()
			case "mqtt-port":
				c.MQTTPort, err = fSet.GetInt(f.Name)
			case "wifi-ssid":
				c.WiFiSSID = f.Value.String()
			case "wifi-password":
				c.WiFiPassword = f.Value.String()
				c.WiFiPasswordSet = true
			case "log-level":
				c.LogLevel = f.Value.String()
			case "at-timeout":
				c.ATTimeout, err = fSet.GetDuration(f.Name)
			case "interval":
				c.CycleInterval, err = fSet.GetDuration(f.Name)
			case "metrics-address":
				c.MetricsAddress = f.Value.String()
			case "sntp-timezone":
				c.SNTPTimezone, err = fSet.GetInt(f.Name)
				c.SNTPEnabled = true
			case "sntp-server":
				c.SNTPServers, err = fSet.GetStringSlice(f.Name)
				c.SNTPEnabled = true
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
			}
		})
		return errors.Join(errs...)
	}
}

// Validate checks everything the fleet needs.
func (c *Config) Validate() error {
	return errors.Join(c.ValidateDevice(), c.ValidateBroker(), c.validateWiFi(), c.validateTiming())
}

// ValidateDevice checks the serial connection settings.
func (c *Config) ValidateDevice() error {
	var errs []error
	if c.SerialPort == "" {
		errs = append(errs, missing("device.config.identifier"))
	}
	if c.BaudRate <= 0 {
		errs = append(errs, missing("device.config.baud-rate"))
	}
	return errors.Join(errs...)
}

// ValidateBroker checks the MQTT broker settings.
func (c *Config) ValidateBroker() error {
	var errs []error
	if c.MQTTServer == "" {
		errs = append(errs, missing("mqtt.config.server"))
	}
	switch {
	case c.MQTTPort == 0:
		errs = append(errs, missing("mqtt.config.port"))
	case c.MQTTPort < 1 || c.MQTTPort > 65535:
		errs = append(errs, fmt.Errorf("%w: mqtt.config.port %d is out of range", ErrInvalidConfig, c.MQTTPort))
	}
	return errors.Join(errs...)
}

func (c *Config) validateWiFi() error {
	var errs []error
	if c.WiFiSSID == "" {
		errs = append(errs, missing("wifi.config.ssid"))
	}
	if !c.WiFiPasswordSet {
		errs = append(errs, missing("wifi.config.password"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateTiming() error {
	var errs []error
	if c.ATTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: at-timeout must be positive", ErrInvalidConfig))
	}
	if c.CycleInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: interval must be positive", ErrInvalidConfig))
	}
	if len(c.SNTPServers) > modem.MaxSNTPServers {
		errs = append(errs, fmt.Errorf("%w: at most %d SNTP servers are allowed", ErrInvalidConfig, modem.MaxSNTPServers))
	}
	return errors.Join(errs...)
}

func missing(key string) error {
	return fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
}

// Settings returns the environment the fleet controller works in.
func (c *Config) Settings() fleet.Settings {
	s := fleet.Settings{
		WiFi:   fleet.WiFiCredentials{SSID: c.WiFiSSID, Password: c.WiFiPassword},
		Broker: fleet.Endpoint{Server: c.MQTTServer, Port: c.MQTTPort},
	}
	if c.SNTPEnabled {
		s.TimeSync = &fleet.TimeSync{Timezone: c.SNTPTimezone, Servers: c.SNTPServers}
	}
	return s
}
