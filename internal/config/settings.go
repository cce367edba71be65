package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DisplaySettings configures document presentation: which currency amounts
// are rendered in and how dates are shown. The calculation engine never
// reads these; only formatting at the edges does.
type DisplaySettings struct {
	Currency   string `mapstructure:"currency"`
	Locale     string `mapstructure:"locale"`
	DateFormat string `mapstructure:"dateFormat"`
}

func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Currency:   "INR",
		Locale:     "en-IN",
		DateFormat: "DD/MM/YYYY",
	}
}

type SettingsHolder struct {
	current atomic.Value // holds DisplaySettings
}

func NewSettingsHolder() (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("settings")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/saralbooks/config")
	v.AddConfigPath("/etc/saralbooks")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SARALBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultDisplaySettings()
		v.SetDefault("display.currency", defaults.Currency)
		v.SetDefault("display.locale", defaults.Locale)
		v.SetDefault("display.dateFormat", defaults.DateFormat)
	}

	var settings DisplaySettings
	if err := v.UnmarshalKey("display", &settings); err != nil {
		return nil, err
	}
	settings = withSettingsDefaults(settings)
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(settings)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated DisplaySettings
		if err := v.UnmarshalKey("display", &updated); err != nil {
			log.Printf("[settings] reload failed: %v", err)
			return
		}
		updated = withSettingsDefaults(updated)
		if err := validateSettings(updated); err != nil {
			log.Printf("[settings] invalid settings ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[settings] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SettingsHolder) Get() DisplaySettings {
	return h.current.Load().(DisplaySettings)
}

func withSettingsDefaults(s DisplaySettings) DisplaySettings {
	defaults := DefaultDisplaySettings()
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = defaults.Currency
	}
	if strings.TrimSpace(s.Locale) == "" {
		s.Locale = defaults.Locale
	}
	if strings.TrimSpace(s.DateFormat) == "" {
		s.DateFormat = defaults.DateFormat
	}
	return s
}

func validateSettings(s DisplaySettings) error {
	switch s.DateFormat {
	case "DD/MM/YYYY", "MM/DD/YYYY", "YYYY-MM-DD":
	default:
		return errors.New("display.dateFormat must be DD/MM/YYYY, MM/DD/YYYY or YYYY-MM-DD")
	}
	if len(s.Currency) != 3 {
		return errors.New("display.currency must be a 3-letter ISO code")
	}
	return nil
}
