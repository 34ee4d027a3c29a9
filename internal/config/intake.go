package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// IntakePolicy bounds what the public registration form accepts.
type IntakePolicy struct {
	PhonePrefix    string `mapstructure:"phonePrefix"`
	PhoneDigits    int    `mapstructure:"phoneDigits"`
	MaxName        int    `mapstructure:"maxName"`
	MaxSchool      int    `mapstructure:"maxSchool"`
	MaxEmail       int    `mapstructure:"maxEmail"`
	MaxInformation int    `mapstructure:"maxInformation"`
	SlugMaxLength  int    `mapstructure:"slugMaxLength"`
}

func DefaultIntakePolicy() IntakePolicy {
	return IntakePolicy{
		PhonePrefix:    "01",
		PhoneDigits:    11,
		MaxName:        120,
		MaxSchool:      120,
		MaxEmail:       254,
		MaxInformation: 4000,
		SlugMaxLength:  60,
	}
}

type IntakePolicyHolder struct {
	current atomic.Value // holds IntakePolicy
}

// NewStaticIntakePolicyHolder returns a holder that never reloads.
func NewStaticIntakePolicyHolder(policy IntakePolicy) *IntakePolicyHolder {
	holder := &IntakePolicyHolder{}
	holder.current.Store(policy)
	return holder
}

func NewIntakePolicyHolder(log *zap.Logger) (*IntakePolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("intake")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/clubhouse")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CLUBHOUSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultIntakePolicy()
	v.SetDefault("intake.phonePrefix", defaults.PhonePrefix)
	v.SetDefault("intake.phoneDigits", defaults.PhoneDigits)
	v.SetDefault("intake.maxName", defaults.MaxName)
	v.SetDefault("intake.maxSchool", defaults.MaxSchool)
	v.SetDefault("intake.maxEmail", defaults.MaxEmail)
	v.SetDefault("intake.maxInformation", defaults.MaxInformation)
	v.SetDefault("intake.slugMaxLength", defaults.SlugMaxLength)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var policy IntakePolicy
	if err := v.UnmarshalKey("intake", &policy); err != nil {
		return nil, err
	}
	if err := validateIntakePolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticIntakePolicyHolder(policy)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated IntakePolicy
		if err := v.UnmarshalKey("intake", &updated); err != nil {
			log.Warn("intake policy reload failed", zap.Error(err))
			return
		}
		if err := validateIntakePolicy(updated); err != nil {
			log.Warn("invalid intake policy ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("intake policy reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

func (h *IntakePolicyHolder) Get() IntakePolicy {
	return h.current.Load().(IntakePolicy)
}

func validateIntakePolicy(p IntakePolicy) error {
	if strings.TrimSpace(p.PhonePrefix) == "" {
		return errors.New("intake.phonePrefix cannot be empty")
	}
	if p.PhoneDigits <= len(p.PhonePrefix) {
		return errors.New("intake.phoneDigits must be longer than the prefix")
	}
	if p.MaxName <= 0 || p.MaxSchool <= 0 || p.MaxEmail <= 0 || p.MaxInformation <= 0 {
		return errors.New("intake field limits must be positive")
	}
	if p.SlugMaxLength <= 0 {
		return errors.New("intake.slugMaxLength must be positive")
	}
	return nil
}
