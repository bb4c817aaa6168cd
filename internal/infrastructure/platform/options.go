package platform

import (
	"time"

	"social-publisher/pkg/config"

	"github.com/cenkalti/backoff/v4"
)

// Options bounds polling and retries of the protocol drivers.
type Options struct {
	MaxPollAttempts      int
	PollInterval         time.Duration
	MaxPublishRetries    int
	PublishRetryInterval time.Duration
	MaxCarouselItems     int
}

func DefaultOptions() Options {
	return Options{
		MaxPollAttempts:      10,
		PollInterval:         3 * time.Second,
		MaxPublishRetries:    3,
		PublishRetryInterval: 2 * time.Second,
		MaxCarouselItems:     10,
	}
}

func OptionsFromConfig(cfg config.PublishConfig) Options {
	opts := Options{
		MaxPollAttempts:      cfg.MaxPollAttempts,
		PollInterval:         cfg.PollInterval,
		MaxPublishRetries:    cfg.MaxPublishRetries,
		PublishRetryInterval: cfg.PublishRetryInterval,
		MaxCarouselItems:     cfg.MaxCarouselItems,
	}
	return opts.withDefaults()
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxPollAttempts < 1 {
		o.MaxPollAttempts = def.MaxPollAttempts
	}
	if o.PollInterval < 0 {
		o.PollInterval = def.PollInterval
	}
	if o.MaxPublishRetries < 0 {
		o.MaxPublishRetries = 0
	}
	if o.PublishRetryInterval < 0 {
		o.PublishRetryInterval = def.PublishRetryInterval
	}
	if o.MaxCarouselItems < 1 {
		o.MaxCarouselItems = def.MaxCarouselItems
	}
	return o
}

// pollBackOff yields MaxPollAttempts attempts in total, PollInterval apart.
func (o Options) pollBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(o.PollInterval), uint64(o.MaxPollAttempts-1))
}

// publishBackOff yields one attempt plus MaxPublishRetries retries.
func (o Options) publishBackOff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(o.PublishRetryInterval), uint64(o.MaxPublishRetries))
}
