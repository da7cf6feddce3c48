package partition

import (
	"github.com/google/uuid"

	"github.com/kbukum/partitionflow/config"
	"github.com/kbukum/partitionflow/logger"
	"github.com/kbukum/partitionflow/validation"
)

// Policy names accepted by Config.Policy.
const (
	PolicyRoundRobin = "round_robin"
	PolicyKeyed      = "keyed"
)

// Config describes one pipeline instance.
type Config struct {
	// Name identifies the pipeline in logs, metrics and spans.
	Name string `yaml:"name" mapstructure:"name"`
	// Partitions is the fixed number of partitions N. It has no default.
	Partitions int `yaml:"partitions" mapstructure:"partitions" validate:"min=1"`
	// Capacity is the per-partition buffer size; 0 is a rendezvous handoff.
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"min=0"`
	// OutputCapacity is the buffer size of the merged output channel.
	OutputCapacity int `yaml:"output_capacity" mapstructure:"output_capacity" validate:"min=0"`
	// Policy is the policy built by NewPolicy: round_robin or keyed.
	Policy string `yaml:"policy" mapstructure:"policy" validate:"omitempty,oneof=round_robin keyed"`
}

// ApplyDefaults fills Name and Policy. Partitions is never defaulted.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "partition-" + uuid.NewString()[:8]
	}
	if c.Policy == "" {
		c.Policy = PolicyRoundRobin
	}
}

// Validate returns an INVALID_CONFIG error for out-of-range values.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// FileConfig is the layout read by LoadConfig.
type FileConfig struct {
	Partition Config        `yaml:"partition" mapstructure:"partition"`
	Logging   logger.Config `yaml:"logging" mapstructure:"logging"`
}

// LoadConfig reads the partition and logging sections from the config file
// and environment (PARTITIONFLOW_PARTITION_PARTITIONS=8, ...), applies
// defaults and validates both.
func LoadConfig(opts ...config.Option) (*FileConfig, error) {
	var fc FileConfig
	if err := config.Load(&fc, opts...); err != nil {
		return nil, err
	}
	fc.Partition.ApplyDefaults()
	fc.Logging.ApplyDefaults()
	if err := fc.Partition.Validate(); err != nil {
		return nil, err
	}
	if err := fc.Logging.Validate(); err != nil {
		return nil, err
	}
	return &fc, nil
}
