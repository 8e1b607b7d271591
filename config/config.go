package config

import (
	"fmt"
	"runners/agent"
	"runners/game"
	"runners/gamemaster"
	"runners/meta"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "RUNNERS"

type Config struct {
	LogLevel   string        `json:"logLevel" mapstructure:"logLevel"`
	Experiment string        `json:"experiment" mapstructure:"experiment"` // Empty runs a single series
	Race       RaceConfig    `json:"race" mapstructure:"race"`
	Storage    StorageConfig `json:"storage" mapstructure:"storage"`
	Metrics    MetricsConfig `json:"metrics" mapstructure:"metrics"`
}

type RaceConfig struct {
	Track     string   `json:"track" mapstructure:"track"`
	TrackFile string   `json:"trackFile" mapstructure:"trackFile"` // Custom yaml track, wins over Track
	Racers    []string `json:"racers" mapstructure:"racers"`       // Seat order
	Policy    string   `json:"policy" mapstructure:"policy"`       // One kind, or one per seat separated by commas
	Count     int      `json:"count" mapstructure:"count"`
	MaxTurns  int      `json:"maxTurns" mapstructure:"maxTurns"`
	Seed      uint64   `json:"seed" mapstructure:"seed"`
	Rerolls   int      `json:"rerolls" mapstructure:"rerolls"`
}

type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	Dir        string `json:"dir" mapstructure:"dir"`
	SQLitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("experiment", "")

	viper.SetDefault("race.track", string(game.Wild))
	viper.SetDefault("race.trackFile", "")
	viper.SetDefault("race.racers", []string{
		string(game.Banana), string(game.Gunk), string(game.Mouth), string(game.Romantic), string(game.Suckerfish),
	})
	viper.SetDefault("race.policy", string(agent.First))
	viper.SetDefault("race.count", meta.RACES)
	viper.SetDefault("race.maxTurns", meta.MAX_TURNS)
	viper.SetDefault("race.seed", meta.SEED)
	viper.SetDefault("race.rerolls", 0)

	viper.SetDefault("storage.type", "none")
	viper.SetDefault("storage.dir", "./races")
	viper.SetDefault("storage.sqlitePath", "races.sqlite")

	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.dir", "./experiments")
}

// flags maps command line flags to config keys.
var flags = map[string]string{
	"log-level":   "logLevel",
	"experiment":  "experiment",
	"track":       "race.track",
	"track-file":  "race.trackFile",
	"racers":      "race.racers",
	"policy":      "race.policy",
	"races":       "race.count",
	"max-turns":   "race.maxTurns",
	"seed":        "race.seed",
	"rerolls":     "race.rerolls",
	"storage":     "storage.type",
	"storage-dir": "storage.dir",
	"sqlite-path": "storage.sqlitePath",
	"metrics":     "metrics.enabled",
	"metrics-dir": "metrics.dir",
}

// BindFlags registers the command line flags on fs and binds them to the
// config keys. Flags only override other sources when they are set.
func BindFlags(fs *pflag.FlagSet) error {
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.String("experiment", "", "experiment to run instead of a series (policies, rerolls)")
	fs.String("track", string(game.Wild), "track preset (mild, wild)")
	fs.String("track-file", "", "yaml file with a custom track")
	fs.StringSlice("racers", nil, "racers in seat order")
	fs.String("policy", string(agent.First), "decision policy (first, naive, random), or one per seat")
	fs.Int("races", meta.RACES, "number of races in the series")
	fs.Int("max-turns", meta.MAX_TURNS, "turn ceiling of a race")
	fs.Uint64("seed", meta.SEED, "seed for dice and random policies")
	fs.Int("rerolls", 0, "rerolls per main move")
	fs.String("storage", "none", "race storage (none, memory, jsonl, sqlite)")
	fs.String("storage-dir", "./races", "directory for stored races")
	fs.String("sqlite-path", "races.sqlite", "sqlite database, relative to the storage directory")
	fs.Bool("metrics", false, "write race and step metrics")
	fs.String("metrics-dir", "./experiments", "directory for metrics")

	for name, key := range flags {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Load reads the configuration. Values come from flags bound with BindFlags,
// then RUNNERS_ environment variables, then the config file at path if one
// is given, then the defaults.
func Load(path string) (Config, error) {
	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, nil
}

// Level returns the zerolog level, info when LogLevel is empty or unknown.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

func (c Config) Track() (*game.Track, error) {
	if c.Race.TrackFile != "" {
		return game.LoadTrack(c.Race.TrackFile)
	}
	return game.NewTrack(game.TrackVersion(strings.ToLower(c.Race.Track)))
}

func (c Config) RacerNames() ([]game.RacerName, error) {
	names := make([]game.RacerName, 0, len(c.Race.Racers))
	for _, s := range c.Race.Racers {
		name, ok := game.ParseRacerName(strings.TrimSpace(s))
		if !ok {
			return nil, fmt.Errorf("unknown racer %q", s)
		}
		names = append(names, name)
	}
	return names, nil
}

func (c Config) Policies() []agent.Kind {
	var kinds []agent.Kind
	for _, s := range strings.Split(c.Race.Policy, ",") {
		if s = strings.TrimSpace(s); s != "" {
			kinds = append(kinds, agent.Kind(strings.ToLower(s)))
		}
	}
	return kinds
}

// Settings builds the series settings described by the race config.
func (c Config) Settings() (gamemaster.Settings, error) {
	track, err := c.Track()
	if err != nil {
		return gamemaster.Settings{}, fmt.Errorf("failed to load track: %w", err)
	}
	racers, err := c.RacerNames()
	if err != nil {
		return gamemaster.Settings{}, err
	}
	return gamemaster.Settings{
		Track:    track,
		Racers:   racers,
		Policies: c.Policies(),
		Races:    c.Race.Count,
		MaxTurns: c.Race.MaxTurns,
		Seed:     c.Race.Seed,
		Rerolls:  c.Race.Rerolls,
		Metrics:  c.Metrics.Enabled,
	}, nil
}
