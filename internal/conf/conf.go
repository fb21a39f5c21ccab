// Package conf defines the process-wide Bootstrap configuration, loaded
// from a TOML file via github.com/pelletier/go-toml/v2.
package conf

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Bootstrap is the root configuration document.
type Bootstrap struct {
	Project Project `toml:"project"`
	Server  Server  `toml:"server"`
	Data    Data    `toml:"data"`
	Log     Log     `toml:"log"`

	// ConfigPath is the file Load read bc from, so a later WriteConfig call
	// can persist edits (e.g. a changed operator password) back to it. Not
	// itself part of the TOML document.
	ConfigPath string `toml:"-"`
	// BuildVersion is stamped in by the linker at build time (ldflags),
	// mirroring how the editor shell reports its own version over /health.
	BuildVersion string `toml:"-"`
}

// Project holds the engine-wide defaults every new clip is authored with.
// The tick rate every timeline.T is expressed in (timeline.BaseRate) is a
// fixed engine invariant, not configurable here: every clip's SampleRate
// must divide it evenly, but the base itself never varies between clips or
// processes.
type Project struct {
	// DefaultSampleRate is the sample rate new clips are created with.
	DefaultSampleRate int `toml:"default_sample_rate"`
	// DefaultInterpolation is the curve interpolation new keyframes are
	// authored with: "Step", "Linear", or "Cubic".
	DefaultInterpolation string `toml:"default_interpolation"`
}

// Server holds the HTTP surface configuration.
type Server struct {
	HTTP HTTP       `toml:"http"`
	Auth ServerAuth `toml:"auth"`
}

// HTTP is the editor host's HTTP listener configuration.
type HTTP struct {
	Addr      string `toml:"addr"`
	JwtSecret string `toml:"jwt_secret"`
	// StaticDir, when set, serves a built editor frontend bundle under
	// /web. Left empty, the API runs headless (no UI serving).
	StaticDir string `toml:"static_dir"`
}

// ServerAuth holds the editor shell's single-operator credentials.
type ServerAuth struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Data holds persistence configuration.
type Data struct {
	Database Database `toml:"database"`
}

// Database configures the gorm connection. Dsn's scheme prefix selects the
// dialector: "postgres://" or "mysql://"; anything else is treated as a
// sqlite file path.
type Database struct {
	Dsn             string   `toml:"dsn"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	SlowThreshold   Duration `toml:"slow_threshold"`
}

// Log configures the shared slog handler.
type Log struct {
	Level string `toml:"level"`
}

// Duration is a TOML-friendly wrapper around time.Duration, parsed from
// strings like "500ms" or "1h" via encoding.TextUnmarshaler.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Bootstrap with sane defaults for local development.
func Default() *Bootstrap {
	return &Bootstrap{
		Project: Project{
			DefaultSampleRate:    30,
			DefaultInterpolation: "Linear",
		},
		Server: Server{
			HTTP: HTTP{Addr: ":8080"},
		},
		Data: Data{
			Database: Database{
				Dsn:             "moviemaker.db",
				MaxIdleConns:    1,
				MaxOpenConns:    1,
				ConnMaxLifetime: Duration{time.Hour},
				SlowThreshold:   Duration{200 * time.Millisecond},
			},
		},
		Log: Log{Level: "info"},
	}
}

// Load reads and parses a Bootstrap from a TOML file at path, starting from
// Default() so unset fields keep their defaults.
func Load(path string) (*Bootstrap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	bc := Default()
	if err := toml.Unmarshal(data, bc); err != nil {
		return nil, err
	}
	bc.ConfigPath = path
	return bc, nil
}

// WriteConfig marshals bc back to path as TOML, used after an in-process
// edit (e.g. rotating the operator password) so it survives a restart.
func WriteConfig(bc *Bootstrap, path string) error {
	data, err := toml.Marshal(bc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
